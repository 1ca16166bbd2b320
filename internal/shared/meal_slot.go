package shared

import (
	"fmt"
	"strings"
)

// MealSlot is a named meal occasion within a day.
type MealSlot string

const (
	Breakfast   MealSlot = "breakfast"
	Lunch       MealSlot = "lunch"
	Dinner      MealSlot = "dinner"
	FirstSnack  MealSlot = "firstSnack"
	SecondSnack MealSlot = "secondSnack"
)

// AllSlots lists every slot in canonical day order.
var AllSlots = []MealSlot{Breakfast, Lunch, Dinner, FirstSnack, SecondSnack}

// IsSnack reports whether the slot is one of the snack slots.
func (s MealSlot) IsSnack() bool {
	return s == FirstSnack || s == SecondSnack
}

// IsMain reports whether the slot is breakfast, lunch or dinner.
func (s MealSlot) IsMain() bool {
	return s == Breakfast || s == Lunch || s == Dinner
}

// Valid reports whether the slot is a known slot.
func (s MealSlot) Valid() bool {
	return s.IsMain() || s.IsSnack()
}

func (s MealSlot) String() string {
	return string(s)
}

// ParseMealSlot accepts the canonical names case-insensitively.
func ParseMealSlot(raw string) (MealSlot, error) {
	trimmed := strings.TrimSpace(raw)
	for _, s := range AllSlots {
		if strings.EqualFold(trimmed, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown meal slot %q", raw)
}

// ParseMealSlots parses a list of slot names, dropping duplicates while keeping
// the order in which each slot first appeared.
func ParseMealSlots(raw []string) ([]MealSlot, error) {
	seen := make(map[MealSlot]struct{}, len(raw))
	slots := make([]MealSlot, 0, len(raw))
	for _, r := range raw {
		s, err := ParseMealSlot(r)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		slots = append(slots, s)
	}
	return slots, nil
}
