// Package nutrition turns a daily calorie target into per-meal allocations.
package nutrition

import (
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
)

// MaxFlex is the largest share of the day left unassigned to any slot.
const MaxFlex = 0.10

// Band is the allowed fraction of daily calories for a slot.
type Band struct {
	Min float64
	Max float64
}

// Bands holds the per-slot calorie bands.
var Bands = map[shared.MealSlot]Band{
	shared.Breakfast:   {Min: 0.20, Max: 0.25},
	shared.Lunch:       {Min: 0.30, Max: 0.40},
	shared.Dinner:      {Min: 0.20, Max: 0.30},
	shared.FirstSnack:  {Min: 0.05, Max: 0.10},
	shared.SecondSnack: {Min: 0.00, Max: 0.10},
}

// Allocation is the fraction of daily calories assigned to each requested slot
// plus the unassigned flex margin.
type Allocation struct {
	Proportions map[shared.MealSlot]float64 `json:"proportions"`
	Flex        float64                     `json:"flex"`
}

// Allocate walks the slots in the given order, giving each the midpoint of its
// band clamped to what is left of the day. Leftover budget becomes flex; flex
// above MaxFlex is split evenly into lunch and dinner when either was requested.
//
// When neither lunch nor dinner is requested the excess stays in flex and is
// not capped.
func Allocate(slots []shared.MealSlot) Allocation {
	proportions := make(map[shared.MealSlot]float64, len(slots))
	remaining := 1.0

	for _, slot := range slots {
		band, ok := Bands[slot]
		if !ok {
			continue
		}
		if _, dup := proportions[slot]; dup {
			continue
		}
		maxPossible := min(band.Max, remaining)
		prop := max(band.Min, min(maxPossible, (band.Min+maxPossible)/2))
		proportions[slot] = prop
		remaining -= prop
	}

	flex := max(0, remaining)
	if flex > MaxFlex {
		var targets []shared.MealSlot
		for _, s := range []shared.MealSlot{shared.Lunch, shared.Dinner} {
			if _, ok := proportions[s]; ok {
				targets = append(targets, s)
			}
		}
		if len(targets) > 0 {
			per := (flex - MaxFlex) / float64(len(targets))
			for _, s := range targets {
				proportions[s] += per
			}
			flex = MaxFlex
		}
	}

	return Allocation{Proportions: proportions, Flex: flex}
}

// Total returns the sum of slot proportions and flex.
func (a Allocation) Total() float64 {
	total := a.Flex
	for _, p := range a.Proportions {
		total += p
	}
	return total
}
