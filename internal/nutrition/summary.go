package nutrition

import (
	"math"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
)

// SnackPortionGrams is the fixed snack serving.
const SnackPortionGrams = 30

// Summary is the calorie breakdown shown alongside a plan.
type Summary struct {
	Daily       int                         `json:"daily"`
	Proportions map[shared.MealSlot]float64 `json:"proportions"`
	Flex        float64                     `json:"flex"`
	MealKcal    map[shared.MealSlot]int     `json:"meal_kcal"`
	FlexKcal    int                         `json:"flex_kcal"`
}

// Portions are approximate gram amounts for one main meal.
type Portions struct {
	Carb    int `json:"carb"`
	Protein int `json:"protein"`
	Veg     int `json:"veg"`
	Fruit   int `json:"fruit"`
}

// Summarize allocates the day and converts proportions to kcal. Snack slots
// share the combined snack proportion evenly.
func Summarize(calories int, slots []shared.MealSlot) Summary {
	alloc := Allocate(slots)

	var snackProp float64
	snackCount := 0
	for slot, p := range alloc.Proportions {
		if slot.IsSnack() {
			snackProp += p
			snackCount++
		}
	}
	if snackCount == 0 {
		snackCount = 1
	}

	kcal := make(map[shared.MealSlot]int, len(alloc.Proportions))
	for slot, p := range alloc.Proportions {
		if slot.IsSnack() {
			kcal[slot] = round(float64(calories) * snackProp / float64(snackCount))
			continue
		}
		kcal[slot] = round(float64(calories) * max(0, p))
	}

	return Summary{
		Daily:       calories,
		Proportions: alloc.Proportions,
		Flex:        alloc.Flex,
		MealKcal:    kcal,
		FlexKcal:    round(float64(calories) * alloc.Flex),
	}
}

// PortionsFor scales the base portions by mealKcal/600.
func PortionsFor(slot shared.MealSlot, mealKcal int) Portions {
	scale := float64(mealKcal) / 600
	carb, protein := 100.0, 80.0
	if slot == shared.Breakfast {
		carb, protein = 50, 30
	}
	p := Portions{
		Carb:    max(0, round(carb*scale)),
		Protein: max(0, round(protein*scale)),
		Fruit:   max(0, round(150*scale)),
	}
	if slot != shared.Breakfast {
		p.Veg = max(0, round(100*scale))
	}
	return p
}

func round(v float64) int {
	return int(math.Round(v))
}
