package planner

import (
	"encoding/json"
	"strings"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/catalog"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
)

// Selection is the food chosen for one slot. Snack slots only use Snack;
// main slots use Carb, Protein, Veg and Fruit. An empty string means no item.
type Selection struct {
	Slot    shared.MealSlot
	Carb    string
	Protein string
	Veg     string
	Fruit   string
	Snack   string
}

// Signature is the repetition key of a selection. Two selections are the same
// meal iff their signatures are equal.
func (s Selection) Signature() string {
	return strings.ToLower(strings.Join([]string{
		string(s.Slot), s.Carb, s.Protein, s.Veg, s.Fruit, s.Snack,
	}, "|"))
}

func (s Selection) MarshalJSON() ([]byte, error) {
	if s.Slot.IsSnack() {
		return json.Marshal(struct {
			Snack string `json:"snack"`
		}{s.Snack})
	}
	return json.Marshal(struct {
		Carb    *string `json:"carb"`
		Protein *string `json:"protein"`
		Veg     *string `json:"veg"`
		Fruit   *string `json:"fruit"`
	}{nullable(s.Carb), nullable(s.Protein), nullable(s.Veg), nullable(s.Fruit)})
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// DayPlan maps each requested slot to its selection for one day.
type DayPlan map[shared.MealSlot]Selection

// Position identifies one slot on one day of a plan.
type Position struct {
	Day  int             `json:"day"`
	Slot shared.MealSlot `json:"slot"`
}

// Stats describe how hard the generator had to search.
type Stats struct {
	Attempts  int        `json:"attempts"`
	Fallbacks []Position `json:"fallbacks"`
}

// Result is a generated plan and the working catalog it was drawn from.
type Result struct {
	Plans       []DayPlan            `json:"plans"`
	CatalogUsed *catalog.FoodCatalog `json:"catalog_used"`
	Stats       Stats                `json:"-"`
}
