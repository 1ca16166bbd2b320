// Package render turns a generated plan into an HTML page.
package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/nutrition"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/planner"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
)

// Missing is shown for an empty pool.
const Missing = "—"

//go:embed plan.html.tmpl
var planTemplate string

var pageTmpl = template.Must(template.New("plan").Parse(planTemplate))

var slotLabels = map[shared.MealSlot]string{
	shared.Breakfast:   "Desayuno",
	shared.Lunch:       "Almuerzo",
	shared.Dinner:      "Cena",
	shared.FirstSnack:  "Colación 1",
	shared.SecondSnack: "Colación 2",
}

// SlotLabel is the display name of a slot.
func SlotLabel(slot shared.MealSlot) string {
	if l, ok := slotLabels[slot]; ok {
		return l
	}
	return slot.String()
}

// View is everything the page needs. Summary and Tips are optional.
type View struct {
	Name     string
	Location string
	Meals    []shared.MealSlot
	Result   *planner.Result
	Summary  *nutrition.Summary
	Tips     []string
	Now      time.Time
}

type page struct {
	Name     string
	City     string
	Season   string
	Daily    int
	FlexKcal int
	Days     []dayView
	Tips     []string
}

type dayView struct {
	Number int
	Even   bool
	Meals  []mealView
}

type mealView struct {
	Slot  shared.MealSlot
	Label string
	Kcal  int
	Snack bool
	Rows  []row
}

type row struct {
	Label string
	Value string
}

// HTML writes the plan page to w.
func HTML(w io.Writer, v View) error {
	if v.Result == nil {
		return fmt.Errorf("render: no plan to render")
	}
	now := v.Now
	if now.IsZero() {
		now = time.Now()
	}

	p := page{
		Name:   v.Name,
		City:   CityLabel(v.Location),
		Season: Season(now),
		Tips:   v.Tips,
	}
	if v.Summary != nil {
		p.Daily = v.Summary.Daily
		p.FlexKcal = v.Summary.FlexKcal
	}

	for i, day := range v.Result.Plans {
		dv := dayView{Number: i + 1, Even: (i+1)%2 == 0}
		for _, slot := range v.Meals {
			sel, ok := day[slot]
			if !ok {
				continue
			}
			dv.Meals = append(dv.Meals, mealCard(slot, sel, v.Summary))
		}
		p.Days = append(p.Days, dv)
	}

	if err := pageTmpl.Execute(w, p); err != nil {
		return fmt.Errorf("failed to render plan: %w", err)
	}
	return nil
}

func mealCard(slot shared.MealSlot, sel planner.Selection, sum *nutrition.Summary) mealView {
	mv := mealView{Slot: slot, Label: SlotLabel(slot), Snack: slot.IsSnack()}
	if sum != nil {
		mv.Kcal = sum.MealKcal[slot]
	}

	if slot.IsSnack() {
		mv.Rows = []row{{"Snack", fmt.Sprintf("%s - %dg", sel.Snack, nutrition.SnackPortionGrams)}}
		return mv
	}

	// Without a calorie target there is nothing to scale portions from.
	var portions nutrition.Portions
	if sum != nil {
		portions = nutrition.PortionsFor(slot, mv.Kcal)
	}
	mv.Rows = append(mv.Rows,
		row{"Carbohidratos", item(sel.Carb, portions.Carb)},
		row{"Proteínas", item(sel.Protein, portions.Protein)},
	)
	if slot != shared.Breakfast {
		mv.Rows = append(mv.Rows, row{"Vegetales", item(sel.Veg, portions.Veg)})
	}
	mv.Rows = append(mv.Rows, row{"Frutas", item(sel.Fruit, portions.Fruit)})
	return mv
}

func item(name string, grams int) string {
	if name == "" {
		name = Missing
	}
	if grams > 0 {
		return fmt.Sprintf("%s - %dg", name, grams)
	}
	return name
}

// Season returns the southern-hemisphere season for t's month.
func Season(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return "Verano"
	case time.March, time.April, time.May:
		return "Otoño"
	case time.June, time.July, time.August:
		return "Invierno"
	default:
		return "Primavera"
	}
}

// CityLabel turns a location key such as "puerto-montt" into "Puerto Montt".
func CityLabel(location string) string {
	words := strings.ReplaceAll(strings.TrimSpace(location), "-", " ")
	return cases.Title(language.Spanish).String(words)
}
