// Package shopping consolidates a generated plan into a shopping list.
package shopping

import (
	"cmp"
	"slices"
	"strings"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/nutrition"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/planner"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
)

// Category groups list items the way a market is laid out.
type Category string

const (
	Carbs      Category = "carbs"
	Proteins   Category = "proteins"
	Vegetables Category = "vegetables"
	Fruits     Category = "fruits"
	Snacks     Category = "snacks"
)

var categoryOrder = map[Category]int{Carbs: 0, Proteins: 1, Vegetables: 2, Fruits: 3, Snacks: 4}

// Item is one food with the number of servings the plan uses. Grams is only
// set when the plan had a calorie target, except for snacks which always use
// the fixed snack portion.
type Item struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Servings int      `json:"servings"`
	Grams    int      `json:"grams,omitempty"`
}

// List is a consolidated shopping list, ordered by category then name.
type List struct {
	Items []Item `json:"items"`
}

// Build walks every day and slot of res in meals order and sums servings per
// food. Names are matched case-insensitively; empty picks are skipped.
func Build(res *planner.Result, meals []shared.MealSlot, sum *nutrition.Summary) List {
	b := builder{items: []Item{}, index: make(map[string]int)}
	if res == nil {
		return List{Items: b.items}
	}

	for _, day := range res.Plans {
		for _, slot := range meals {
			sel, ok := day[slot]
			if !ok {
				continue
			}
			if slot.IsSnack() {
				b.add(sel.Snack, Snacks, nutrition.SnackPortionGrams)
				continue
			}
			var p nutrition.Portions
			if sum != nil {
				p = nutrition.PortionsFor(slot, sum.MealKcal[slot])
			}
			b.add(sel.Carb, Carbs, p.Carb)
			b.add(sel.Protein, Proteins, p.Protein)
			if slot != shared.Breakfast {
				b.add(sel.Veg, Vegetables, p.Veg)
			}
			b.add(sel.Fruit, Fruits, p.Fruit)
		}
	}

	slices.SortStableFunc(b.items, func(x, y Item) int {
		if c := cmp.Compare(categoryOrder[x.Category], categoryOrder[y.Category]); c != 0 {
			return c
		}
		return cmp.Compare(strings.ToLower(x.Name), strings.ToLower(y.Name))
	})
	return List{Items: b.items}
}

type builder struct {
	items []Item
	index map[string]int
}

func (b *builder) add(name string, cat Category, grams int) {
	if name == "" {
		return
	}
	key := string(cat) + "|" + strings.ToLower(name)
	if i, ok := b.index[key]; ok {
		b.items[i].Servings++
		b.items[i].Grams += grams
		return
	}
	b.index[key] = len(b.items)
	b.items = append(b.items, Item{Name: name, Category: cat, Servings: 1, Grams: grams})
}

// ByCategory groups the items, preserving their order within each group.
func (l List) ByCategory() map[Category][]Item {
	out := make(map[Category][]Item)
	for _, it := range l.Items {
		out[it.Category] = append(out[it.Category], it)
	}
	return out
}
