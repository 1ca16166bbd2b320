package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/catalog"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
)

func defaultPlanner(t *testing.T) *Planner {
	t.Helper()
	doc, err := catalog.LoadDefault()
	require.NoError(t, err)
	return NewPlanner(catalog.NewStore(doc), nil)
}

func plannerWith(cities map[string]catalog.FoodCatalog) *Planner {
	return NewPlanner(catalog.NewStore(&catalog.Document{Cities: cities}), nil)
}

func single(item string) []string { return []string{item} }

func TestGeneratePlan_Deterministic(t *testing.T) {
	p := defaultPlanner(t)
	req := Request{Days: 10, Meals: shared.AllSlots, Location: "Santiago"}

	a, err := p.GeneratePlan(req, NewSeededSource(42))
	require.NoError(t, err)
	b, err := p.GeneratePlan(req, NewSeededSource(42))
	require.NoError(t, err)

	assert.Equal(t, a.Plans, b.Plans)
	assert.Equal(t, a.Stats, b.Stats)
}

func TestGeneratePlan_RepetitionConstraints(t *testing.T) {
	p := defaultPlanner(t)
	req := Request{Days: 30, Meals: shared.AllSlots, Location: "santiago"}

	for seed := uint64(1); seed <= 5; seed++ {
		res, err := p.GeneratePlan(req, NewSeededSource(seed))
		require.NoError(t, err)
		require.Len(t, res.Plans, 30)

		fallback := make(map[Position]bool, len(res.Stats.Fallbacks))
		for _, pos := range res.Stats.Fallbacks {
			fallback[pos] = true
		}

		counts := map[string]int{}
		for d, day := range res.Plans {
			require.Len(t, day, len(shared.AllSlots))
			for _, slot := range shared.AllSlots {
				if fallback[Position{Day: d, Slot: slot}] {
					continue
				}
				sig := day[slot].Signature()
				counts[sig]++
				for back := 1; back <= RepeatWindow && d-back >= 0; back++ {
					assert.NotEqual(t, sig, res.Plans[d-back][slot].Signature(),
						"seed %d: day %d slot %s repeats day %d", seed, d, slot, d-back)
				}
			}
		}
		for sig, n := range counts {
			assert.LessOrEqual(t, n, MaxOccurrences, "seed %d: %s", seed, sig)
		}
	}
}

func TestGeneratePlan_SnackScarcityUsesFallback(t *testing.T) {
	// Six snacks at three uses each cannot cover thirty days.
	p := defaultPlanner(t)
	res, err := p.GeneratePlan(Request{Days: 30, Meals: []shared.MealSlot{shared.FirstSnack}, Location: "santiago"}, NewSeededSource(7))
	require.NoError(t, err)
	require.Len(t, res.Plans, 30)
	assert.NotEmpty(t, res.Stats.Fallbacks)
	for _, pos := range res.Stats.Fallbacks {
		assert.Equal(t, "Nueces", res.Plans[pos.Day][shared.FirstSnack].Snack)
	}
}

func TestGeneratePlan_SingleItemPools(t *testing.T) {
	p := plannerWith(map[string]catalog.FoodCatalog{
		"tiny": {
			Carbs:      catalog.SplitList{All: single("Arroz"), Breakfast: single("Avena")},
			Proteins:   catalog.SplitList{All: single("Pollo"), Breakfast: single("Huevo")},
			Vegetables: single("Tomate"),
			Fruits:     single("Manzana"),
			Snacks:     single("Nueces"),
		},
	})

	res, err := p.GeneratePlan(Request{Days: 8, Meals: []shared.MealSlot{shared.Lunch}, Location: "tiny"}, NewSeededSource(1))
	require.NoError(t, err)
	require.Len(t, res.Plans, 8)

	assert.Len(t, res.Stats.Fallbacks, 7)
	for d := 1; d < 8; d++ {
		assert.Contains(t, res.Stats.Fallbacks, Position{Day: d, Slot: shared.Lunch})
	}
	want := Selection{Slot: shared.Lunch, Carb: "Arroz", Protein: "Pollo", Veg: "Tomate", Fruit: "Manzana"}
	for _, day := range res.Plans {
		assert.Equal(t, want, day[shared.Lunch])
	}
	assert.Equal(t, 1+7*MaxAttempts, res.Stats.Attempts)
}

func TestGeneratePlan_EmptyPools(t *testing.T) {
	p := plannerWith(map[string]catalog.FoodCatalog{"empty": {}})

	res, err := p.GeneratePlan(Request{
		Days:     2,
		Meals:    []shared.MealSlot{shared.Breakfast, shared.Dinner, shared.SecondSnack},
		Location: "empty",
	}, NewSeededSource(3))
	require.NoError(t, err)
	require.Len(t, res.Plans, 2)

	for _, day := range res.Plans {
		assert.Equal(t, Selection{Slot: shared.Breakfast}, day[shared.Breakfast])
		assert.Equal(t, Selection{Slot: shared.Dinner}, day[shared.Dinner])
		assert.Equal(t, FallbackSnack, day[shared.SecondSnack].Snack)
	}

	data, err := json.Marshal(res.Plans[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"breakfast": {"carb": null, "protein": null, "veg": null, "fruit": null},
		"dinner": {"carb": null, "protein": null, "veg": null, "fruit": null},
		"secondSnack": {"snack": "fresh fruit"}
	}`, string(data))
}

func TestGeneratePlan_BreakfastPools(t *testing.T) {
	p := plannerWith(map[string]catalog.FoodCatalog{
		"split": {
			Carbs:      catalog.SplitList{All: []string{"Arroz", "Quinoa"}, Breakfast: []string{"Avena", "Pan"}},
			Proteins:   catalog.SplitList{All: []string{"Pollo", "Pavo"}, Breakfast: []string{"Huevo", "Yogurt"}},
			Vegetables: []string{"Tomate", "Lechuga"},
			Fruits:     []string{"Manzana", "Pera", "Kiwi"},
		},
	})

	res, err := p.GeneratePlan(Request{Days: 5, Meals: []shared.MealSlot{shared.Breakfast, shared.Lunch}, Location: "split"}, NewSeededSource(9))
	require.NoError(t, err)
	for _, day := range res.Plans {
		b := day[shared.Breakfast]
		assert.Contains(t, []string{"Avena", "Pan"}, b.Carb)
		assert.Contains(t, []string{"Huevo", "Yogurt"}, b.Protein)
		assert.Empty(t, b.Veg)

		l := day[shared.Lunch]
		assert.Contains(t, []string{"Arroz", "Quinoa"}, l.Carb)
		assert.Contains(t, []string{"Pollo", "Pavo"}, l.Protein)
		assert.NotEmpty(t, l.Veg)
	}
}

func TestGeneratePlan_FiltersApplied(t *testing.T) {
	p := defaultPlanner(t)
	res, err := p.GeneratePlan(Request{
		Days:       3,
		Meals:      []shared.MealSlot{shared.Lunch},
		Location:   "Santiago",
		DietType:   catalog.Vegan,
		Conditions: []catalog.Condition{catalog.Celiac},
	}, NewSeededSource(5))
	require.NoError(t, err)

	assert.NotContains(t, res.CatalogUsed.Carbs.All, "Pasta integral")
	assert.NotContains(t, res.CatalogUsed.Proteins.All, "Pechuga de pollo")
	assert.NotContains(t, res.CatalogUsed.Fruits, "Limón")
	for _, day := range res.Plans {
		assert.Contains(t, res.CatalogUsed.Proteins.All, day[shared.Lunch].Protein)
	}
}

func TestGeneratePlan_UnknownLocation(t *testing.T) {
	p := defaultPlanner(t)
	res, err := p.GeneratePlan(Request{Days: 3, Meals: []shared.MealSlot{shared.Lunch}, Location: "Atlantis"}, nil)
	require.ErrorIs(t, err, catalog.ErrUnknownLocation)
	assert.Nil(t, res)
}

func TestGeneratePlan_Concurrent(t *testing.T) {
	p := defaultPlanner(t)
	req := Request{Days: 7, Meals: shared.AllSlots, Location: "valparaiso"}

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			res, err := p.GeneratePlan(req, NewSource())
			if err != nil {
				return err
			}
			res.CatalogUsed.Fruits[0] = "mutated"
			return nil
		})
	}
	require.NoError(t, g.Wait())

	base, err := p.catalogs.Base("valparaiso")
	require.NoError(t, err)
	assert.Equal(t, "Manzana", base.Fruits[0])
}

func TestSelection_MarshalJSON(t *testing.T) {
	breakfast := Selection{Slot: shared.Breakfast, Carb: "Avena", Protein: "Huevo", Fruit: "Kiwi"}
	data, err := json.Marshal(breakfast)
	require.NoError(t, err)
	assert.JSONEq(t, `{"carb":"Avena","protein":"Huevo","veg":null,"fruit":"Kiwi"}`, string(data))

	snack := Selection{Slot: shared.FirstSnack, Snack: "Nueces"}
	data, err = json.Marshal(snack)
	require.NoError(t, err)
	assert.JSONEq(t, `{"snack":"Nueces"}`, string(data))
}

func TestSelection_Signature(t *testing.T) {
	a := Selection{Slot: shared.Lunch, Carb: "Arroz", Protein: "Pollo", Veg: "Tomate", Fruit: "Kiwi"}
	b := Selection{Slot: shared.Lunch, Carb: "ARROZ", Protein: "pollo", Veg: "Tomate", Fruit: "kiwi"}
	c := a
	c.Slot = shared.Dinner

	assert.Equal(t, "lunch|arroz|pollo|tomate|kiwi|", a.Signature())
	assert.Equal(t, a.Signature(), b.Signature())
	assert.NotEqual(t, a.Signature(), c.Signature())
}

func TestTracker(t *testing.T) {
	tr := NewTracker()
	sel := Selection{Slot: shared.Dinner, Carb: "Arroz"}

	assert.True(t, tr.Acceptable(shared.Dinner, sel))
	tr.Record(sel)
	tr.Commit(DayPlan{shared.Dinner: sel})

	// Inside the window.
	for d := 1; d < RepeatWindow; d++ {
		assert.False(t, tr.Acceptable(shared.Dinner, sel), "day %d", d)
		tr.Commit(DayPlan{shared.Dinner: {Slot: shared.Dinner, Carb: "other"}})
	}
	assert.False(t, tr.Acceptable(shared.Dinner, sel))

	// Day 0 leaves the window.
	tr.Commit(DayPlan{shared.Dinner: {Slot: shared.Dinner, Carb: "other"}})
	assert.True(t, tr.Acceptable(shared.Dinner, sel))

	// The window is per slot.
	assert.True(t, tr.Acceptable(shared.Lunch, Selection{Slot: shared.Lunch, Carb: "other"}))

	tr.Record(sel)
	tr.Record(sel)
	assert.Equal(t, 3, tr.Count(sel))
	assert.False(t, tr.Acceptable(shared.Dinner, sel))
}

func TestSample(t *testing.T) {
	t.Run("AcceptsFirstMatch", func(t *testing.T) {
		n := 0
		v, tries, ok := Sample(10,
			func() int { n++; return n },
			func(v int) bool { return v == 3 },
			func() int { return -1 },
		)
		assert.True(t, ok)
		assert.Equal(t, 3, v)
		assert.Equal(t, 3, tries)
	})

	t.Run("FallsBack", func(t *testing.T) {
		v, tries, ok := Sample(5,
			func() string { return "x" },
			func(string) bool { return false },
			func() string { return "fallback" },
		)
		assert.False(t, ok)
		assert.Equal(t, "fallback", v)
		assert.Equal(t, 5, tries)
	})
}

func TestRequest_Validate(t *testing.T) {
	ok := Request{Days: 7, Meals: []shared.MealSlot{shared.Breakfast, shared.Lunch}, Location: "santiago", DietType: catalog.Vegetarian}
	require.NoError(t, ok.Validate())
	ok.Conditions = []catalog.Condition{catalog.Diabetes, catalog.Celiac, catalog.Lactose}
	require.NoError(t, ok.Validate())

	tests := map[string]Request{
		"ZeroDays":     {Days: 0, Meals: []shared.MealSlot{shared.Lunch}, Location: "santiago"},
		"TooManyDays":  {Days: 31, Meals: []shared.MealSlot{shared.Lunch}, Location: "santiago"},
		"NoMeals":      {Days: 3, Location: "santiago"},
		"BadSlot":      {Days: 3, Meals: []shared.MealSlot{"brunch"}, Location: "santiago"},
		"NoLocation":   {Days: 3, Meals: []shared.MealSlot{shared.Lunch}},
		"BadDiet":      {Days: 3, Meals: []shared.MealSlot{shared.Lunch}, Location: "santiago", DietType: "paleo"},
		"BadCondition": {Days: 3, Meals: []shared.MealSlot{shared.Lunch}, Location: "santiago", Conditions: []catalog.Condition{catalog.Celiac, "celiaco"}},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, req.Validate())
		})
	}
}

func TestClampDays(t *testing.T) {
	assert.Equal(t, 1, ClampDays(-4))
	assert.Equal(t, 1, ClampDays(0))
	assert.Equal(t, 14, ClampDays(14))
	assert.Equal(t, 30, ClampDays(90))
}

func TestRequest_Filters(t *testing.T) {
	req := Request{Allergies: []string{"maní"}}
	f := req.Filters()
	assert.Equal(t, catalog.Omnivore, f.Diet)
	assert.Equal(t, []string{"maní"}, f.Allergies)
}
