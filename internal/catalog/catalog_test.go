package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	doc, err := LoadDefault()
	require.NoError(t, err)
	return NewStore(doc)
}

func TestNormalizeLocation(t *testing.T) {
	tests := map[string]string{
		"Santiago":         "santiago",
		"La Serena":        "la-serena",
		"Puerto   Montt":   "puerto-montt",
		"  Viña del\tMar ": "viña-del-mar",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeLocation(in), "input %q", in)
	}
}

func TestParse(t *testing.T) {
	t.Run("DefaultDocumentIsValid", func(t *testing.T) {
		doc, err := LoadDefault()
		require.NoError(t, err)
		assert.Contains(t, doc.Cities, "santiago")
		assert.True(t, doc.CommonRules.ExcludeFruitsAsLemons)
	})

	t.Run("MissingSublistRejected", func(t *testing.T) {
		_, err := Parse([]byte(`{"cities": {"x": {"carbs": {"all": []}, "proteins": {"all": [], "breakfast": []}, "vegetables": [], "fruits": [], "snacks": []}}}`))
		require.ErrorIs(t, err, ErrInvalidCatalog)
		assert.Contains(t, err.Error(), "breakfast")
	})

	t.Run("NotJSON", func(t *testing.T) {
		_, err := Parse([]byte(`not json`))
		require.ErrorIs(t, err, ErrInvalidCatalog)
	})

	t.Run("LoadFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.json")
		require.NoError(t, os.WriteFile(path, defaultDocument, 0644))
		doc, err := LoadFile(path)
		require.NoError(t, err)
		assert.Len(t, doc.Cities, 5)

		_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
	})
}

func TestStoreBuild(t *testing.T) {
	store := testStore(t)

	t.Run("UnknownLocation", func(t *testing.T) {
		_, err := store.Build("Atlantis", Filters{})
		require.ErrorIs(t, err, ErrUnknownLocation)
	})

	t.Run("NormalizesLocation", func(t *testing.T) {
		c, err := store.Build("Puerto Montt", Filters{})
		require.NoError(t, err)
		assert.Contains(t, c.Proteins.All, "Salmón al horno")
	})

	t.Run("CitrusRuleFromDocument", func(t *testing.T) {
		c, err := store.Build("santiago", Filters{})
		require.NoError(t, err)
		assert.NotContains(t, c.Fruits, "Limón")
		assert.Contains(t, c.Fruits, "Naranja")
	})

	t.Run("IndependentResults", func(t *testing.T) {
		f := Filters{Diet: Vegetarian, Conditions: []Condition{Celiac}, Allergies: []string{"nuez"}}
		a, err := store.Build("santiago", f)
		require.NoError(t, err)
		b, err := store.Build("santiago", f)
		require.NoError(t, err)
		require.Equal(t, a, b)

		a.Fruits[0] = "mutated"
		a.Carbs.All = append(a.Carbs.All, "extra")
		assert.NotEqual(t, "mutated", b.Fruits[0])
		assert.NotContains(t, b.Carbs.All, "extra")

		base, err := store.Base("santiago")
		require.NoError(t, err)
		assert.Equal(t, "Manzana", base.Fruits[0])
		assert.Contains(t, base.Carbs.All, "Pasta integral")
		assert.Contains(t, base.Fruits, "Limón")
	})

	t.Run("Locations", func(t *testing.T) {
		assert.Equal(t, []string{"concepcion", "la-serena", "puerto-montt", "santiago", "valparaiso"}, store.Locations())
	})
}

func TestFilter(t *testing.T) {
	base := FoodCatalog{
		Carbs: SplitList{
			All:       []string{"Arroz integral", "Pasta integral", "Cuscús", "Pan de molde", "Quinoa", "Mote de trigo"},
			Breakfast: []string{"Avena", "Pan integral", "Tortilla de avena"},
		},
		Proteins: SplitList{
			All:       []string{"Pechuga de pollo", "Atún al agua", "Huevo duro", "Tofu", "Quesillo", "Garbanzos"},
			Breakfast: []string{"Huevo revuelto", "Yogurt natural", "Quesillo", "Mantequilla de maní"},
		},
		Vegetables: []string{"Lechuga", "Tomate"},
		Fruits:     []string{"Manzana", "Limón", "Naranja"},
		Snacks:     []string{"Nueces", "Yogurt con avena", "Maní tostado"},
	}
	pristine := base.Clone()

	t.Run("CeliacRemovesGluten", func(t *testing.T) {
		c := Filter(base, Filters{Conditions: []Condition{Celiac}})
		for _, ref := range []ListRef{CarbsAll, CarbsBreakfast} {
			for _, item := range *c.List(ref) {
				assert.False(t, glutenPattern.MatchString(item), "%s still contains %q", ref, item)
			}
		}
		assert.Equal(t, []string{"Arroz integral", "Quinoa"}, c.Carbs.All)
		assert.Equal(t, []string{"Avena", "Tortilla de avena"}, c.Carbs.Breakfast)
	})

	t.Run("DiabetesRemovesHighGlycemic", func(t *testing.T) {
		c := Filter(base, Filters{Conditions: []Condition{Diabetes}})
		assert.NotContains(t, c.Carbs.All, "Cuscús")
		assert.NotContains(t, c.Carbs.Breakfast, "Tortilla de avena")
		assert.Contains(t, c.Carbs.Breakfast, "Avena")
	})

	t.Run("LactoseRemovesDairy", func(t *testing.T) {
		c := Filter(base, Filters{Conditions: []Condition{Lactose}})
		assert.Equal(t, []string{"Huevo revuelto", "Mantequilla de maní"}, c.Proteins.Breakfast)
		assert.Equal(t, []string{"Nueces", "Maní tostado"}, c.Snacks)
		// general proteins are untouched by the lactose rule
		assert.Contains(t, c.Proteins.All, "Quesillo")
	})

	t.Run("VegetarianRemovesFlesh", func(t *testing.T) {
		c := Filter(base, Filters{Diet: Vegetarian})
		assert.Equal(t, []string{"Huevo duro", "Tofu", "Quesillo", "Garbanzos"}, c.Proteins.All)
		assert.Equal(t, base.Proteins.Breakfast, c.Proteins.Breakfast)
	})

	t.Run("VeganRemovesAnimalProducts", func(t *testing.T) {
		c := Filter(base, Filters{Diet: Vegan})
		for _, ref := range []ListRef{ProteinsAll, ProteinsBreakfast} {
			for _, item := range *c.List(ref) {
				assert.False(t, animalPattern.MatchString(item), "%s still contains %q", ref, item)
			}
		}
		assert.Equal(t, []string{"Tofu", "Garbanzos"}, c.Proteins.All)
		assert.Equal(t, []string{"Mantequilla de maní"}, c.Proteins.Breakfast)
	})

	t.Run("AllergiesCaseInsensitiveEverywhere", func(t *testing.T) {
		c := Filter(base, Filters{Allergies: []string{"MANÍ", " ", "avena"}})
		assert.Equal(t, []string{"Nueces"}, c.Snacks)
		assert.Equal(t, []string{"Pan integral"}, c.Carbs.Breakfast)
		assert.Equal(t, []string{"Huevo revuelto", "Yogurt natural", "Quesillo"}, c.Proteins.Breakfast)
		assert.Len(t, c.Vegetables, 2)
	})

	t.Run("AllergyAppliesToReducedLists", func(t *testing.T) {
		c := Filter(base, Filters{Diet: Vegan, Allergies: []string{"tofu", "garbanzo"}})
		assert.Empty(t, c.Proteins.All)
		assert.NotNil(t, c.Proteins.All)
	})

	t.Run("CitrusOnlyWhenFlagged", func(t *testing.T) {
		assert.Contains(t, Filter(base, Filters{}).Fruits, "Limón")
		assert.Equal(t, []string{"Manzana", "Naranja"}, Filter(base, Filters{ExcludeCitrus: true}).Fruits)
	})

	t.Run("ConditionAndDietOrderIndependent", func(t *testing.T) {
		f := Filters{Diet: Vegan, Conditions: []Condition{Celiac, Lactose, Diabetes}}
		combined := Filter(base, f)
		dietFirst := Filter(Filter(base, Filters{Diet: Vegan}), Filters{Conditions: f.Conditions})
		assert.Equal(t, combined, dietFirst)
	})

	t.Run("BaseNeverMutated", func(t *testing.T) {
		Filter(base, Filters{Diet: Vegan, Conditions: []Condition{Celiac, Lactose, Diabetes}, Allergies: []string{"a"}, ExcludeCitrus: true})
		assert.Equal(t, pristine, base)
	})
}

func TestListRefString(t *testing.T) {
	names := make([]string, 0, len(AllLists))
	for _, ref := range AllLists {
		names = append(names, ref.String())
	}
	assert.Equal(t, "carbs.all,carbs.breakfast,proteins.all,proteins.breakfast,vegetables,fruits,snacks", strings.Join(names, ","))
}
