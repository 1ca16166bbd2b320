package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/nutrition"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/planner"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
)

func testView() View {
	meals := []shared.MealSlot{shared.Breakfast, shared.Lunch, shared.FirstSnack}
	sum := nutrition.Summarize(2000, meals)
	return View{
		Name:     "Ana",
		Location: "la-serena",
		Meals:    meals,
		Now:      time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
		Summary:  &sum,
		Result: &planner.Result{Plans: []planner.DayPlan{
			{
				shared.Breakfast:  {Slot: shared.Breakfast, Carb: "Avena", Protein: "Huevo", Fruit: "Kiwi"},
				shared.Lunch:      {Slot: shared.Lunch, Carb: "Arroz", Protein: "Pollo", Fruit: "Pera"},
				shared.FirstSnack: {Slot: shared.FirstSnack, Snack: "Nueces"},
			},
			{
				shared.Breakfast:  {Slot: shared.Breakfast, Carb: "Pan", Protein: "Quesillo", Fruit: "Manzana"},
				shared.Lunch:      {Slot: shared.Lunch, Carb: "Quinoa", Protein: "<b>Tofu</b>", Veg: "Tomate", Fruit: "Kiwi"},
				shared.FirstSnack: {Slot: shared.FirstSnack, Snack: "Almendras"},
			},
		}},
		Tips: []string{"Cocina el arroz el domingo."},
	}
}

func renderDoc(t *testing.T, v View) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, v))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestHTML(t *testing.T) {
	v := testView()
	doc := renderDoc(t, v)

	summary := doc.Find("p.summary").Text()
	assert.Contains(t, summary, "Invierno")
	assert.Contains(t, summary, "La Serena")
	assert.Contains(t, summary, "2000 kcal")
	assert.Equal(t, "Plan de Dieta para Ana", doc.Find("h2").Text())

	days := doc.Find("section.day-section")
	require.Equal(t, 2, days.Length())
	assert.True(t, days.Eq(0).HasClass("day-odd"))
	assert.True(t, days.Eq(1).HasClass("day-even"))

	first := days.Eq(0)
	breakfast := first.Find(`[data-slot="breakfast"]`)
	assert.Contains(t, breakfast.Find("h4").Text(), "Desayuno (~450 kcal)")
	assert.Equal(t, 3, breakfast.Find("tr").Length(), "no vegetable row at breakfast")
	assert.Equal(t, "Avena - 38g", breakfast.Find("tr").First().Find("td").Last().Text())

	lunch := first.Find(`[data-slot="lunch"]`)
	assert.Equal(t, 4, lunch.Find("tr").Length())
	assert.Contains(t, lunch.Find("tr").Eq(2).Text(), Missing)

	snack := first.Find(".snack-card")
	assert.Equal(t, "Nueces - 30g", snack.Find("td").Last().Text())

	// Flex card appears once per day.
	assert.Equal(t, 2, doc.Find(".flex-card").Length())
	assert.Contains(t, doc.Find(".flex-card h4").First().Text(), "kcal")

	// Item names are escaped.
	assert.Equal(t, 0, doc.Find("td b").Length())
	assert.Contains(t, days.Eq(1).Find(`[data-slot="lunch"]`).Text(), "<b>Tofu</b>")

	assert.Equal(t, "Cocina el arroz el domingo.", doc.Find(".tips li").Text())
}

func TestHTML_WithoutSummary(t *testing.T) {
	v := testView()
	v.Summary = nil
	v.Tips = nil
	doc := renderDoc(t, v)

	assert.NotContains(t, doc.Find("p.summary").Text(), "Calorías Diarias")
	assert.Equal(t, 0, doc.Find(".flex-card").Length())
	assert.Equal(t, 0, doc.Find(".tips").Length())
	assert.Equal(t, "Avena", doc.Find(`[data-slot="breakfast"] td`).Eq(1).Text())
}

func TestHTML_NoResult(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, HTML(&buf, View{}))
}

func TestSeason(t *testing.T) {
	tests := map[time.Month]string{
		time.January:   "Verano",
		time.April:     "Otoño",
		time.August:    "Invierno",
		time.October:   "Primavera",
		time.December:  "Verano",
		time.September: "Primavera",
	}
	for month, want := range tests {
		assert.Equal(t, want, Season(time.Date(2026, month, 15, 0, 0, 0, 0, time.UTC)), month.String())
	}
}

func TestCityLabel(t *testing.T) {
	assert.Equal(t, "Puerto Montt", CityLabel("puerto-montt"))
	assert.Equal(t, "Santiago", CityLabel("santiago"))
}
