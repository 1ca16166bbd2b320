package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/app"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/catalog"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/planner"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
)

const (
	defaultDays  = 7
	defaultMeals = "breakfast,lunch,dinner"
)

const usageText = "🥗 *Dozo Diet Planner*\n\n" +
	"Usage:\n" +
	"`/plan city=santiago days=7 meals=breakfast,lunch,dinner diet=vegan conditions=celiac allergies=nuez kcal=2000`\n\n" +
	"Only `city` is required. Defaults: 7 days, breakfast/lunch/dinner, omnivore.\n" +
	"Meals: breakfast, lunch, dinner, firstSnack, secondSnack.\n" +
	"Diet: omnivore, vegetarian, vegan. Conditions: diabetes, celiac, lactose.\n" +
	"`/cities` lists the supported cities."

// ParsePlanCommand reads the key=value arguments of a /plan command. A word
// without "=" continues the previous value, so "city=la serena" works.
func ParsePlanCommand(args string) (app.PlanInput, error) {
	values := map[string]string{}
	var last string
	for _, tok := range strings.Fields(args) {
		key, value, ok := strings.Cut(tok, "=")
		if !ok {
			if last == "" {
				return app.PlanInput{}, fmt.Errorf("unexpected argument %q", tok)
			}
			values[last] += " " + tok
			continue
		}
		key = strings.ToLower(key)
		switch key {
		case "days", "city", "meals", "diet", "conditions", "allergies", "kcal":
		default:
			return app.PlanInput{}, fmt.Errorf("unknown option %q", key)
		}
		values[key] = value
		last = key
	}

	if strings.TrimSpace(values["city"]) == "" {
		return app.PlanInput{}, fmt.Errorf("city is required")
	}

	days := defaultDays
	if raw, ok := values["days"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n == 0 {
			return app.PlanInput{}, fmt.Errorf("days must be a number between %d and %d", planner.MinDays, planner.MaxDays)
		}
		days = planner.ClampDays(n)
	}

	mealsRaw := defaultMeals
	if raw, ok := values["meals"]; ok {
		mealsRaw = raw
	}
	meals, err := shared.ParseMealSlots(splitCSV(mealsRaw))
	if err != nil {
		return app.PlanInput{}, err
	}

	in := app.PlanInput{
		Request: planner.Request{
			Days:      days,
			Meals:     meals,
			Location:  strings.TrimSpace(values["city"]),
			DietType:  catalog.DietType(strings.ToLower(values["diet"])),
			Allergies: splitCSV(values["allergies"]),
		},
	}
	for _, c := range splitCSV(values["conditions"]) {
		in.Conditions = append(in.Conditions, catalog.Condition(strings.ToLower(c)))
	}
	if raw, ok := values["kcal"]; ok {
		kcal, err := strconv.Atoi(raw)
		if err != nil || kcal <= 0 {
			return app.PlanInput{}, fmt.Errorf("kcal must be a positive number")
		}
		in.Calories = kcal
	}
	return in, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
