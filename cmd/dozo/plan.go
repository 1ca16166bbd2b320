package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/app"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/catalog"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/planner"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/render"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a meal plan and print it",
	Long:  "Generates a plan from the configured catalog without starting the server. Prints the JSON response body, or an HTML page with --html.",
	RunE:  runPlan,
}

var (
	planDays       int
	planLocation   string
	planMeals      string
	planDiet       string
	planConditions string
	planAllergies  string
	planCalories   int
	planName       string
	planSeed       uint64
	planHTML       bool
	planShopping   bool
	planOut        string
)

func init() {
	planCmd.Flags().IntVarP(&planDays, "days", "d", 7, "Number of days (1-30)")
	planCmd.Flags().StringVarP(&planLocation, "location", "l", "", "Location key, e.g. santiago (required)")
	planCmd.Flags().StringVarP(&planMeals, "meals", "m", "breakfast,lunch,dinner", "Comma-separated meal slots")
	planCmd.Flags().StringVar(&planDiet, "diet", "omnivore", "Diet type: omnivore, vegetarian or vegan")
	planCmd.Flags().StringVar(&planConditions, "conditions", "", "Comma-separated medical conditions: diabetes, celiac, lactose")
	planCmd.Flags().StringVar(&planAllergies, "allergies", "", "Comma-separated allergy substrings to exclude")
	planCmd.Flags().IntVar(&planCalories, "calories", 0, "Daily calorie target")
	planCmd.Flags().StringVar(&planName, "name", "", "Name shown on the HTML page")
	planCmd.Flags().Uint64Var(&planSeed, "seed", 0, "Random seed for a reproducible plan")
	planCmd.Flags().BoolVar(&planHTML, "html", false, "Render the plan as HTML")
	planCmd.Flags().BoolVar(&planShopping, "shopping", false, "Include the consolidated shopping list")
	planCmd.Flags().StringVarP(&planOut, "out", "o", "", "Output file (defaults to stdout)")

	if err := planCmd.MarkFlagRequired("location"); err != nil {
		panic(fmt.Sprintf("failed to mark location flag as required: %v", err))
	}

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	if planDays == 0 {
		return fmt.Errorf("days must be between %d and %d", planner.MinDays, planner.MaxDays)
	}
	meals, err := shared.ParseMealSlots(splitList(planMeals))
	if err != nil {
		return err
	}

	catalogs, err := app.LoadCatalogs(cfg)
	if err != nil {
		return err
	}
	a := app.NewApp(catalogs, nil, nil, logger)

	in := app.PlanInput{
		Request: planner.Request{
			Days:      planner.ClampDays(planDays),
			Meals:     meals,
			Location:  planLocation,
			DietType:  catalog.DietType(planDiet),
			Allergies: splitList(planAllergies),
		},
		Calories: planCalories,
		Shopping: planShopping,
	}
	for _, c := range splitList(planConditions) {
		in.Conditions = append(in.Conditions, catalog.Condition(c))
	}
	if cmd.Flags().Changed("seed") {
		in.Seed = &planSeed
	}

	out, err := a.Generate(cmd.Context(), in)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if planOut != "" {
		f, err := os.Create(planOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if planHTML {
		return render.HTML(w, render.View{
			Name:     planName,
			Location: planLocation,
			Meals:    meals,
			Result:   out.Result,
			Summary:  out.Calories,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
