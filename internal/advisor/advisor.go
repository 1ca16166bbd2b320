// Package advisor asks a language model for practical tips about a generated
// plan. Tips are optional; the plan never depends on them.
package advisor

import (
	"bytes"
	"cmp"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/llm"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/planner"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
)

const (
	AgentName = "Advisor"
	MaxTips   = 5
	maxFoods  = 12
)

//go:embed advisor_prompt.md
var advisorPrompt string

var promptTmpl = template.Must(template.New("advisor").
	Funcs(template.FuncMap{"join": join}).
	Parse(advisorPrompt))

type FoodCount struct {
	Name  string
	Count int
}

type promptData struct {
	City          string
	Days          int
	Meals         []shared.MealSlot
	DietType      string
	Conditions    []string
	Allergies     []string
	DailyCalories int
	Foods         []FoodCount
	MaxTips       int
}

// Result holds the tips and the LLM call metadata.
type Result struct {
	Tips []string
	Meta shared.AgentMeta
}

// Advisor generates plan tips with a TextGenerator.
type Advisor struct {
	textGen llm.TextGenerator
}

func New(textGen llm.TextGenerator) *Advisor {
	return &Advisor{textGen: textGen}
}

// Tips builds the prompt from the request and the generated plan and parses
// the model's JSON answer. dailyCalories may be zero.
func (a *Advisor) Tips(ctx context.Context, req planner.Request, res *planner.Result, dailyCalories int) (Result, error) {
	start := time.Now()
	prompt, err := buildPrompt(req, res, dailyCalories)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build advisor prompt: %w", err)
	}

	resp, err := a.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return Result{}, err
	}
	meta := shared.AgentMeta{
		AgentName: AgentName,
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}

	var raw struct {
		Tips []string `json:"tips"`
	}
	if err := json.Unmarshal([]byte(extractJSON(resp.Content)), &raw); err != nil {
		return Result{Meta: meta}, fmt.Errorf("failed to parse advisor response: %w. Response: %s", err, resp.Content)
	}

	tips := make([]string, 0, len(raw.Tips))
	for _, t := range raw.Tips {
		if t = strings.TrimSpace(t); t != "" {
			tips = append(tips, t)
		}
		if len(tips) == MaxTips {
			break
		}
	}
	return Result{Tips: tips, Meta: meta}, nil
}

func buildPrompt(req planner.Request, res *planner.Result, dailyCalories int) (string, error) {
	diet := string(req.Filters().Diet)
	conditions := make([]string, 0, len(req.Conditions))
	for _, c := range req.Conditions {
		conditions = append(conditions, string(c))
	}

	var buf bytes.Buffer
	err := promptTmpl.Execute(&buf, promptData{
		City:          req.Location,
		Days:          len(res.Plans),
		Meals:         req.Meals,
		DietType:      diet,
		Conditions:    conditions,
		Allergies:     req.Allergies,
		DailyCalories: dailyCalories,
		Foods:         TopFoods(res, maxFoods),
		MaxTips:       MaxTips,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TopFoods counts every item used in the plan and returns the n most frequent,
// ties broken by name.
func TopFoods(res *planner.Result, n int) []FoodCount {
	counts := map[string]int{}
	for _, day := range res.Plans {
		for _, sel := range day {
			for _, item := range []string{sel.Carb, sel.Protein, sel.Veg, sel.Fruit, sel.Snack} {
				if item != "" {
					counts[item]++
				}
			}
		}
	}

	foods := make([]FoodCount, 0, len(counts))
	for name, c := range counts {
		foods = append(foods, FoodCount{Name: name, Count: c})
	}
	slices.SortFunc(foods, func(a, b FoodCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(foods) > n {
		foods = foods[:n]
	}
	return foods
}

// extractJSON strips markdown code fences some models wrap JSON in.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if start, end := strings.Index(s, "{"), strings.LastIndex(s, "}"); start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func join(items any, sep string) string {
	switch v := items.(type) {
	case []string:
		return strings.Join(v, sep)
	case []shared.MealSlot:
		parts := make([]string, len(v))
		for i, s := range v {
			parts[i] = s.String()
		}
		return strings.Join(parts, sep)
	}
	return fmt.Sprint(items)
}
