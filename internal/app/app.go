// Package app wires plan generation to calorie summaries, metrics and the
// optional advisor. Transports (HTTP, Telegram, CLI) call into App.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/advisor"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/catalog"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/metrics"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/nutrition"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/planner"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shopping"
)

// ErrInvalidRequest wraps every input validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// RunRecorder persists generation runs and LLM usage.
type RunRecorder interface {
	RecordRun(ctx context.Context, run metrics.Run) (string, error)
	RecordMeta(ctx context.Context, meta shared.AgentMeta) error
}

// TipsAdvisor produces optional tips for a generated plan.
type TipsAdvisor interface {
	Tips(ctx context.Context, req planner.Request, res *planner.Result, dailyCalories int) (advisor.Result, error)
}

// PlanInput is a plan request plus the optional calorie inputs. When both
// Calories and Profile are set, Calories wins.
type PlanInput struct {
	planner.Request
	Calories int                `json:"calories,omitempty"`
	Profile  *nutrition.Profile `json:"profile,omitempty"`
	Tips     bool               `json:"-"`
	Shopping bool               `json:"-"`
	Seed     *uint64            `json:"-"`
}

// PlanOutput is the response boundary: plans and catalog_used, plus the
// calorie breakdown and tips when they were asked for.
type PlanOutput struct {
	*planner.Result
	RunID    string             `json:"run_id,omitempty"`
	Calories *nutrition.Summary `json:"calories,omitempty"`
	Tips     []string           `json:"tips,omitempty"`
	Shopping *shopping.List     `json:"shopping,omitempty"`
}

// App holds the application's dependencies.
type App struct {
	catalogs *catalog.Store
	planner  *planner.Planner
	recorder RunRecorder
	advisor  TipsAdvisor
	logger   *zap.Logger
}

// NewApp creates an App. recorder and tips may be nil.
func NewApp(catalogs *catalog.Store, recorder RunRecorder, tips TipsAdvisor, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		catalogs: catalogs,
		planner:  planner.NewPlanner(catalogs, logger.Named("planner")),
		recorder: recorder,
		advisor:  tips,
		logger:   logger,
	}
}

// Locations lists the catalog keys plans can be generated for.
func (a *App) Locations() []string {
	return a.catalogs.Locations()
}

// HasAdvisor reports whether tips can be produced.
func (a *App) HasAdvisor() bool {
	return a.advisor != nil
}

// Generate validates the input, generates the plan and decorates it with the
// calorie summary and tips. Metrics and advisor failures are logged and never
// fail the request.
func (a *App) Generate(ctx context.Context, in PlanInput) (*PlanOutput, error) {
	if err := in.Request.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	daily, err := in.DailyCalories()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	src := planner.NewSource()
	if in.Seed != nil {
		src = planner.NewSeededSource(*in.Seed)
	}

	start := time.Now()
	res, err := a.planner.GeneratePlan(in.Request, src)
	if err != nil {
		return nil, err
	}
	latency := time.Since(start)

	out := &PlanOutput{Result: res}
	if daily > 0 {
		sum := nutrition.Summarize(daily, in.Meals)
		out.Calories = &sum
	}
	if in.Shopping {
		list := shopping.Build(res, in.Meals, out.Calories)
		out.Shopping = &list
	}

	location := catalog.NormalizeLocation(in.Location)
	a.logger.Info("plan generated",
		zap.String("location", location),
		zap.Int("days", in.Days),
		zap.Int("slots", len(in.Meals)),
		zap.Int("attempts", res.Stats.Attempts),
		zap.Int("fallbacks", len(res.Stats.Fallbacks)),
		zap.Duration("latency", latency),
	)

	if a.recorder != nil {
		id, err := a.recorder.RecordRun(ctx, metrics.Run{
			Location:  location,
			DietType:  string(in.Filters().Diet),
			Days:      in.Days,
			Slots:     len(in.Meals),
			Fallbacks: len(res.Stats.Fallbacks),
			Attempts:  res.Stats.Attempts,
			Latency:   latency,
		})
		if err != nil {
			a.logger.Error("failed to record generation run", zap.Error(err))
		}
		out.RunID = id
	}

	if in.Tips && a.advisor != nil {
		tips, err := a.advisor.Tips(ctx, in.Request, res, daily)
		if err != nil {
			a.logger.Warn("advisor failed, returning plan without tips", zap.Error(err))
		} else {
			out.Tips = tips.Tips
		}
		if a.recorder != nil && tips.Meta.AgentName != "" {
			if err := a.recorder.RecordMeta(ctx, tips.Meta); err != nil {
				a.logger.Error("failed to record advisor usage", zap.Error(err))
			}
		}
	}

	return out, nil
}

// DailyCalories resolves the calorie target: an explicit Calories value, the
// profile's target, or zero when neither was given.
func (in PlanInput) DailyCalories() (int, error) {
	switch {
	case in.Calories < 0:
		return 0, fmt.Errorf("calories must not be negative")
	case in.Calories > 0:
		return in.Calories, nil
	case in.Profile != nil:
		return in.Profile.DailyCalories()
	}
	return 0, nil
}
