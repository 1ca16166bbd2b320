// Package planner generates multi-day meal plans from a filtered food catalog
// under anti-repetition constraints.
package planner

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/catalog"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
)

const (
	// MaxAttempts bounds the random draws per slot before the fallback is used.
	MaxAttempts = 200
	// FallbackSnack is used when the snack pool is empty.
	FallbackSnack = "fresh fruit"
)

// Source is the random source used for draws. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a randomly seeded source.
func NewSource() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededSource returns a reproducible source.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Planner handles the generation of meal plans. A Planner holds no per-run
// state and may be shared by concurrent requests.
type Planner struct {
	catalogs *catalog.Store
	logger   *zap.Logger
}

// NewPlanner creates a new Planner backed by the read-only catalog store.
func NewPlanner(catalogs *catalog.Store, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{catalogs: catalogs, logger: logger}
}

// GeneratePlan builds the working catalog once and fills every requested
// slot of every day. It fails only when the location is unknown; empty pools
// and exhausted retries degrade to nulls and fallback items. A nil src uses a
// fresh random source.
func (p *Planner) GeneratePlan(req Request, src Source) (*Result, error) {
	cat, err := p.catalogs.Build(req.Location, req.Filters())
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	if src == nil {
		src = NewSource()
	}

	tracker := NewTracker()
	result := &Result{
		Plans:       make([]DayPlan, 0, max(0, req.Days)),
		CatalogUsed: cat,
		Stats:       Stats{Fallbacks: []Position{}},
	}

	for d := 0; d < req.Days; d++ {
		day := make(DayPlan, len(req.Meals))
		for _, slot := range req.Meals {
			sel, tries, ok := Sample(
				MaxAttempts,
				func() Selection { return draw(cat, slot, src) },
				func(s Selection) bool { return tracker.Acceptable(slot, s) },
				func() Selection { return firstChoice(cat, slot) },
			)
			result.Stats.Attempts += tries
			if ok {
				tracker.Record(sel)
			} else {
				result.Stats.Fallbacks = append(result.Stats.Fallbacks, Position{Day: d, Slot: slot})
				p.logger.Warn("no non-repeating selection found, using fallback",
					zap.Int("day", d),
					zap.String("slot", slot.String()),
					zap.String("signature", sel.Signature()),
				)
			}
			day[slot] = sel
		}
		tracker.Commit(day)
		result.Plans = append(result.Plans, day)
	}

	return result, nil
}

func draw(cat *catalog.FoodCatalog, slot shared.MealSlot, src Source) Selection {
	if slot.IsSnack() {
		snack := pick(cat.Snacks, src)
		if snack == "" {
			snack = FallbackSnack
		}
		return Selection{Slot: slot, Snack: snack}
	}
	carbs, proteins := pools(cat, slot)
	sel := Selection{
		Slot:    slot,
		Carb:    pick(carbs, src),
		Protein: pick(proteins, src),
	}
	if slot != shared.Breakfast {
		sel.Veg = pick(cat.Vegetables, src)
	}
	sel.Fruit = pick(cat.Fruits, src)
	return sel
}

// firstChoice is the deterministic fallback: the first item of every pool.
func firstChoice(cat *catalog.FoodCatalog, slot shared.MealSlot) Selection {
	if slot.IsSnack() {
		snack := first(cat.Snacks)
		if snack == "" {
			snack = FallbackSnack
		}
		return Selection{Slot: slot, Snack: snack}
	}
	carbs, proteins := pools(cat, slot)
	sel := Selection{
		Slot:    slot,
		Carb:    first(carbs),
		Protein: first(proteins),
		Fruit:   first(cat.Fruits),
	}
	if slot != shared.Breakfast {
		sel.Veg = first(cat.Vegetables)
	}
	return sel
}

func pools(cat *catalog.FoodCatalog, slot shared.MealSlot) (carbs, proteins []string) {
	if slot == shared.Breakfast {
		return cat.Carbs.Breakfast, cat.Proteins.Breakfast
	}
	return cat.Carbs.All, cat.Proteins.All
}

func pick(pool []string, src Source) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[src.IntN(len(pool))]
}

func first(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[0]
}
