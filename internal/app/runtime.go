package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/advisor"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/catalog"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/config"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/database"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/llm"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/metrics"
)

// Runtime is a fully wired App plus the resources that must be closed.
type Runtime struct {
	App     *App
	Metrics *metrics.Store
	DB      *database.DB

	closers []func() error
}

// LoadCatalogs reads the catalog file named by CATALOG_PATH, or the embedded
// catalog when it is unset.
func LoadCatalogs(cfg *config.Config) (*catalog.Store, error) {
	var (
		doc *catalog.Document
		err error
	)
	if cfg.CatalogPath != "" {
		doc, err = catalog.LoadFile(cfg.CatalogPath)
	} else {
		doc, err = catalog.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return catalog.NewStore(doc), nil
}

// NewRuntime wires catalogs, the metrics database and the optional advisor.
// A missing LLM key disables tips; any other setup failure is returned.
func NewRuntime(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Runtime, error) {
	catalogs, err := LoadCatalogs(cfg)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	rt := &Runtime{DB: db, Metrics: metrics.NewStore(db.SQL)}
	rt.closers = append(rt.closers, db.Close)

	var tips TipsAdvisor
	textGen, err := llm.NewFromConfig(ctx, cfg)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		logger.Info("no LLM provider configured, tips disabled")
	case err != nil:
		_ = rt.Close()
		return nil, err
	default:
		tips = advisor.New(textGen)
		if c, ok := textGen.(llm.Closer); ok {
			rt.closers = append(rt.closers, c.Close)
		}
	}

	rt.App = NewApp(catalogs, rt.Metrics, tips, logger)
	return rt, nil
}

// Close releases everything NewRuntime opened, last opened first.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	return errors.Join(errs...)
}
