// Package metrics persists generation runs and LLM usage to SQLite and
// aggregates them for the admin views.
package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/metrics/metrics_db"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
)

// Run describes one plan generation.
type Run struct {
	ID        string
	Location  string
	DietType  string
	Days      int
	Slots     int
	Fallbacks int
	Attempts  int
	Latency   time.Duration
	CreatedAt time.Time
}

// ExecutionMetric records metadata for a single agent execution.
type ExecutionMetric struct {
	AgentName        string
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Timestamp        time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	queries *metricsdb.Queries
	now     func() time.Time
}

// NewStore initializes the Store with an existing database connection. The
// caller owns db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		queries: metricsdb.New(db),
		now:     time.Now,
	}
}

// RecordRun saves a generation run and returns its ID, generating one when
// run.ID is empty.
func (s *Store) RecordRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	ts := run.CreatedAt
	if ts.IsZero() {
		ts = s.now()
	}

	err := s.queries.InsertGenerationRun(ctx, metricsdb.InsertGenerationRunParams{
		ID:        run.ID,
		Location:  run.Location,
		DietType:  run.DietType,
		Days:      int64(run.Days),
		Slots:     int64(run.Slots),
		Fallbacks: int64(run.Fallbacks),
		Attempts:  int64(run.Attempts),
		LatencyMs: run.Latency.Milliseconds(),
		CreatedAt: ts.Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert generation run: %w", err)
	}
	return run.ID, nil
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m ExecutionMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	err := s.queries.InsertExecutionMetric(ctx, metricsdb.InsertExecutionMetricParams{
		AgentName:        m.AgentName,
		Model:            m.Model,
		PromptTokens:     int64(m.PromptTokens),
		CompletionTokens: int64(m.CompletionTokens),
		LatencyMs:        m.LatencyMS,
		CreatedAt:        ts.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert execution metric: %w", err)
	}
	return nil
}

// RecordMeta records metrics directly from shared.AgentMeta. Calls that
// report no token usage are skipped.
func (s *Store) RecordMeta(ctx context.Context, meta shared.AgentMeta) error {
	if meta.Usage.Empty() {
		return nil
	}
	return s.Record(ctx, MapUsage(meta.AgentName, meta.Usage, meta.Latency))
}

// DailyRuns represents generation totals for a single day.
type DailyRuns struct {
	Date         string  `json:"date"`
	Runs         int     `json:"runs"`
	Fallbacks    int     `json:"fallbacks"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}

// GetDailyRuns retrieves generation totals for the last N days, newest first.
func (s *Store) GetDailyRuns(ctx context.Context, days int) ([]DailyRuns, error) {
	rows, err := s.queries.GetDailyRuns(ctx, s.since(days))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily runs: %w", err)
	}

	results := make([]DailyRuns, 0, len(rows))
	for _, r := range rows {
		results = append(results, DailyRuns{
			Date:         r.Day,
			Runs:         int(r.Runs),
			Fallbacks:    int(r.Fallbacks),
			AvgLatencyMS: r.AvgLatencyMs,
		})
	}
	return results, nil
}

// LocationCount is the number of runs for one location.
type LocationCount struct {
	Location string `json:"location"`
	Runs     int    `json:"runs"`
}

// GetTopLocations returns the most requested locations of the last N days.
func (s *Store) GetTopLocations(ctx context.Context, days, limit int) ([]LocationCount, error) {
	rows, err := s.queries.GetTopLocations(ctx, metricsdb.GetTopLocationsParams{
		CreatedAt: s.since(days),
		Limit:     int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query top locations: %w", err)
	}

	results := make([]LocationCount, 0, len(rows))
	for _, r := range rows {
		results = append(results, LocationCount{Location: r.Location, Runs: int(r.Runs)})
	}
	return results, nil
}

// DailyUsage represents token totals for a single day.
type DailyUsage struct {
	Date            string `json:"date"`
	TotalPrompt     int    `json:"prompt_tokens"`
	TotalCompletion int    `json:"completion_tokens"`
	TotalExecution  int    `json:"executions"`
}

// GetDailyUsage retrieves usage for the last N days, newest first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	rows, err := s.queries.GetDailyUsage(ctx, s.since(days))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}

	results := make([]DailyUsage, 0, len(rows))
	for _, r := range rows {
		results = append(results, DailyUsage{
			Date:            r.Day,
			TotalPrompt:     int(r.PromptTokens),
			TotalCompletion: int(r.CompletionTokens),
			TotalExecution:  int(r.Executions),
		})
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days from both
// tables and returns how many rows were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := s.since(olderThanDays)

	runs, err := s.queries.CleanupGenerationRuns(ctx, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up generation runs: %w", err)
	}
	usage, err := s.queries.CleanupExecutionMetrics(ctx, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up execution metrics: %w", err)
	}

	var total int64
	for _, res := range []sql.Result{runs, usage} {
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("failed to count deleted rows: %w", err)
		}
		total += n
	}
	return total, nil
}

func (s *Store) since(days int) int64 {
	return s.now().AddDate(0, 0, -days).Unix()
}

// MapUsage converts shared.TokenUsage to an ExecutionMetric. The timestamp is
// left for the store to fill in.
func MapUsage(agentName string, usage shared.TokenUsage, latency time.Duration) ExecutionMetric {
	return ExecutionMetric{
		AgentName:        agentName,
		Model:            usage.Model,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		LatencyMS:        latency.Milliseconds(),
	}
}
