// Package coach implements the behavioral analysis pipeline: it evaluates
// the pattern catalog against a user's activity records, synthesizes
// coaching recommendations, and aggregates an overall behavior score.
package coach

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/blackwell-systems/coachwatch/internal/activity"
	"github.com/blackwell-systems/coachwatch/internal/analyzer"
	"github.com/blackwell-systems/coachwatch/internal/catalog"
)

// Engine runs the analysis pipeline. One engine is safe for concurrent use
// across users: the catalog is read-only after load and every run is
// independent, with no state carried between invocations.
type Engine struct {
	catalog      *catalog.Catalog
	logger       *zap.Logger
	sink         EventSink
	interactions InteractionStore
	nowFn        func() time.Time
}

// NewEngine builds an engine over an already-validated catalog. The logger
// is required because rule evaluation failures are reported nowhere else.
func NewEngine(cat *catalog.Catalog, logger *zap.Logger) (*Engine, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Engine{catalog: cat, logger: logger, nowFn: time.Now}, nil
}

// SetEventSink wires an optional analytics sink. Leaving it nil disables
// event emission entirely.
func (e *Engine) SetEventSink(sink EventSink) {
	e.sink = sink
}

// SetInteractionStore wires the optional collaborator that persists
// recommendation interactions.
func (e *Engine) SetInteractionStore(store InteractionStore) {
	e.interactions = store
}

// BehaviorAnalysis is the complete result of one analysis run.
type BehaviorAnalysis struct {
	UserID          string                   `json:"user_id"`
	TimeframeDays   int                      `json:"timeframe_days"`
	AnalyzedAt      time.Time                `json:"analyzed_at"`
	Metrics         analyzer.BehaviorMetrics `json:"metrics"`
	Detections      []Detection              `json:"detections"`
	Recommendations []Recommendation         `json:"recommendations"`
	OverallScore    int                      `json:"overall_score"`
}

// Analyze runs the full pipeline over records the caller has already
// fetched and scoped to timeframeDays. The run is synchronous and pure
// apart from logging: record retrieval happens before, persistence after,
// both owned by the caller.
func (e *Engine) Analyze(userID string, timeframeDays int, records []activity.Record) (*BehaviorAnalysis, error) {
	if timeframeDays <= 0 {
		return nil, fmt.Errorf("%w: timeframe days must be positive, got %d", ErrInvalidInput, timeframeDays)
	}
	for _, r := range records {
		if len(r.ParticipantIDs) == 0 {
			return nil, fmt.Errorf("%w: record %s has no participants", ErrInvalidInput, r.ID)
		}
	}

	now := e.nowFn()
	metrics := analyzer.ComputeMetrics(records)
	detections := e.detect(records, metrics, now)
	recommendations := e.synthesize(userID, detections, metrics)
	score := AggregateScore(metrics, detections)

	e.emit("analysis_completed", map[string]any{
		"user_id":         userID,
		"timeframe_days":  timeframeDays,
		"overall_score":   score,
		"detections":      len(detections),
		"recommendations": len(recommendations),
	})

	return &BehaviorAnalysis{
		UserID:          userID,
		TimeframeDays:   timeframeDays,
		AnalyzedAt:      now,
		Metrics:         metrics,
		Detections:      detections,
		Recommendations: recommendations,
		OverallScore:    score,
	}, nil
}
