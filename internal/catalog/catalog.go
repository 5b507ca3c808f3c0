// Package catalog defines the behavioral patterns the coaching engine can
// detect. Patterns are data, not code paths: each entry owns its detection
// rule, evidence builder, suggestion template, action steps, and focus
// phrase, so adding a pattern means adding one entry rather than branching
// logic in the detector.
package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/blackwell-systems/coachwatch/internal/activity"
	"github.com/blackwell-systems/coachwatch/internal/analyzer"
)

// ErrConfiguration indicates an invalid pattern definition or override file.
// Catalog loading fails eagerly on the first problem found, before any
// detection runs.
var ErrConfiguration = errors.New("catalog configuration")

// Category classifies which aspect of behavior a pattern speaks to.
type Category string

const (
	CategoryProductivity   Category = "productivity"
	CategoryEngagement     Category = "engagement"
	CategoryCollaboration  Category = "collaboration"
	CategoryDecisionMaking Category = "decision_making"
	CategoryFollowThrough  Category = "follow_through"
)

// Severity grades how strongly a detected pattern weighs on the overall
// behavior score.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Input bundles everything a detection rule may inspect. Records cover the
// caller's full analysis window; rules that care about a narrower window
// re-filter against Now themselves.
type Input struct {
	Records []activity.Record
	Metrics analyzer.BehaviorMetrics
	Now     time.Time
}

// RuleFunc decides whether a pattern fires. Rules must be pure boolean
// logic over the input: no I/O, no shared state, same verdict for the
// same input.
type RuleFunc func(in Input) (bool, error)

// EvidenceFunc builds one to three human-readable justification strings
// from the same values the rule examined.
type EvidenceFunc func(in Input) []string

// Pattern is one catalog entry: a detectable behavioral tendency together
// with everything needed to explain it and coach against it.
type Pattern struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      Category `json:"category"`
	Severity      Severity `json:"severity"`
	TimeframeDays int      `json:"timeframe_days"`
	Active        bool     `json:"active"`

	// Confidence is assigned to every detection of this pattern. The
	// builtin set uses a flat 0.8 baseline; a graduated how-far-past-
	// threshold model can replace it later without changing the schema.
	Confidence float64 `json:"confidence"`

	Rule     RuleFunc     `json:"-"`
	Evidence EvidenceFunc `json:"-"`

	// Suggestion template used by the recommendation synthesizer.
	Title          string   `json:"title"`
	Message        string   `json:"message"`
	ExpectedImpact string   `json:"expected_impact"`
	ActionSteps    []string `json:"action_steps"`

	// TrackingMetric names the BehaviorMetrics field a recommendation
	// derived from this pattern is meant to move.
	TrackingMetric string `json:"tracking_metric"`

	// Focus is the next-week focus phrase the digest uses for this pattern.
	Focus string `json:"focus"`
}

// Catalog is an ordered, immutable set of patterns. Iteration order is
// definition order, which keeps detection output deterministic.
type Catalog struct {
	patterns []Pattern
	byID     map[string]int
}

// New builds a catalog from the given patterns, validating every entry.
func New(patterns []Pattern) (*Catalog, error) {
	byID := make(map[string]int, len(patterns))
	for i, p := range patterns {
		if err := validatePattern(p); err != nil {
			return nil, err
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate pattern id %q", ErrConfiguration, p.ID)
		}
		byID[p.ID] = i
	}

	return &Catalog{patterns: patterns, byID: byID}, nil
}

// Get returns the pattern with the given id.
func (c *Catalog) Get(id string) (Pattern, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Pattern{}, false
	}
	return c.patterns[i], true
}

// Patterns returns every entry in catalog order.
func (c *Catalog) Patterns() []Pattern {
	out := make([]Pattern, len(c.patterns))
	copy(out, c.patterns)
	return out
}

// Active returns the active entries in catalog order.
func (c *Catalog) Active() []Pattern {
	var out []Pattern
	for _, p := range c.patterns {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of entries, active or not.
func (c *Catalog) Len() int {
	return len(c.patterns)
}

// trackableMetrics is the set of BehaviorMetrics field names a pattern's
// TrackingMetric may reference, keyed by their wire names.
var trackableMetrics = map[string]bool{
	"total_records":           true,
	"decisions_per_record":    true,
	"action_items_per_record": true,
	"follow_up_rate":          true,
	"collaboration_score":     true,
	"engagement_score":        true,
}

var validCategories = map[Category]bool{
	CategoryProductivity:   true,
	CategoryEngagement:     true,
	CategoryCollaboration:  true,
	CategoryDecisionMaking: true,
	CategoryFollowThrough:  true,
}

var validSeverities = map[Severity]bool{
	SeverityLow:      true,
	SeverityMedium:   true,
	SeverityHigh:     true,
	SeverityCritical: true,
}

func validatePattern(p Pattern) error {
	if p.ID == "" {
		return fmt.Errorf("%w: pattern has no id", ErrConfiguration)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: pattern %q has no name", ErrConfiguration, p.ID)
	}
	if !validCategories[p.Category] {
		return fmt.Errorf("%w: pattern %q has unknown category %q", ErrConfiguration, p.ID, p.Category)
	}
	if !validSeverities[p.Severity] {
		return fmt.Errorf("%w: pattern %q has unknown severity %q", ErrConfiguration, p.ID, p.Severity)
	}
	if p.TimeframeDays <= 0 {
		return fmt.Errorf("%w: pattern %q has non-positive timeframe %d", ErrConfiguration, p.ID, p.TimeframeDays)
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("%w: pattern %q has confidence %.2f outside [0,1]", ErrConfiguration, p.ID, p.Confidence)
	}
	if p.Rule == nil {
		return fmt.Errorf("%w: pattern %q has no detection rule", ErrConfiguration, p.ID)
	}
	if p.Evidence == nil {
		return fmt.Errorf("%w: pattern %q has no evidence builder", ErrConfiguration, p.ID)
	}
	if p.Title == "" || p.Message == "" {
		return fmt.Errorf("%w: pattern %q has an incomplete suggestion template", ErrConfiguration, p.ID)
	}
	if len(p.ActionSteps) < 2 || len(p.ActionSteps) > 4 {
		return fmt.Errorf("%w: pattern %q has %d action steps, want 2-4", ErrConfiguration, p.ID, len(p.ActionSteps))
	}
	for _, step := range p.ActionSteps {
		if step == "" {
			return fmt.Errorf("%w: pattern %q has an empty action step", ErrConfiguration, p.ID)
		}
	}
	if !trackableMetrics[p.TrackingMetric] {
		return fmt.Errorf("%w: pattern %q tracks unknown metric %q", ErrConfiguration, p.ID, p.TrackingMetric)
	}
	if p.Focus == "" {
		return fmt.Errorf("%w: pattern %q has no focus phrase", ErrConfiguration, p.ID)
	}
	return nil
}
