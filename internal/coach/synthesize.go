package coach

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/blackwell-systems/coachwatch/internal/analyzer"
	"github.com/blackwell-systems/coachwatch/internal/catalog"
)

// RecommendationType tiers how soon a recommendation should be acted on.
type RecommendationType string

const (
	TypeImmediate RecommendationType = "immediate"
	TypeWeekly    RecommendationType = "weekly"
	TypeMonthly   RecommendationType = "monthly"
)

// Priority levels for recommendations.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Recommendation is one actionable coaching suggestion. SourcePattern is
// empty for general recommendations that are not tied to a detection.
type Recommendation struct {
	ID             string             `json:"id"`
	SourcePattern  string             `json:"source_pattern,omitempty"`
	Type           RecommendationType `json:"type"`
	Priority       Priority           `json:"priority"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	ExpectedImpact string             `json:"expected_impact"`
	ActionSteps    []string           `json:"action_steps"`
	TrackingMetric string             `json:"tracking_metric"`
}

// recommendationNamespace scopes the SHA1 UUIDs used for recommendation
// ids. Fixed so that the same user and source always yield the same id,
// which lets interaction records land on a stable key across runs.
var recommendationNamespace = uuid.MustParse("c0ac4347-9a5e-4fb4-8cbd-2f0ecf1c7f3e")

func recommendationID(userID, key string) string {
	return uuid.NewSHA1(recommendationNamespace, []byte(userID+"/"+key)).String()
}

// synthesize converts detections into recommendations using each pattern's
// suggestion template, then appends general metric-driven recommendations.
// The mapping is deterministic: one recommendation per detection, in
// detection order.
func (e *Engine) synthesize(userID string, detections []Detection, metrics analyzer.BehaviorMetrics) []Recommendation {
	var recommendations []Recommendation

	for _, d := range detections {
		p, ok := e.catalog.Get(d.PatternID)
		if !ok {
			// Detections are produced from this same catalog, so a miss
			// means the catalog changed mid-run. Skip rather than invent.
			continue
		}

		recommendations = append(recommendations, Recommendation{
			ID:             recommendationID(userID, d.PatternID),
			SourcePattern:  d.PatternID,
			Type:           typeForImpact(d.Impact),
			Priority:       priorityForSeverity(p.Severity),
			Title:          p.Title,
			Description:    p.Message,
			ExpectedImpact: p.ExpectedImpact,
			ActionSteps:    p.ActionSteps,
			TrackingMetric: p.TrackingMetric,
		})
	}

	// General recommendation with no source pattern: overall engagement is
	// low across a meaningful sample, regardless of what fired.
	if metrics.EngagementScore < 0.4 && metrics.TotalRecords >= 3 {
		recommendations = append(recommendations, Recommendation{
			ID:       recommendationID(userID, "general_engagement"),
			Type:     TypeMonthly,
			Priority: PriorityMedium,
			Title:    "Reinvigorate your meeting mix",
			Description: fmt.Sprintf(
				"Engagement across your last %d meetings sits at %.0f%% of the scale. "+
					"Short, repetitive sessions rarely hold attention; varying format and length tends to.",
				metrics.TotalRecords, metrics.EngagementScore*100,
			),
			ExpectedImpact: "Higher engagement in recurring sessions",
			ActionSteps: []string{
				"Swap one status meeting for a working session",
				"Ask one attendee per meeting to bring a discussion topic",
				"Review which recurring meetings could become async updates",
			},
			TrackingMetric: "engagement_score",
		})
	}

	return recommendations
}

// typeForImpact tiers a recommendation by its source detection's impact:
// negative findings demand immediate attention, the rest can wait for the
// weekly review.
func typeForImpact(impact Impact) RecommendationType {
	if impact == ImpactNegative {
		return TypeImmediate
	}
	return TypeWeekly
}

// priorityForSeverity derives recommendation priority from pattern severity.
func priorityForSeverity(s catalog.Severity) Priority {
	switch s {
	case catalog.SeverityCritical:
		return PriorityUrgent
	case catalog.SeverityHigh:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}
