package coach

import (
	"github.com/blackwell-systems/coachwatch/internal/analyzer"
	"github.com/blackwell-systems/coachwatch/internal/catalog"
)

// severityPenalty maps detection severity to the points it costs.
var severityPenalty = map[catalog.Severity]int{
	catalog.SeverityCritical: 25,
	catalog.SeverityHigh:     15,
	catalog.SeverityMedium:   10,
	catalog.SeverityLow:      5,
}

// AggregateScore combines metrics and detections into a single 0-100
// behavior score.
//
// Scoring breakdown:
//   - Start at 100
//   - Per detection: -25 critical, -15 high, -10 medium, -5 low
//   - Strong metrics: +5 each for actionItemsPerRecord > 2,
//     decisionsPerRecord > 1, collaborationScore > 0.7
//   - Clamp to [0, 100]
//
// The function is pure: the same inputs always produce the same score.
func AggregateScore(metrics analyzer.BehaviorMetrics, detections []Detection) int {
	score := 100

	for _, d := range detections {
		if d.Impact == ImpactPositive {
			continue
		}
		score -= severityPenalty[d.Severity]
	}

	if metrics.ActionItemsPerRecord > 2 {
		score += 5
	}
	if metrics.DecisionsPerRecord > 1 {
		score += 5
	}
	if metrics.CollaborationScore > 0.7 {
		score += 5
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return score
}
