// Package digest assembles weekly coaching digests from completed
// behavior analyses. The compiler only reshapes analysis output for
// delivery; it never re-runs detection or scoring.
package digest

import (
	"errors"
	"math"
	"time"

	"github.com/blackwell-systems/coachwatch/internal/catalog"
	"github.com/blackwell-systems/coachwatch/internal/coach"
)

// CoachingDigest is the weekly rollup handed to a delivery collaborator:
// what went well, what needs work, and where to aim next week.
type CoachingDigest struct {
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`

	// Achievements lists the metric thresholds the user cleared this week.
	Achievements []string `json:"achievements"`

	// ImprovementAreas names the patterns behind negative-impact detections.
	ImprovementAreas []string `json:"improvement_areas"`

	// KeyMetrics maps a fixed set of headline labels to their values.
	KeyMetrics map[string]float64 `json:"key_metrics"`

	// Recommendations holds the weekly-tier and high-or-urgent subset of
	// the analysis recommendations.
	Recommendations []coach.Recommendation `json:"recommendations"`

	// NextWeekFocus holds at most three focus phrases for the coming week.
	NextWeekFocus []string `json:"next_week_focus"`
}

// focusLimit caps how many focus phrases a digest carries.
const focusLimit = 3

// fillerFocus pads the focus list when the week scored poorly but few
// patterns fired.
const fillerFocus = "Focus on meeting effectiveness"

// Compiler builds digests against a fixed pattern catalog. Improvement
// areas and focus phrases are looked up from the same catalog that
// produced the detections.
type Compiler struct {
	catalog *catalog.Catalog
}

// NewCompiler returns a digest compiler bound to the given catalog.
func NewCompiler(cat *catalog.Catalog) (*Compiler, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	return &Compiler{catalog: cat}, nil
}

// Compile assembles the digest for one analysis and one calendar week.
// The output is fully determined by its inputs; compiling the same
// analysis twice yields identical digests.
func (c *Compiler) Compile(analysis *coach.BehaviorAnalysis, weekStart, weekEnd time.Time) CoachingDigest {
	return CoachingDigest{
		WeekStart:        weekStart,
		WeekEnd:          weekEnd,
		Achievements:     achievements(analysis),
		ImprovementAreas: c.improvementAreas(analysis.Detections),
		KeyMetrics:       keyMetrics(analysis),
		Recommendations:  filterRecommendations(analysis.Recommendations),
		NextWeekFocus:    c.nextWeekFocus(analysis),
	}
}

// achievements derives celebration lines from metric thresholds. The
// thresholds mirror the score bonuses so a bonus week always reads as an
// achievement week.
func achievements(a *coach.BehaviorAnalysis) []string {
	var out []string
	if a.Metrics.ActionItemsPerRecord > 2 {
		out = append(out, "Strong action item generation")
	}
	if a.Metrics.CollaborationScore > 0.7 {
		out = append(out, "Excellent team collaboration")
	}
	if a.OverallScore > 80 {
		out = append(out, "High overall productivity score")
	}
	return out
}

// improvementAreas names the pattern behind every negative-impact
// detection, in detection order.
func (c *Compiler) improvementAreas(detections []coach.Detection) []string {
	var out []string
	for _, d := range detections {
		if d.Impact != coach.ImpactNegative {
			continue
		}
		p, ok := c.catalog.Get(d.PatternID)
		if !ok {
			continue
		}
		out = append(out, p.Name)
	}
	return out
}

// keyMetrics builds the fixed headline map. Collaboration is reported as
// a whole percentage, per-meeting averages to two decimal places.
func keyMetrics(a *coach.BehaviorAnalysis) map[string]float64 {
	return map[string]float64{
		"Meetings analyzed":        float64(a.Metrics.TotalRecords),
		"Action items per meeting": math.Round(a.Metrics.ActionItemsPerRecord*100) / 100,
		"Collaboration score (%)":  math.Round(a.Metrics.CollaborationScore * 100),
		"Overall score":            float64(a.OverallScore),
	}
}

// filterRecommendations keeps entries relevant to a weekly digest: the
// weekly tier plus anything high or urgent regardless of tier.
func filterRecommendations(recommendations []coach.Recommendation) []coach.Recommendation {
	var out []coach.Recommendation
	for _, r := range recommendations {
		if r.Type == coach.TypeWeekly || r.Priority == coach.PriorityHigh || r.Priority == coach.PriorityUrgent {
			out = append(out, r)
		}
	}
	return out
}

// nextWeekFocus maps each detection to its pattern's focus phrase, in
// detection order, deduplicated and capped. A poorly scoring week with
// few firing patterns gets a generic filler so the digest never closes
// without direction.
func (c *Compiler) nextWeekFocus(a *coach.BehaviorAnalysis) []string {
	var focus []string
	seen := make(map[string]bool)

	for _, d := range a.Detections {
		if len(focus) == focusLimit {
			break
		}
		p, ok := c.catalog.Get(d.PatternID)
		if !ok || p.Focus == "" || seen[p.Focus] {
			continue
		}
		seen[p.Focus] = true
		focus = append(focus, p.Focus)
	}

	if a.OverallScore < 70 && len(focus) < focusLimit {
		focus = append(focus, fillerFocus)
	}

	return focus
}
