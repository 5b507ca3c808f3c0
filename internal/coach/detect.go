package coach

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/blackwell-systems/coachwatch/internal/activity"
	"github.com/blackwell-systems/coachwatch/internal/analyzer"
	"github.com/blackwell-systems/coachwatch/internal/catalog"
)

// Impact describes the direction a detection pushes on behavior.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// Detection records that a pattern matched the current data. Severity is
// copied from the pattern so downstream scoring stays a pure function of
// its arguments.
type Detection struct {
	PatternID  string           `json:"pattern_id"`
	Severity   catalog.Severity `json:"severity"`
	Confidence float64          `json:"confidence"`
	Evidence   []string         `json:"evidence"`
	Impact     Impact           `json:"impact"`
	DetectedAt time.Time        `json:"detected_at"`
}

// detect evaluates every active catalog entry in catalog order. A rule
// that errors or panics is logged and treated as not fired; the remaining
// patterns still run.
func (e *Engine) detect(records []activity.Record, metrics analyzer.BehaviorMetrics, now time.Time) []Detection {
	in := catalog.Input{Records: records, Metrics: metrics, Now: now}

	var detections []Detection
	for _, p := range e.catalog.Active() {
		fired, err := evaluateRule(p, in)
		if err != nil {
			e.logger.Warn("pattern rule evaluation failed",
				zap.String("pattern_id", p.ID),
				zap.Error(err))
			continue
		}
		if !fired {
			continue
		}

		evidence := p.Evidence(in)
		if len(evidence) > 3 {
			evidence = evidence[:3]
		}
		if len(evidence) == 0 {
			evidence = []string{fmt.Sprintf("%d meetings analyzed", metrics.TotalRecords)}
		}

		e.logger.Debug("pattern detected",
			zap.String("pattern_id", p.ID),
			zap.Float64("confidence", p.Confidence))

		detections = append(detections, Detection{
			PatternID:  p.ID,
			Severity:   p.Severity,
			Confidence: p.Confidence,
			Evidence:   evidence,
			Impact:     impactForSeverity(p.Severity),
			DetectedAt: now,
		})
	}

	return detections
}

// evaluateRule runs one rule with panic isolation, so a broken catalog
// entry degrades to a logged warning instead of aborting the run.
func evaluateRule(p catalog.Pattern, in catalog.Input) (fired bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			fired = false
			err = fmt.Errorf("rule panicked: %v", r)
		}
	}()
	return p.Rule(in)
}

// impactForSeverity derives a detection's impact: high and critical
// patterns count against the user, everything else is informational.
func impactForSeverity(s catalog.Severity) Impact {
	switch s {
	case catalog.SeverityHigh, catalog.SeverityCritical:
		return ImpactNegative
	default:
		return ImpactNeutral
	}
}
