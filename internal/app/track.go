package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/coachwatch/internal/config"
	"github.com/blackwell-systems/coachwatch/internal/output"
	"github.com/blackwell-systems/coachwatch/internal/store"
)

var (
	trackCompare int
	trackHistory int
	trackJSON    bool
)

var trackCmd = &cobra.Command{
	Use:   "track [user]",
	Short: "Snapshot and compare scores over time",
	Long: `Run analysis, store a new snapshot, and compare against the most recent
previous snapshot for the same user: metric deltas with trend arrows plus
which patterns newly fired and which cleared since last time.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().IntVar(&trackCompare, "compare", 1, "Compare against Nth previous snapshot (1 = most recent)")
	trackCmd.Flags().IntVar(&trackHistory, "history", 0, "Show score trends across N most recent snapshots")
	trackCmd.Flags().BoolVar(&trackJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	applyColorPrefs()

	user := cfg.DefaultUser
	if len(args) > 0 {
		user = args[0]
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	engine, _, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Run a fresh analysis and store it as the newest snapshot.
	records, err := db.FetchRecords(user, cfg.TimeframeDays)
	if err != nil {
		return fmt.Errorf("fetching records: %w", err)
	}
	analysis, err := engine.Analyze(user, cfg.TimeframeDays, records)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", user, err)
	}
	snapshotID, err := db.SaveAnalysis(analysis, appVersion)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	// Handle --history mode: show trends across N snapshots.
	if trackHistory > 0 {
		if trackJSON || flagJSON {
			return outputHistoryJSON(db, user, trackHistory)
		}
		return renderHistory(db, user, trackHistory)
	}

	currentSnapshot, err := db.GetLatestSnapshot(user)
	if err != nil {
		return fmt.Errorf("loading current snapshot: %w", err)
	}

	// trackCompare=1 means the immediate predecessor (offset 2 from newest).
	prevSnapshot, err := db.GetSnapshotN(user, trackCompare+1)
	if err != nil {
		return fmt.Errorf("loading previous snapshot: %w", err)
	}

	var diff *store.SnapshotDiff
	var fired, cleared []string
	if prevSnapshot != nil {
		prevMetrics, err := db.GetAnalysisMetrics(prevSnapshot.ID)
		if err != nil {
			return fmt.Errorf("loading previous metrics: %w", err)
		}
		currMetrics, err := db.GetAnalysisMetrics(snapshotID)
		if err != nil {
			return fmt.Errorf("loading current metrics: %w", err)
		}

		diff = &store.SnapshotDiff{
			Previous: prevSnapshot,
			Current:  currentSnapshot,
			Deltas:   computeDeltas(prevMetrics, currMetrics),
		}

		prevPatterns, err := db.SnapshotPatterns(prevSnapshot.ID)
		if err != nil {
			return fmt.Errorf("loading previous patterns: %w", err)
		}
		currPatterns, err := db.SnapshotPatterns(snapshotID)
		if err != nil {
			return fmt.Errorf("loading current patterns: %w", err)
		}
		fired, cleared = patternChurn(prevPatterns, currPatterns)
	}

	if trackJSON || flagJSON {
		return outputTrackJSON(currentSnapshot, diff, fired, cleared)
	}

	renderTrackOutput(currentSnapshot, diff, fired, cleared)
	return nil
}

// metricDirection maps metric names to whether higher values are better.
var metricDirection = map[string]bool{
	"total_records":           false, // more meetings is not an improvement
	"decisions_per_record":    true,
	"action_items_per_record": true,
	"follow_up_rate":          true,
	"collaboration_score":     true,
	"engagement_score":        true,
	"overall_score":           true,
}

// percentMetrics are stored as 0-1 ratios but displayed as percentages.
var percentMetrics = map[string]bool{
	"follow_up_rate":      true,
	"collaboration_score": true,
	"engagement_score":    true,
}

// computeDeltas compares two sets of snapshot metrics and returns MetricDelta entries.
func computeDeltas(prev, curr []store.MetricRow) []store.MetricDelta {
	prevMap := make(map[string]float64)
	for _, m := range prev {
		prevMap[m.Name] = m.Value
	}

	var deltas []store.MetricDelta
	for _, m := range curr {
		prevVal := prevMap[m.Name]
		delta := m.Value - prevVal

		direction := "unchanged"
		if delta != 0 {
			higherIsBetter, known := metricDirection[m.Name]
			if !known {
				higherIsBetter = true // default assumption
			}
			isPositive := delta > 0
			if (isPositive && higherIsBetter) || (!isPositive && !higherIsBetter) {
				direction = "improved"
			} else {
				direction = "regressed"
			}
		}

		deltas = append(deltas, store.MetricDelta{
			Name:      m.Name,
			Previous:  prevVal,
			Current:   m.Value,
			Delta:     delta,
			Direction: direction,
		})
	}

	return deltas
}

// patternChurn diffs the pattern sets of two snapshots.
func patternChurn(prev, curr []string) (fired, cleared []string) {
	prevSet := make(map[string]bool, len(prev))
	for _, p := range prev {
		prevSet[p] = true
	}
	currSet := make(map[string]bool, len(curr))
	for _, p := range curr {
		currSet[p] = true
	}

	for _, p := range curr {
		if !prevSet[p] {
			fired = append(fired, p)
		}
	}
	for _, p := range prev {
		if !currSet[p] {
			cleared = append(cleared, p)
		}
	}
	return fired, cleared
}

func outputTrackJSON(current *store.AnalysisSnapshot, diff *store.SnapshotDiff, fired, cleared []string) error {
	result := map[string]any{
		"snapshot": current,
	}
	if diff != nil {
		result["diff"] = diff
		result["patterns_fired"] = fired
		result["patterns_cleared"] = cleared
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// formatMetricValue renders a metric for display, percent-style where
// the metric is a ratio.
func formatMetricValue(name string, v float64) string {
	if percentMetrics[name] {
		return fmt.Sprintf("%.0f%%", v*100)
	}
	return fmt.Sprintf("%.1f", v)
}

func renderTrackOutput(current *store.AnalysisSnapshot, diff *store.SnapshotDiff, fired, cleared []string) {
	fmt.Println(output.Section("Track: Snapshot Comparison"))
	fmt.Println()
	fmt.Printf(" Snapshot #%d for %s taken at %s\n",
		current.ID, current.UserID, current.AnalyzedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf(" Overall score  %s\n\n", output.ScoreBar(float64(current.OverallScore), 20))

	if diff == nil {
		fmt.Println(" First snapshot recorded. Run 'coachwatch track' again later to see trends.")
		return
	}

	fmt.Printf(" Comparing against snapshot #%d (%s)\n\n",
		diff.Previous.ID, diff.Previous.AnalyzedAt.Format("2006-01-02 15:04:05"))

	tbl := output.NewTable("Metric", "Previous", "Current", "Trend")
	for _, d := range diff.Deltas {
		higherIsBetter, known := metricDirection[d.Name]
		if !known {
			higherIsBetter = true
		}

		var trend string
		if percentMetrics[d.Name] {
			trend = output.TrendArrowPercent(d.Delta*100, higherIsBetter)
		} else {
			trend = output.TrendArrow(d.Delta, higherIsBetter)
		}

		tbl.AddRow(
			metricShortName(d.Name),
			formatMetricValue(d.Name, d.Previous),
			formatMetricValue(d.Name, d.Current),
			trend,
		)
	}
	tbl.Print()
	fmt.Println()

	if len(fired) > 0 {
		fmt.Printf(" %s %v\n", output.StyleError.Render("Newly fired:"), fired)
	}
	if len(cleared) > 0 {
		fmt.Printf(" %s %v\n", output.StyleSuccess.Render("Cleared:"), cleared)
	}
	if len(fired) > 0 || len(cleared) > 0 {
		fmt.Println()
	}
}

// metricDisplayOrder defines the order metrics appear in history output.
var metricDisplayOrder = []string{
	"total_records",
	"action_items_per_record",
	"decisions_per_record",
	"follow_up_rate",
	"collaboration_score",
	"engagement_score",
	"overall_score",
}

// metricShortName returns a compact label for display in tables.
func metricShortName(name string) string {
	short := map[string]string{
		"total_records":           "Meetings",
		"action_items_per_record": "Action Items / Mtg",
		"decisions_per_record":    "Decisions / Mtg",
		"follow_up_rate":          "Follow-up Rate",
		"collaboration_score":     "Collaboration",
		"engagement_score":        "Engagement",
		"overall_score":           "Overall Score",
	}
	if s, ok := short[name]; ok {
		return s
	}
	return name
}

// renderHistory shows a multi-snapshot timeline table.
func renderHistory(db *store.DB, user string, n int) error {
	snapshots, err := db.RecentSnapshots(user, n)
	if err != nil {
		return fmt.Errorf("loading snapshots: %w", err)
	}

	if len(snapshots) == 0 {
		fmt.Println(" No snapshots found. Run 'coachwatch track' to create one.")
		return nil
	}

	// Reverse so oldest is first (left to right = chronological).
	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}

	// Load metrics for each snapshot.
	type snapshotMetrics struct {
		snapshot store.AnalysisSnapshot
		metrics  map[string]float64
	}
	var timeline []snapshotMetrics
	for _, s := range snapshots {
		metrics, err := db.GetAnalysisMetrics(s.ID)
		if err != nil {
			return fmt.Errorf("loading metrics for snapshot #%d: %w", s.ID, err)
		}
		m := make(map[string]float64)
		for _, mr := range metrics {
			m[mr.Name] = mr.Value
		}
		timeline = append(timeline, snapshotMetrics{snapshot: s, metrics: m})
	}

	fmt.Println(output.Section(fmt.Sprintf("Track: Score History for %s", user)))
	fmt.Println()
	fmt.Printf(" Showing %d most recent snapshots\n\n", len(timeline))

	// Build table: Metric | snap1 | snap2 | ... | Trend
	headers := []string{"Metric"}
	for _, sm := range timeline {
		headers = append(headers, fmt.Sprintf("#%d %s", sm.snapshot.ID, sm.snapshot.AnalyzedAt.Format("Jan 02")))
	}
	headers = append(headers, "Trend")
	tbl := output.NewTable(headers...)

	for _, name := range metricDisplayOrder {
		row := []string{metricShortName(name)}
		var vals []float64
		for _, sm := range timeline {
			v := sm.metrics[name]
			vals = append(vals, v)
			row = append(row, formatMetricValue(name, v))
		}

		// Compute trend from first to last.
		trend := ""
		if len(vals) >= 2 {
			delta := vals[len(vals)-1] - vals[0]
			higherIsBetter, known := metricDirection[name]
			if !known {
				higherIsBetter = true
			}
			if percentMetrics[name] {
				trend = output.TrendArrowPercent(delta*100, higherIsBetter)
			} else {
				trend = output.TrendArrow(delta, higherIsBetter)
			}
		}
		row = append(row, trend)
		tbl.AddRow(row...)
	}

	// Detections per snapshot round out the timeline.
	churnRow := []string{"Patterns Fired"}
	for _, sm := range timeline {
		churnRow = append(churnRow, fmt.Sprintf("%d", sm.snapshot.DetectionCount))
	}
	churnRow = append(churnRow, "")
	tbl.AddRow(churnRow...)

	tbl.Print()
	return nil
}

// outputHistoryJSON writes the history data as JSON.
func outputHistoryJSON(db *store.DB, user string, n int) error {
	snapshots, err := db.RecentSnapshots(user, n)
	if err != nil {
		return fmt.Errorf("loading snapshots: %w", err)
	}

	// Reverse to chronological order.
	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}

	type snapshotEntry struct {
		Snapshot store.AnalysisSnapshot `json:"snapshot"`
		Metrics  []store.MetricRow      `json:"metrics"`
	}

	var entries []snapshotEntry
	for _, s := range snapshots {
		metrics, err := db.GetAnalysisMetrics(s.ID)
		if err != nil {
			return fmt.Errorf("loading metrics for snapshot #%d: %w", s.ID, err)
		}
		entries = append(entries, snapshotEntry{Snapshot: s, Metrics: metrics})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"history": entries})
}
