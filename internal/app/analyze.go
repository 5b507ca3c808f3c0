package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/coachwatch/internal/catalog"
	"github.com/blackwell-systems/coachwatch/internal/coach"
	"github.com/blackwell-systems/coachwatch/internal/config"
	"github.com/blackwell-systems/coachwatch/internal/output"
	"github.com/blackwell-systems/coachwatch/internal/store"
)

var (
	analyzeDays int
	analyzeSave bool
	analyzeJSON bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [user]",
	Short: "Run behavior analysis and show detections",
	Long: `Fetch the user's activity records from the local database, derive behavior
metrics, evaluate the pattern catalog, and print detections, recommendations,
and the overall 0-100 score. With --save the run is also stored as a snapshot
for 'coachwatch track'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeDays, "days", 0, "Analysis window in days (default: timeframe_days from config)")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Store this analysis as a snapshot")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

// buildEngine assembles the catalog and analysis engine from configuration.
// Catalog problems fail here, before any records are touched.
func buildEngine(cfg *config.Config, logger *zap.Logger) (*coach.Engine, *catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.CatalogFile, cfg.DisabledPatterns)
	if err != nil {
		return nil, nil, fmt.Errorf("loading pattern catalog: %w", err)
	}

	engine, err := coach.NewEngine(cat, logger)
	if err != nil {
		return nil, nil, err
	}
	return engine, cat, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	applyColorPrefs()

	user := cfg.DefaultUser
	if len(args) > 0 {
		user = args[0]
	}
	days := analyzeDays
	if days <= 0 {
		days = cfg.TimeframeDays
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	engine, cat, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	records, err := db.FetchRecords(user, days)
	if err != nil {
		return fmt.Errorf("fetching records: %w", err)
	}

	analysis, err := engine.Analyze(user, days, records)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", user, err)
	}

	if analyzeSave {
		if _, err := db.SaveAnalysis(analysis, appVersion); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
	}

	if analyzeJSON || flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}

	renderAnalysis(analysis, cat, cfg.Score.WarnBelow)
	return nil
}

func renderAnalysis(analysis *coach.BehaviorAnalysis, cat *catalog.Catalog, warnBelow int) {
	fmt.Println(output.Section(fmt.Sprintf("Behavior Analysis: %s", analysis.UserID)))
	fmt.Println()
	fmt.Printf(" Window: last %d days  |  Records: %d\n\n",
		analysis.TimeframeDays, analysis.Metrics.TotalRecords)

	fmt.Printf(" Overall score  %s\n", output.ScoreBar(float64(analysis.OverallScore), 20))
	if analysis.OverallScore < warnBelow {
		fmt.Printf(" %s\n", output.StyleWarning.Render("Score is below your configured threshold."))
	}
	fmt.Println()

	renderMetricsTable(analysis)

	if len(analysis.Detections) == 0 {
		fmt.Println(output.Section("Detections"))
		fmt.Println()
		fmt.Println(" No behavioral patterns detected. Keep it up!")
		fmt.Println()
	} else {
		fmt.Println(output.Section(fmt.Sprintf("Detections (%d)", len(analysis.Detections))))
		fmt.Println()
		for _, d := range analysis.Detections {
			renderDetection(d, cat)
		}
	}

	if len(analysis.Recommendations) > 0 {
		fmt.Println(output.Section(fmt.Sprintf("Recommendations (%d)", len(analysis.Recommendations))))
		fmt.Println()
		ranked := coach.RankRecommendations(analysis.Recommendations)
		for i, r := range ranked {
			renderRecommendation(i+1, r)
		}
	}
}

func renderMetricsTable(analysis *coach.BehaviorAnalysis) {
	m := analysis.Metrics
	tbl := output.NewTable("Metric", "Value")
	tbl.AddRow("Meetings analyzed", fmt.Sprintf("%d", m.TotalRecords))
	tbl.AddRow("Action items per meeting", fmt.Sprintf("%.2f", m.ActionItemsPerRecord))
	tbl.AddRow("Decisions per meeting", fmt.Sprintf("%.2f", m.DecisionsPerRecord))
	tbl.AddRow("Follow-up rate", fmt.Sprintf("%.0f%%", m.FollowUpRate*100))
	tbl.AddRow("Collaboration score", fmt.Sprintf("%.0f%%", m.CollaborationScore*100))
	tbl.AddRow("Engagement score", fmt.Sprintf("%.0f%%", m.EngagementScore*100))
	tbl.Print()
	fmt.Println()
}

func renderDetection(d coach.Detection, cat *catalog.Catalog) {
	name := d.PatternID
	if p, ok := cat.Get(d.PatternID); ok {
		name = p.Name
	}

	fmt.Printf(" %s %s %s\n",
		output.SeverityBadge(string(d.Severity)),
		output.StyleBold.Render(name),
		output.StyleMuted.Render(fmt.Sprintf("(confidence %.0f%%)", d.Confidence*100)),
	)
	for _, e := range d.Evidence {
		fmt.Printf("    - %s\n", e)
	}
	fmt.Println()
}

func renderRecommendation(n int, r coach.Recommendation) {
	label := fmt.Sprintf("[%s]", r.Priority)
	var styled string
	switch r.Priority {
	case coach.PriorityUrgent, coach.PriorityHigh:
		styled = output.StyleError.Render(label)
	case coach.PriorityMedium:
		styled = output.StyleWarning.Render(label)
	default:
		styled = output.StyleMuted.Render(label)
	}

	fmt.Printf(" #%d %s %s\n", n, styled, output.StyleBold.Render(r.Title))
	fmt.Printf("    %s\n", r.Description)
	fmt.Printf("    Expected: %s\n", r.ExpectedImpact)
	for i, step := range r.ActionSteps {
		fmt.Printf("      %d. %s\n", i+1, step)
	}
	fmt.Printf("    %s\n\n", output.StyleMuted.Render(fmt.Sprintf("Tracks: %s", r.TrackingMetric)))
}
