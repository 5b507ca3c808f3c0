package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/coachwatch/internal/config"
	"github.com/blackwell-systems/coachwatch/internal/digest"
	"github.com/blackwell-systems/coachwatch/internal/output"
	"github.com/blackwell-systems/coachwatch/internal/store"
)

var (
	digestWeek string
	digestAll  bool
	digestJSON bool
)

var digestCmd = &cobra.Command{
	Use:   "digest [user]",
	Short: "Compile the weekly coaching digest",
	Long: `Run behavior analysis and compile it into the weekly digest: achievements,
improvement areas, key metrics, filtered recommendations, and up to three
focus phrases for next week. With --all, digests are compiled for every
user in the database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDigest,
}

func init() {
	digestCmd.Flags().StringVar(&digestWeek, "week", "", "Any date inside the digest week, YYYY-MM-DD (default: this week)")
	digestCmd.Flags().BoolVar(&digestAll, "all", false, "Compile digests for every known user")
	digestCmd.Flags().BoolVar(&digestJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(digestCmd)
}

// weekStartOf returns the Monday of the week containing t, at midnight UTC.
func weekStartOf(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}

// userDigest pairs a compiled digest with its user for --all output.
type userDigest struct {
	User   string                `json:"user"`
	Digest digest.CoachingDigest `json:"digest"`
}

func runDigest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	applyColorPrefs()

	weekAnchor := time.Now()
	if digestWeek != "" {
		weekAnchor, err = time.Parse("2006-01-02", digestWeek)
		if err != nil {
			return fmt.Errorf("parsing --week %q: %w", digestWeek, err)
		}
	}
	weekStart := weekStartOf(weekAnchor)
	weekEnd := weekStart.AddDate(0, 0, 6)

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	engine, cat, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}
	compiler, err := digest.NewCompiler(cat)
	if err != nil {
		return err
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	users := []string{cfg.DefaultUser}
	if len(args) > 0 {
		users = []string{args[0]}
	}
	if digestAll {
		users, err = db.ListUsers()
		if err != nil {
			return fmt.Errorf("listing users: %w", err)
		}
		if len(users) == 0 {
			fmt.Println(" No users found. Import records first with 'coachwatch import'.")
			return nil
		}
	}

	// Analyses are independent per user, so fan out and keep rendering
	// sequential for stable output order.
	results := make([]userDigest, len(users))
	var g errgroup.Group
	g.SetLimit(4)
	for i, user := range users {
		i, user := i, user
		g.Go(func() error {
			records, err := db.FetchRecords(user, cfg.TimeframeDays)
			if err != nil {
				return fmt.Errorf("fetching records for %s: %w", user, err)
			}
			analysis, err := engine.Analyze(user, cfg.TimeframeDays, records)
			if err != nil {
				return fmt.Errorf("analyzing %s: %w", user, err)
			}
			results[i] = userDigest{
				User:   user,
				Digest: compiler.Compile(analysis, weekStart, weekEnd),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if digestJSON || flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if digestAll {
			return enc.Encode(results)
		}
		return enc.Encode(results[0].Digest)
	}

	for _, r := range results {
		renderDigest(r.User, r.Digest)
	}
	return nil
}

// keyMetricOrder fixes the display order of the digest's headline map.
var keyMetricOrder = []string{
	"Meetings analyzed",
	"Action items per meeting",
	"Collaboration score (%)",
	"Overall score",
}

func renderDigest(user string, d digest.CoachingDigest) {
	fmt.Println(output.Section(fmt.Sprintf("Weekly Digest: %s", user)))
	fmt.Println()
	fmt.Printf(" Week of %s to %s\n\n",
		d.WeekStart.Format("Jan 02"), d.WeekEnd.Format("Jan 02, 2006"))

	if len(d.Achievements) > 0 {
		fmt.Printf(" %s\n", output.StyleSuccess.Render("Achievements"))
		for _, a := range d.Achievements {
			fmt.Printf("   + %s\n", a)
		}
		fmt.Println()
	}

	if len(d.ImprovementAreas) > 0 {
		fmt.Printf(" %s\n", output.StyleWarning.Render("Improvement areas"))
		for _, area := range d.ImprovementAreas {
			fmt.Printf("   - %s\n", area)
		}
		fmt.Println()
	}

	fmt.Printf(" %s\n", output.StyleBold.Render("Key metrics"))
	for _, label := range keyMetricOrder {
		if v, ok := d.KeyMetrics[label]; ok {
			fmt.Printf("   %s %s\n",
				output.StyleLabel.Render(label),
				output.StyleValue.Render(fmt.Sprintf("%.6g", v)))
		}
	}
	fmt.Println()

	if len(d.Recommendations) > 0 {
		fmt.Printf(" %s\n", output.StyleBold.Render("This week's recommendations"))
		for i, r := range d.Recommendations {
			renderRecommendation(i+1, r)
		}
	}

	if len(d.NextWeekFocus) > 0 {
		fmt.Printf(" %s\n", output.StyleHeader.Render("Next week, focus on"))
		for _, f := range d.NextWeekFocus {
			fmt.Printf("   > %s\n", f)
		}
		fmt.Println()
	}
}
