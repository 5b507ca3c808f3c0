package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/coachwatch/internal/coach"
	"github.com/blackwell-systems/coachwatch/internal/config"
	"github.com/blackwell-systems/coachwatch/internal/output"
	"github.com/blackwell-systems/coachwatch/internal/store"
)

var (
	interactionUser  string
	interactionLimit int
	interactionJSON  bool
)

var interactionCmd = &cobra.Command{
	Use:   "interaction",
	Short: "Record and review recommendation feedback",
	Long: `Interaction tracks what happens to recommendations after they are shown:
whether the user viewed, dismissed, or acted on them. This feedback loop is
how you tell over time which coaching advice actually lands.`,
}

var interactionRecordCmd = &cobra.Command{
	Use:   "record <recommendation-id> <action>",
	Short: "Record feedback on a recommendation",
	Long: `Record feedback on a recommendation. The action must be one of
viewed, dismissed, or acted_on.`,
	Args: cobra.ExactArgs(2),
	RunE: runInteractionRecord,
}

var interactionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent recommendation feedback",
	RunE:  runInteractionList,
}

func init() {
	interactionRecordCmd.Flags().StringVar(&interactionUser, "user", "", "User the feedback belongs to (default: configured default user)")
	interactionListCmd.Flags().StringVar(&interactionUser, "user", "", "User to list feedback for (default: configured default user)")
	interactionListCmd.Flags().IntVar(&interactionLimit, "limit", 20, "Maximum entries to show")
	interactionListCmd.Flags().BoolVar(&interactionJSON, "json", false, "Output as JSON")

	interactionCmd.AddCommand(interactionRecordCmd)
	interactionCmd.AddCommand(interactionListCmd)
	rootCmd.AddCommand(interactionCmd)
}

func runInteractionRecord(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	applyColorPrefs()

	user := interactionUser
	if user == "" {
		user = cfg.DefaultUser
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

	engine.SetInteractionStore(db)

	action := coach.InteractionAction(args[1])
	if err := engine.RecordInteraction(user, args[0], action); err != nil {
		return fmt.Errorf("recording interaction: %w", err)
	}

	fmt.Printf(" %s %s on %s for %s\n",
		output.StyleSuccess.Render("Recorded"),
		args[1], args[0], user)
	return nil
}

func runInteractionList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	applyColorPrefs()

	user := interactionUser
	if user == "" {
		user = cfg.DefaultUser
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.RecentInteractions(user, interactionLimit)
	if err != nil {
		return fmt.Errorf("listing interactions: %w", err)
	}

	if interactionJSON || flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Println(output.Section(fmt.Sprintf("Recommendation Feedback for %s", user)))
	fmt.Println()

	if len(rows) == 0 {
		fmt.Println(output.StyleMuted.Render(" No feedback recorded yet."))
		return nil
	}

	tbl := output.NewTable("When", "Recommendation", "Action")
	for _, r := range rows {
		action := r.Action
		switch action {
		case string(coach.ActionActedOn):
			action = output.StyleSuccess.Render(action)
		case string(coach.ActionDismissed):
			action = output.StyleMuted.Render(action)
		}
		tbl.AddRow(r.OccurredAt.Format("2006-01-02 15:04"), r.RecommendationID, action)
	}
	tbl.Print()
	return nil
}
