package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/coachwatch/internal/catalog"
	"github.com/blackwell-systems/coachwatch/internal/config"
	"github.com/blackwell-systems/coachwatch/internal/output"
)

var (
	patternsJSON    bool
	patternsVerbose bool
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the behavioral pattern catalog",
	Long: `Show every pattern the detector evaluates: id, category, severity, the
detection window, and whether it is active after applying your catalog file
and disabled_patterns configuration.`,
	RunE: runPatterns,
}

func init() {
	patternsCmd.Flags().BoolVar(&patternsJSON, "json", false, "Output as JSON")
	patternsCmd.Flags().BoolVar(&patternsVerbose, "detail", false, "Include suggestion templates and action steps")
	rootCmd.AddCommand(patternsCmd)
}

func runPatterns(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	applyColorPrefs()

	cat, err := catalog.Load(cfg.CatalogFile, cfg.DisabledPatterns)
	if err != nil {
		return fmt.Errorf("loading pattern catalog: %w", err)
	}

	patterns := cat.Patterns()

	if patternsJSON || flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(patterns)
	}

	fmt.Println(output.Section(fmt.Sprintf("Pattern Catalog (%d patterns)", len(patterns))))
	fmt.Println()

	tbl := output.NewTable("ID", "Category", "Severity", "Window", "Active")
	for _, p := range patterns {
		active := output.StyleSuccess.Render("yes")
		if !p.Active {
			active = output.StyleMuted.Render("no")
		}
		tbl.AddRow(
			p.ID,
			string(p.Category),
			output.SeverityBadge(string(p.Severity)),
			fmt.Sprintf("%dd", p.TimeframeDays),
			active,
		)
	}
	tbl.Print()
	fmt.Println()

	if !patternsVerbose {
		return nil
	}

	for _, p := range patterns {
		fmt.Printf(" %s %s\n", output.StyleBold.Render(p.Name), output.StyleMuted.Render("("+p.ID+")"))
		fmt.Printf("    %s\n", p.Message)
		fmt.Printf("    Suggestion: %s\n", p.Title)
		for i, step := range p.ActionSteps {
			fmt.Printf("      %d. %s\n", i+1, step)
		}
		fmt.Printf("    %s\n\n", output.StyleMuted.Render(fmt.Sprintf("Tracks: %s", p.TrackingMetric)))
	}
	return nil
}
