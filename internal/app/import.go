package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/coachwatch/internal/activity"
	"github.com/blackwell-systems/coachwatch/internal/config"
	"github.com/blackwell-systems/coachwatch/internal/output"
	"github.com/blackwell-systems/coachwatch/internal/store"
)

var (
	importUser string
	importJSON bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import activity records from a JSON file",
	Long: `Import reads a JSON array of activity records and loads them into the
local database. Records are deduplicated by id, so re-importing the same
file is safe. Invalid records are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importUser, "user", "", "User to import records for (default: configured default user)")
	importCmd.Flags().BoolVar(&importJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(importCmd)
}

// importSummary reports the outcome of an import run.
type importSummary struct {
	File      string   `json:"file"`
	User      string   `json:"user"`
	Imported  int      `json:"imported"`
	Duplicate int      `json:"duplicate"`
	Invalid   int      `json:"invalid"`
	Errors    []string `json:"errors,omitempty"`
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	applyColorPrefs()

	user := importUser
	if user == "" {
		user = cfg.DefaultUser
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var records []activity.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	summary := importSummary{File: path, User: user}
	for i, r := range records {
		inserted, err := db.InsertRecord(user, r)
		if err != nil {
			summary.Invalid++
			summary.Errors = append(summary.Errors, fmt.Sprintf("record %d (%s): %v", i, r.ID, err))
			continue
		}
		if inserted {
			summary.Imported++
		} else {
			summary.Duplicate++
		}
	}

	if importJSON || flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	renderImportSummary(summary)
	return nil
}

func renderImportSummary(s importSummary) {
	fmt.Println(output.Section("Import"))
	fmt.Println()
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("File:"),
		output.StyleValue.Render(s.File))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("User:"),
		output.StyleValue.Render(s.User))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Imported:"),
		output.StyleValue.Render(fmt.Sprintf("%d", s.Imported)))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Duplicates skipped:"),
		output.StyleValue.Render(fmt.Sprintf("%d", s.Duplicate)))

	if s.Invalid > 0 {
		fmt.Printf(" %s %s\n",
			output.StyleLabel.Render("Invalid:"),
			output.StyleError.Render(fmt.Sprintf("%d", s.Invalid)))
		for _, e := range s.Errors {
			fmt.Printf("   %s\n", output.StyleMuted.Render(e))
		}
	}
	fmt.Println()
}
