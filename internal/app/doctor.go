package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/coachwatch/internal/catalog"
	"github.com/blackwell-systems/coachwatch/internal/config"
	"github.com/blackwell-systems/coachwatch/internal/output"
	"github.com/blackwell-systems/coachwatch/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check whether the coachwatch setup is healthy",
	Long: `Run a series of health checks against your coachwatch configuration,
pattern catalog, and local database. Prints a pass/fail line for each
check and a summary of how many checks passed.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorCheck holds the result of a single health check.
type doctorCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// doctorOutput is the JSON-serializable result of the doctor command.
type doctorOutput struct {
	Checks      []doctorCheck `json:"checks"`
	PassedCount int           `json:"passed"`
	TotalCount  int           `json:"total"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	applyColorPrefs()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var checks []doctorCheck

	// 1. Config directory exists.
	checks = append(checks, checkConfigDir())

	// 2. Pattern catalog loads cleanly, overrides included.
	checks = append(checks, checkCatalog(cfg))

	// 3. Catalog overrides file, when one is configured.
	if cfg.CatalogFile != "" {
		checks = append(checks, checkCatalogFile(cfg.CatalogFile))
	}

	// 4. SQLite database opens and migrates.
	checks = append(checks, checkDatabase())

	// 5. Default user has activity records to analyze.
	checks = append(checks, checkRecords(cfg.DefaultUser))

	// 6. At least one snapshot exists for trend tracking.
	checks = append(checks, checkSnapshots(cfg.DefaultUser))

	// Count passes.
	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}

	if flagJSON {
		out := doctorOutput{
			Checks:      checks,
			PassedCount: passed,
			TotalCount:  len(checks),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	// Render styled output.
	fmt.Println(output.Section("Doctor"))
	fmt.Println()

	for _, c := range checks {
		renderDoctorCheck(c)
	}

	fmt.Println()
	summary := fmt.Sprintf("%d/%d checks passed", passed, len(checks))
	if passed == len(checks) {
		fmt.Printf(" %s\n\n", output.StyleSuccess.Render(summary))
	} else {
		fmt.Printf(" %s\n\n", output.StyleWarning.Render(summary))
	}

	return nil
}

// renderDoctorCheck prints a single check result line.
func renderDoctorCheck(c doctorCheck) {
	var indicator string
	if c.Passed {
		indicator = output.StyleSuccess.Render("✓")
	} else {
		indicator = output.StyleWarning.Render("✗")
	}
	label := output.StyleBold.Render(c.Name)
	detail := output.StyleMuted.Render(c.Message)
	fmt.Printf("  %s  %-30s %s\n", indicator, label, detail)
}

// checkConfigDir verifies that the config directory exists and is a directory.
func checkConfigDir() doctorCheck {
	dir := config.ConfigDir()
	info, err := os.Stat(dir)
	if err != nil {
		return doctorCheck{
			Name:    "Config directory",
			Passed:  false,
			Message: fmt.Sprintf("not found: %s (created on first import)", dir),
		}
	}
	if !info.IsDir() {
		return doctorCheck{
			Name:    "Config directory",
			Passed:  false,
			Message: fmt.Sprintf("path exists but is not a directory: %s", dir),
		}
	}
	return doctorCheck{
		Name:    "Config directory",
		Passed:  true,
		Message: dir,
	}
}

// checkCatalog verifies the pattern catalog loads with the configured
// overrides applied. A bad overrides file fails fast here rather than
// at analysis time.
func checkCatalog(cfg *config.Config) doctorCheck {
	cat, err := catalog.Load(cfg.CatalogFile, cfg.DisabledPatterns)
	if err != nil {
		return doctorCheck{
			Name:    "Pattern catalog",
			Passed:  false,
			Message: fmt.Sprintf("failed to load: %v", err),
		}
	}
	return doctorCheck{
		Name:    "Pattern catalog",
		Passed:  true,
		Message: fmt.Sprintf("%d patterns, %d active", cat.Len(), len(cat.Active())),
	}
}

// checkCatalogFile verifies the configured overrides file exists.
func checkCatalogFile(path string) doctorCheck {
	_, err := os.Stat(path)
	if err != nil {
		return doctorCheck{
			Name:    "Catalog overrides",
			Passed:  false,
			Message: fmt.Sprintf("not found: %s", path),
		}
	}
	return doctorCheck{
		Name:    "Catalog overrides",
		Passed:  true,
		Message: path,
	}
}

// checkDatabase verifies the SQLite database opens and migrates.
func checkDatabase() doctorCheck {
	dbPath := config.DBPath()
	if _, err := os.Stat(dbPath); err != nil {
		return doctorCheck{
			Name:    "SQLite database",
			Passed:  false,
			Message: fmt.Sprintf("not found at %s (run 'coachwatch import' to create)", dbPath),
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return doctorCheck{
			Name:    "SQLite database",
			Passed:  false,
			Message: fmt.Sprintf("failed to open: %v", err),
		}
	}
	defer func() { _ = db.Close() }()

	users, err := db.ListUsers()
	if err != nil {
		return doctorCheck{
			Name:    "SQLite database",
			Passed:  false,
			Message: fmt.Sprintf("query failed: %v", err),
		}
	}
	return doctorCheck{
		Name:    "SQLite database",
		Passed:  true,
		Message: fmt.Sprintf("%s (%d users)", dbPath, len(users)),
	}
}

// checkRecords verifies the default user has activity records to analyze.
func checkRecords(user string) doctorCheck {
	db, err := store.Open(config.DBPath())
	if err != nil {
		return doctorCheck{
			Name:    "Activity records",
			Passed:  false,
			Message: fmt.Sprintf("database unavailable: %v", err),
		}
	}
	defer func() { _ = db.Close() }()

	count, err := db.CountRecords(user)
	if err != nil {
		return doctorCheck{
			Name:    "Activity records",
			Passed:  false,
			Message: fmt.Sprintf("query failed: %v", err),
		}
	}
	if count == 0 {
		return doctorCheck{
			Name:    "Activity records",
			Passed:  false,
			Message: fmt.Sprintf("no records for %s (run 'coachwatch import')", user),
		}
	}
	return doctorCheck{
		Name:    "Activity records",
		Passed:  true,
		Message: fmt.Sprintf("%d records for %s", count, user),
	}
}

// checkSnapshots reports whether any analysis snapshots exist yet.
func checkSnapshots(user string) doctorCheck {
	db, err := store.Open(config.DBPath())
	if err != nil {
		return doctorCheck{
			Name:    "Analysis snapshots",
			Passed:  false,
			Message: fmt.Sprintf("database unavailable: %v", err),
		}
	}
	defer func() { _ = db.Close() }()

	latest, err := db.GetLatestSnapshot(user)
	if err != nil {
		return doctorCheck{
			Name:    "Analysis snapshots",
			Passed:  false,
			Message: fmt.Sprintf("query failed: %v", err),
		}
	}
	if latest == nil {
		return doctorCheck{
			Name:    "Analysis snapshots",
			Passed:  false,
			Message: fmt.Sprintf("none yet for %s (run 'coachwatch track')", user),
		}
	}
	return doctorCheck{
		Name:   "Analysis snapshots",
		Passed: true,
		Message: fmt.Sprintf("latest #%d at %s (score %d)",
			latest.ID, latest.AnalyzedAt.Format("2006-01-02"), latest.OverallScore),
	}
}
