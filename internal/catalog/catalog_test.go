package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinCatalogLoads(t *testing.T) {
	cat, err := New(Builtin())
	if err != nil {
		t.Fatalf("builtin catalog failed validation: %v", err)
	}
	if cat.Len() != 6 {
		t.Fatalf("expected 6 builtin patterns, got %d", cat.Len())
	}
}

func TestBuiltinCatalogOrder(t *testing.T) {
	cat, err := New(Builtin())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"low_action_items",
		"repetitive_content",
		"low_decision_density",
		"poor_follow_up",
		"low_collaboration",
		"meeting_overload",
	}

	patterns := cat.Patterns()
	for i, id := range want {
		if patterns[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, patterns[i].ID)
		}
	}
}

func TestBuiltinAllActiveByDefault(t *testing.T) {
	cat, _ := New(Builtin())
	if len(cat.Active()) != 6 {
		t.Fatalf("expected all 6 patterns active, got %d", len(cat.Active()))
	}
}

func TestGet(t *testing.T) {
	cat, _ := New(Builtin())

	p, ok := cat.Get("meeting_overload")
	if !ok {
		t.Fatal("expected meeting_overload to exist")
	}
	if p.Severity != SeverityCritical {
		t.Errorf("expected critical severity, got %s", p.Severity)
	}

	if _, ok := cat.Get("nope"); ok {
		t.Fatal("expected lookup miss for unknown id")
	}
}

func TestNewRejectsDuplicateID(t *testing.T) {
	patterns := Builtin()
	patterns = append(patterns, patterns[0])

	_, err := New(patterns)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestNewRejectsBadSeverity(t *testing.T) {
	patterns := Builtin()
	patterns[0].Severity = "catastrophic"

	_, err := New(patterns)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestNewRejectsBadCategory(t *testing.T) {
	patterns := Builtin()
	patterns[0].Category = "vibes"

	_, err := New(patterns)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestNewRejectsUnknownTrackingMetric(t *testing.T) {
	patterns := Builtin()
	patterns[0].TrackingMetric = "charisma"

	_, err := New(patterns)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestNewRejectsActionStepCounts(t *testing.T) {
	patterns := Builtin()
	patterns[0].ActionSteps = []string{"only one"}
	if _, err := New(patterns); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for 1 step, got %v", err)
	}

	patterns = Builtin()
	patterns[0].ActionSteps = []string{"a", "b", "c", "d", "e"}
	if _, err := New(patterns); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for 5 steps, got %v", err)
	}
}

func TestNewRejectsNilRule(t *testing.T) {
	patterns := Builtin()
	patterns[0].Rule = nil

	_, err := New(patterns)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestNewRejectsConfidenceOutOfRange(t *testing.T) {
	patterns := Builtin()
	patterns[0].Confidence = 1.5

	_, err := New(patterns)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestNewRejectsNonPositiveTimeframe(t *testing.T) {
	patterns := Builtin()
	patterns[0].TimeframeDays = 0

	_, err := New(patterns)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadWithoutOverrides(t *testing.T) {
	cat, err := Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 6 {
		t.Fatalf("expected 6 patterns, got %d", cat.Len())
	}
}

func TestLoadDisablesPatterns(t *testing.T) {
	cat, err := Load("", []string{"repetitive_content", "meeting_overload"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cat.Active()) != 4 {
		t.Fatalf("expected 4 active patterns, got %d", len(cat.Active()))
	}
	p, _ := cat.Get("repetitive_content")
	if p.Active {
		t.Error("expected repetitive_content to be inactive")
	}
}

func TestLoadUnknownDisabledPattern(t *testing.T) {
	_, err := Load("", []string{"does_not_exist"})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing catalog file: %v", err)
	}
	return path
}

func TestLoadAppliesOverrides(t *testing.T) {
	path := writeCatalogFile(t, `
- id: low_collaboration
  severity: high
  timeframe_days: 7
  focus: "Pair with a teammate this week"
- id: repetitive_content
  active: false
`)

	cat, err := Load(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, _ := cat.Get("low_collaboration")
	if p.Severity != SeverityHigh {
		t.Errorf("expected overridden severity high, got %s", p.Severity)
	}
	if p.TimeframeDays != 7 {
		t.Errorf("expected overridden timeframe 7, got %d", p.TimeframeDays)
	}
	if p.Focus != "Pair with a teammate this week" {
		t.Errorf("unexpected focus %q", p.Focus)
	}
	// Untouched fields survive.
	if p.Name != "Low collaboration" {
		t.Errorf("expected name untouched, got %q", p.Name)
	}

	if rp, _ := cat.Get("repetitive_content"); rp.Active {
		t.Error("expected repetitive_content disabled by override")
	}
}

func TestLoadRejectsUnknownOverrideID(t *testing.T) {
	path := writeCatalogFile(t, `
- id: not_a_pattern
  active: false
`)

	_, err := Load(path, nil)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadRejectsInvalidOverrideValue(t *testing.T) {
	// Overriding into an invalid severity must fail load, not detection.
	path := writeCatalogFile(t, `
- id: poor_follow_up
  severity: extreme
`)

	_, err := Load(path, nil)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeCatalogFile(t, "{{not yaml")

	_, err := Load(path, nil)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
