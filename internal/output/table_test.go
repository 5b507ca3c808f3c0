package output

import (
	"strings"
	"testing"
)

func TestVisualLen_PlainText(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"hello", 5},
		{"", 0},
		{"abc def", 7},
	}

	for _, tc := range tests {
		got := visualLen(tc.input)
		if got != tc.want {
			t.Errorf("visualLen(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestVisualLen_StripsANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{
			name:  "bold",
			input: "\x1b[1mhello\x1b[0m",
			want:  5,
		},
		{
			name:  "color",
			input: "\x1b[31mred\x1b[0m",
			want:  3,
		},
		{
			name:  "multiple sequences",
			input: "\x1b[1m\x1b[34mblue bold\x1b[0m",
			want:  9,
		},
		{
			name:  "no ansi",
			input: "plain text",
			want:  10,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := visualLen(tc.input)
			if got != tc.want {
				t.Errorf("visualLen() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  int // expected length of output
	}{
		{"needs padding", "hi", 10, 10},
		{"exact width", "hello", 5, 5},
		{"over width", "toolong", 3, 7}, // no truncation
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := pad(tc.input, tc.width)
			if len(got) != tc.want {
				t.Errorf("pad(%q, %d) len = %d, want %d", tc.input, tc.width, len(got), tc.want)
			}
		})
	}
}

func TestTable_Render(t *testing.T) {
	// Disable color so we get predictable output.
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Pattern", "Severity")
	tbl.AddRow("meeting_overload", "critical")
	tbl.AddRow("low_action_items", "medium")

	output := tbl.Render()

	// Should contain headers.
	if !strings.Contains(output, "Pattern") {
		t.Error("expected header 'Pattern' in output")
	}
	if !strings.Contains(output, "Severity") {
		t.Error("expected header 'Severity' in output")
	}

	// Should contain data.
	if !strings.Contains(output, "meeting_overload") {
		t.Error("expected 'meeting_overload' in output")
	}
	if !strings.Contains(output, "low_action_items") {
		t.Error("expected 'low_action_items' in output")
	}

	// Should have separator line.
	if !strings.Contains(output, "─") {
		t.Error("expected separator character in output")
	}

	// Count lines: header + separator + 2 data rows = 4 lines.
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) != 4 {
		t.Errorf("expected 4 lines, got %d", len(lines))
	}
}

func TestTable_EmptyHeaders(t *testing.T) {
	tbl := NewTable()
	output := tbl.Render()
	if output != "" {
		t.Errorf("expected empty output for empty table, got %q", output)
	}
}

func TestTable_ColumnWidths(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("User", "LastAnalysis")
	tbl.AddRow("a-very-long-user-name", "85")

	output := tbl.Render()
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got %d", len(lines))
	}

	// The data row should be padded so columns align.
	dataLine := lines[2]
	if !strings.Contains(dataLine, "a-very-long-user-name") {
		t.Error("expected data row to contain 'a-very-long-user-name'")
	}
}

func TestTable_String(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Col1")
	tbl.AddRow("Val1")

	// String() should equal Render().
	if tbl.String() != tbl.Render() {
		t.Error("String() != Render()")
	}
}

func TestScoreBar(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	bar := ScoreBar(80, 10)
	if !strings.Contains(bar, "80/100") {
		t.Errorf("expected score label in %q", bar)
	}
	if strings.Count(bar, "█") != 8 {
		t.Errorf("expected 8 filled cells for 80%%, got %d", strings.Count(bar, "█"))
	}

	empty := ScoreBar(0, 10)
	if strings.Count(empty, "░") != 10 {
		t.Errorf("expected 10 empty cells for score 0, got %d", strings.Count(empty, "░"))
	}
}

func TestSeverityBadge(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	if got := SeverityBadge("critical"); got != "CRITICAL" {
		t.Errorf("SeverityBadge(critical) = %q, want CRITICAL", got)
	}
	if got := SeverityBadge("low"); got != "LOW" {
		t.Errorf("SeverityBadge(low) = %q, want LOW", got)
	}
}

func TestSetNoColor(t *testing.T) {
	// After SetNoColor(true), StyleHeader should render without ANSI.
	SetNoColor(true)
	rendered := StyleHeader.Render("test")
	if strings.Contains(rendered, "\x1b[") {
		t.Error("expected no ANSI codes after SetNoColor(true)")
	}

	// SetNoColor(false) does not restore the original styles, it only
	// stops forcing plain ones. We just verify no crash and that the
	// function is idempotent.
	SetNoColor(false)
}
