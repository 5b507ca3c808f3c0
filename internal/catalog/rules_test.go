package catalog

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/coachwatch/internal/activity"
	"github.com/blackwell-systems/coachwatch/internal/analyzer"
)

var ruleNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// makeRecord builds a record daysAgo days before ruleNow. The fingerprint
// defaults to a value unique per id so similarity stays low unless a test
// overrides it.
func makeRecord(id string, daysAgo, participants, actionItems, decisions int) activity.Record {
	ids := make([]string, participants)
	for i := range ids {
		ids[i] = fmt.Sprintf("user-%d", i)
	}
	return activity.Record{
		ID:                 id,
		Timestamp:          ruleNow.AddDate(0, 0, -daysAgo),
		ParticipantIDs:     ids,
		ActionItemCount:    actionItems,
		DecisionCount:      decisions,
		DurationMinutes:    30,
		ContentFingerprint: "fp-" + id + "-0000",
	}
}

func makeInput(records []activity.Record) Input {
	return Input{
		Records: records,
		Metrics: analyzer.ComputeMetrics(records),
		Now:     ruleNow,
	}
}

// --- low_action_items ---

func TestLowActionItems_Fires(t *testing.T) {
	records := []activity.Record{
		makeRecord("r1", 1, 1, 0, 1),
		makeRecord("r2", 2, 1, 0, 1),
		makeRecord("r3", 3, 1, 0, 1),
		makeRecord("r4", 4, 1, 1, 1),
	}
	fired, err := lowActionItemsRule(makeInput(records))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fired {
		t.Fatal("expected rule to fire: 0.25 items per record, 3 zero-item meetings")
	}
}

func TestLowActionItems_AverageTooHigh(t *testing.T) {
	// Three zero-item meetings, but one packed meeting lifts the average
	// to 0.75.
	records := []activity.Record{
		makeRecord("r1", 1, 1, 0, 1),
		makeRecord("r2", 2, 1, 0, 1),
		makeRecord("r3", 3, 1, 0, 1),
		makeRecord("r4", 4, 1, 3, 1),
	}
	fired, _ := lowActionItemsRule(makeInput(records))
	if fired {
		t.Fatal("expected no fire when actionItemsPerRecord >= 0.5")
	}
}

func TestLowActionItems_TooFewZeroItemMeetings(t *testing.T) {
	records := []activity.Record{
		makeRecord("r1", 1, 1, 0, 1),
		makeRecord("r2", 2, 1, 0, 1),
		makeRecord("r3", 3, 1, 1, 1),
	}
	fired, _ := lowActionItemsRule(makeInput(records))
	if fired {
		t.Fatal("expected no fire with only 2 zero-item meetings")
	}
}

func TestLowActionItems_ZeroItemMeetingsOutsideWindow(t *testing.T) {
	// Zero-item meetings older than 14 days do not count toward the
	// threshold even though they still drag the average down.
	records := []activity.Record{
		makeRecord("r1", 20, 1, 0, 1),
		makeRecord("r2", 21, 1, 0, 1),
		makeRecord("r3", 22, 1, 0, 1),
		makeRecord("r4", 1, 1, 0, 1),
	}
	fired, _ := lowActionItemsRule(makeInput(records))
	if fired {
		t.Fatal("expected no fire when zero-item meetings fall outside the 14-day window")
	}
}

func TestLowActionItems_Evidence(t *testing.T) {
	records := []activity.Record{
		makeRecord("r1", 1, 1, 0, 1),
		makeRecord("r2", 2, 1, 0, 1),
		makeRecord("r3", 3, 1, 0, 1),
		makeRecord("r4", 4, 1, 1, 1),
	}
	evidence := lowActionItemsEvidence(makeInput(records))
	if len(evidence) != 2 {
		t.Fatalf("expected 2 evidence strings, got %d", len(evidence))
	}
	if !strings.Contains(evidence[0], "0.2") {
		t.Errorf("expected per-record average in evidence, got %q", evidence[0])
	}
	if !strings.Contains(evidence[1], "3 meetings") {
		t.Errorf("expected zero-item count in evidence, got %q", evidence[1])
	}
}

// --- repetitive_content ---

func sameFingerprintRecords(n int) []activity.Record {
	records := make([]activity.Record, n)
	for i := range records {
		r := makeRecord(fmt.Sprintf("r%d", i), i%6+1, 2, 1, 1)
		r.ContentFingerprint = fmt.Sprintf("deadbeef-%02d", i)
		records[i] = r
	}
	return records
}

func TestRepetitiveContent_Fires(t *testing.T) {
	// 6 records sharing one 8-char prefix: similarity 1 - 1/6 ~ 0.83.
	fired, err := repetitiveContentRule(makeInput(sameFingerprintRecords(6)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fired {
		t.Fatal("expected rule to fire at 83% similarity")
	}
}

func TestRepetitiveContent_SimilarityAtThreshold(t *testing.T) {
	// 5 records, one shared prefix: similarity exactly 0.8, which does
	// not clear the strictly-greater threshold.
	fired, _ := repetitiveContentRule(makeInput(sameFingerprintRecords(5)))
	if fired {
		t.Fatal("expected no fire at exactly 80% similarity")
	}
}

func TestRepetitiveContent_TooFewRecords(t *testing.T) {
	fired, _ := repetitiveContentRule(makeInput(sameFingerprintRecords(2)))
	if fired {
		t.Fatal("expected no fire with fewer than 3 records in window")
	}
}

func TestRepetitiveContent_DistinctContent(t *testing.T) {
	records := []activity.Record{
		makeRecord("r1", 1, 2, 1, 1),
		makeRecord("r2", 2, 2, 1, 1),
		makeRecord("r3", 3, 2, 1, 1),
		makeRecord("r4", 4, 2, 1, 1),
	}
	fired, _ := repetitiveContentRule(makeInput(records))
	if fired {
		t.Fatal("expected no fire for fully distinct fingerprints")
	}
}

func TestRepetitiveContent_Evidence(t *testing.T) {
	evidence := repetitiveContentEvidence(makeInput(sameFingerprintRecords(6)))
	if len(evidence) != 1 {
		t.Fatalf("expected 1 evidence string, got %d", len(evidence))
	}
	if !strings.Contains(evidence[0], "83%") || !strings.Contains(evidence[0], "6 meetings") {
		t.Errorf("expected similarity and count in evidence, got %q", evidence[0])
	}
}

// --- low_decision_density ---

func TestLowDecisionDensity_Fires(t *testing.T) {
	records := []activity.Record{
		makeRecord("r1", 1, 2, 1, 0),
		makeRecord("r2", 5, 2, 1, 0),
		makeRecord("r3", 10, 2, 1, 0),
	}
	fired, err := lowDecisionDensityRule(makeInput(records))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fired {
		t.Fatal("expected rule to fire with 3 decision-free meetings")
	}
}

func TestLowDecisionDensity_TooFew(t *testing.T) {
	records := []activity.Record{
		makeRecord("r1", 1, 2, 1, 0),
		makeRecord("r2", 5, 2, 1, 0),
		makeRecord("r3", 10, 2, 1, 2),
	}
	fired, _ := lowDecisionDensityRule(makeInput(records))
	if fired {
		t.Fatal("expected no fire with only 2 decision-free meetings")
	}
}

func TestLowDecisionDensity_OutsideWindow(t *testing.T) {
	records := []activity.Record{
		makeRecord("r1", 25, 2, 1, 0),
		makeRecord("r2", 30, 2, 1, 0),
		makeRecord("r3", 40, 2, 1, 0),
		makeRecord("r4", 1, 2, 1, 2),
	}
	fired, _ := lowDecisionDensityRule(makeInput(records))
	if fired {
		t.Fatal("expected no fire when decision-free meetings fall outside 21 days")
	}
}

func TestLowDecisionDensity_Evidence(t *testing.T) {
	records := []activity.Record{
		makeRecord("r1", 1, 2, 1, 0),
		makeRecord("r2", 5, 2, 1, 0),
		makeRecord("r3", 10, 2, 1, 0),
	}
	evidence := lowDecisionDensityEvidence(makeInput(records))
	if len(evidence) != 2 {
		t.Fatalf("expected 2 evidence strings, got %d", len(evidence))
	}
	if !strings.Contains(evidence[0], "3 meetings") {
		t.Errorf("expected decision-free count in evidence, got %q", evidence[0])
	}
	if !strings.Contains(evidence[1], "0.0 decisions") {
		t.Errorf("expected per-meeting average in evidence, got %q", evidence[1])
	}
}

// --- poor_follow_up ---

func TestPoorFollowUp_Fires(t *testing.T) {
	var records []activity.Record
	for i := 0; i < 6; i++ {
		records = append(records, makeRecord(fmt.Sprintf("r%d", i), i+1, 2, 0, 1))
	}
	records[0].ActionItemCount = 2 // follow-up rate 1/6 ~ 0.17

	fired, err := poorFollowUpRule(makeInput(records))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fired {
		t.Fatal("expected rule to fire at 17% follow-up over 6 meetings")
	}
}

func TestPoorFollowUp_RateAtThreshold(t *testing.T) {
	// 3 of 10 meetings with action items: rate exactly 0.3.
	var records []activity.Record
	for i := 0; i < 10; i++ {
		items := 0
		if i < 3 {
			items = 1
		}
		records = append(records, makeRecord(fmt.Sprintf("r%d", i), i%6+1, 2, items, 1))
	}

	fired, _ := poorFollowUpRule(makeInput(records))
	if fired {
		t.Fatal("expected no fire at exactly 30% follow-up")
	}
}

func TestPoorFollowUp_SampleTooSmall(t *testing.T) {
	var records []activity.Record
	for i := 0; i < 5; i++ {
		records = append(records, makeRecord(fmt.Sprintf("r%d", i), i+1, 2, 0, 1))
	}

	fired, _ := poorFollowUpRule(makeInput(records))
	if fired {
		t.Fatal("expected no fire with 5 or fewer meetings")
	}
}

func TestPoorFollowUp_Evidence(t *testing.T) {
	var records []activity.Record
	for i := 0; i < 6; i++ {
		records = append(records, makeRecord(fmt.Sprintf("r%d", i), i+1, 2, 0, 1))
	}

	evidence := poorFollowUpEvidence(makeInput(records))
	if len(evidence) != 2 {
		t.Fatalf("expected 2 evidence strings, got %d", len(evidence))
	}
	if !strings.Contains(evidence[0], "0%") {
		t.Errorf("expected follow-up rate in evidence, got %q", evidence[0])
	}
	if !strings.Contains(evidence[1], "6 meetings") {
		t.Errorf("expected meeting count in evidence, got %q", evidence[1])
	}
}

// --- low_collaboration ---

func TestLowCollaboration_Fires(t *testing.T) {
	var records []activity.Record
	for i := 0; i < 10; i++ {
		records = append(records, makeRecord(fmt.Sprintf("r%d", i), i%6+1, 1, 1, 1))
	}
	records[0].ParticipantIDs = []string{"a", "b"} // 1 of 10 collaborative

	fired, err := lowCollaborationRule(makeInput(records))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fired {
		t.Fatal("expected rule to fire at 10% collaboration")
	}
}

func TestLowCollaboration_ScoreAtThreshold(t *testing.T) {
	// 2 of 10 collaborative: score exactly 0.2.
	var records []activity.Record
	for i := 0; i < 10; i++ {
		records = append(records, makeRecord(fmt.Sprintf("r%d", i), i%6+1, 1, 1, 1))
		if i < 2 {
			records[i].ParticipantIDs = []string{"a", "b"}
		}
	}

	fired, _ := lowCollaborationRule(makeInput(records))
	if fired {
		t.Fatal("expected no fire at exactly 20% collaboration")
	}
}

func TestLowCollaboration_EmptyWindow(t *testing.T) {
	fired, _ := lowCollaborationRule(makeInput(nil))
	if fired {
		t.Fatal("expected no fire with no records at all")
	}
}

func TestLowCollaboration_Evidence(t *testing.T) {
	var records []activity.Record
	for i := 0; i < 10; i++ {
		records = append(records, makeRecord(fmt.Sprintf("r%d", i), i%6+1, 1, 1, 1))
	}
	records[0].ParticipantIDs = []string{"a", "b"}

	evidence := lowCollaborationEvidence(makeInput(records))
	if len(evidence) != 1 {
		t.Fatalf("expected 1 evidence string, got %d", len(evidence))
	}
	if !strings.Contains(evidence[0], "10%") {
		t.Errorf("expected collaboration percentage in evidence, got %q", evidence[0])
	}
}

// --- meeting_overload ---

func overloadRecords(recent, old int) []activity.Record {
	var records []activity.Record
	for i := 0; i < recent; i++ {
		records = append(records, makeRecord(fmt.Sprintf("recent-%d", i), i%6+1, 2, 1, 1))
	}
	for i := 0; i < old; i++ {
		records = append(records, makeRecord(fmt.Sprintf("old-%d", i), 10+i, 2, 1, 1))
	}
	return records
}

func TestMeetingOverload_Fires(t *testing.T) {
	fired, err := meetingOverloadRule(makeInput(overloadRecords(26, 0)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fired {
		t.Fatal("expected rule to fire with 26 meetings in 7 days")
	}
}

func TestMeetingOverload_CountAtThreshold(t *testing.T) {
	fired, _ := meetingOverloadRule(makeInput(overloadRecords(25, 0)))
	if fired {
		t.Fatal("expected no fire at exactly 25 meetings")
	}
}

func TestMeetingOverload_OldMeetingsIgnored(t *testing.T) {
	// 40 meetings total, but only 20 inside the week.
	fired, _ := meetingOverloadRule(makeInput(overloadRecords(20, 20)))
	if fired {
		t.Fatal("expected no fire when the recent window holds 20 meetings")
	}
}

func TestMeetingOverload_Evidence(t *testing.T) {
	evidence := meetingOverloadEvidence(makeInput(overloadRecords(26, 3)))
	if len(evidence) != 1 {
		t.Fatalf("expected 1 evidence string, got %d", len(evidence))
	}
	if !strings.Contains(evidence[0], "26 meetings") {
		t.Errorf("expected windowed count in evidence, got %q", evidence[0])
	}
}
