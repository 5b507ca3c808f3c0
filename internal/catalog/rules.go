package catalog

import (
	"fmt"

	"github.com/blackwell-systems/coachwatch/internal/activity"
)

// countZeroActionItems returns how many records closed without any action item.
func countZeroActionItems(records []activity.Record) int {
	count := 0
	for _, r := range records {
		if r.ActionItemCount == 0 {
			count++
		}
	}
	return count
}

// countZeroDecisions returns how many records closed without any decision.
func countZeroDecisions(records []activity.Record) int {
	count := 0
	for _, r := range records {
		if r.DecisionCount == 0 {
			count++
		}
	}
	return count
}

// lowActionItemsRule fires when action items are rare overall and at least
// three meetings in the window produced none at all.
func lowActionItemsRule(in Input) (bool, error) {
	if in.Metrics.ActionItemsPerRecord >= 0.5 {
		return false, nil
	}
	windowed := activity.FilterWithinDays(in.Records, in.Now, 14)
	return countZeroActionItems(windowed) >= 3, nil
}

func lowActionItemsEvidence(in Input) []string {
	windowed := activity.FilterWithinDays(in.Records, in.Now, 14)
	return []string{
		fmt.Sprintf("%.1f action items per meeting", in.Metrics.ActionItemsPerRecord),
		fmt.Sprintf("%d meetings without action items in the last 14 days", countZeroActionItems(windowed)),
	}
}

// repetitiveContentRule fires when content fingerprints across the recent
// window are more than 80% similar over at least three meetings.
func repetitiveContentRule(in Input) (bool, error) {
	windowed := activity.FilterWithinDays(in.Records, in.Now, 7)
	if len(windowed) < 3 {
		return false, nil
	}
	return activity.FingerprintSimilarity(windowed) > 0.8, nil
}

func repetitiveContentEvidence(in Input) []string {
	windowed := activity.FilterWithinDays(in.Records, in.Now, 7)
	similarity := activity.FingerprintSimilarity(windowed)
	return []string{
		fmt.Sprintf("%.0f%% content similarity across %d meetings in the last 7 days", similarity*100, len(windowed)),
	}
}

// lowDecisionDensityRule fires when at least three meetings in the window
// closed without a single decision.
func lowDecisionDensityRule(in Input) (bool, error) {
	windowed := activity.FilterWithinDays(in.Records, in.Now, 21)
	return countZeroDecisions(windowed) >= 3, nil
}

func lowDecisionDensityEvidence(in Input) []string {
	windowed := activity.FilterWithinDays(in.Records, in.Now, 21)
	return []string{
		fmt.Sprintf("%d meetings without a recorded decision in the last 21 days", countZeroDecisions(windowed)),
		fmt.Sprintf("%.1f decisions per meeting overall", in.Metrics.DecisionsPerRecord),
	}
}

// poorFollowUpRule fires when under 30% of a meaningful sample of meetings
// produce any follow-up work.
func poorFollowUpRule(in Input) (bool, error) {
	return in.Metrics.FollowUpRate < 0.3 && in.Metrics.TotalRecords > 5, nil
}

func poorFollowUpEvidence(in Input) []string {
	return []string{
		fmt.Sprintf("%.0f%% of meetings produce action items", in.Metrics.FollowUpRate*100),
		fmt.Sprintf("%d meetings analyzed", in.Metrics.TotalRecords),
	}
}

// lowCollaborationRule fires when under 20% of meetings involve more than
// one participant. An empty window never fires.
func lowCollaborationRule(in Input) (bool, error) {
	return in.Metrics.TotalRecords > 0 && in.Metrics.CollaborationScore < 0.2, nil
}

func lowCollaborationEvidence(in Input) []string {
	return []string{
		fmt.Sprintf("%.0f%% of meetings involve more than one participant", in.Metrics.CollaborationScore*100),
	}
}

// meetingOverloadRule fires on volume alone: more than 25 meetings inside
// one week. Average duration is deliberately ignored since that input is
// optional upstream.
func meetingOverloadRule(in Input) (bool, error) {
	windowed := activity.FilterWithinDays(in.Records, in.Now, 7)
	return len(windowed) > 25, nil
}

func meetingOverloadEvidence(in Input) []string {
	windowed := activity.FilterWithinDays(in.Records, in.Now, 7)
	return []string{
		fmt.Sprintf("%d meetings in the last 7 days", len(windowed)),
	}
}
