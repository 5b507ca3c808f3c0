package catalog

// baselineConfidence is assigned to every builtin detection. Rule matches
// are boolean, so the value is a flat placeholder rather than a graduated
// score.
const baselineConfidence = 0.8

// Builtin returns the built-in pattern set in its canonical order. The
// order is part of the contract: detections are reported in catalog order.
func Builtin() []Pattern {
	return []Pattern{
		{
			ID:            "low_action_items",
			Name:          "Low action item generation",
			Category:      CategoryProductivity,
			Severity:      SeverityMedium,
			TimeframeDays: 14,
			Active:        true,
			Confidence:    baselineConfidence,
			Rule:          lowActionItemsRule,
			Evidence:      lowActionItemsEvidence,
			Title:         "Increase action item capture",
			Message: "Most of your meetings end without concrete action items. " +
				"Meetings that close with owned next steps are far more likely to produce follow-through.",
			ExpectedImpact: "More meetings ending with clear, owned next steps",
			ActionSteps: []string{
				"End meetings by asking 'What are our next steps?'",
				"Assign a named owner to every action item",
				"Set explicit deadlines for follow-up tasks",
			},
			TrackingMetric: "action_items_per_record",
			Focus:          "End meetings with clear next steps",
		},
		{
			ID:            "repetitive_content",
			Name:          "Repetitive meeting content",
			Category:      CategoryEngagement,
			Severity:      SeverityLow,
			TimeframeDays: 7,
			Active:        true,
			Confidence:    baselineConfidence,
			Rule:          repetitiveContentRule,
			Evidence:      repetitiveContentEvidence,
			Title:         "Vary your meeting content",
			Message: "Recent meetings look nearly identical to each other. " +
				"Recurring meetings drift into status theater when the agenda never changes.",
			ExpectedImpact: "Fresher agendas and fewer redundant meetings",
			ActionSteps: []string{
				"Rotate who sets the agenda each week",
				"Replace one recurring meeting with a written update",
				"Reserve part of each meeting for new topics",
			},
			TrackingMetric: "engagement_score",
			Focus:          "Refresh recurring meeting agendas",
		},
		{
			ID:            "low_decision_density",
			Name:          "Low decision density",
			Category:      CategoryDecisionMaking,
			Severity:      SeverityHigh,
			TimeframeDays: 21,
			Active:        true,
			Confidence:    baselineConfidence,
			Rule:          lowDecisionDensityRule,
			Evidence:      lowDecisionDensityEvidence,
			Title:         "Drive meetings to decisions",
			Message: "A large share of your recent meetings closed without a single recorded decision. " +
				"Discussion without decisions tends to repeat itself.",
			ExpectedImpact: "Fewer repeated discussions and faster closure",
			ActionSteps: []string{
				"Open each meeting by naming the decision it must produce",
				"Timebox discussion and call the question before the end",
				"Record every decision and its owner in the summary",
			},
			TrackingMetric: "decisions_per_record",
			Focus:          "Name the decision each meeting must produce",
		},
		{
			ID:            "poor_follow_up",
			Name:          "Poor follow-up habits",
			Category:      CategoryFollowThrough,
			Severity:      SeverityHigh,
			TimeframeDays: 30,
			Active:        true,
			Confidence:    baselineConfidence,
			Rule:          poorFollowUpRule,
			Evidence:      poorFollowUpEvidence,
			Title:         "Close the follow-up loop",
			Message: "Less than a third of your meetings generate any follow-up work. " +
				"Commitments made in the room are evaporating before they reach a task list.",
			ExpectedImpact: "Higher follow-through on meeting commitments",
			ActionSteps: []string{
				"Review open action items at the start of each meeting",
				"Send a summary with owners within one hour of the meeting",
				"Track completion of last week's items before adding new ones",
			},
			TrackingMetric: "follow_up_rate",
			Focus:          "Turn meeting commitments into tracked tasks",
		},
		{
			ID:            "low_collaboration",
			Name:          "Low collaboration",
			Category:      CategoryCollaboration,
			Severity:      SeverityMedium,
			TimeframeDays: 14,
			Active:        true,
			Confidence:    baselineConfidence,
			Rule:          lowCollaborationRule,
			Evidence:      lowCollaborationEvidence,
			Title:         "Broaden meeting participation",
			Message: "Most of your analyzed meetings are solo sessions. " +
				"Decisions made alone are faster but skip the people who have to live with them.",
			ExpectedImpact: "More shared context and earlier input from teammates",
			ActionSteps: []string{
				"Invite one affected teammate to your next planning session",
				"Convert one solo review into a pair session",
			},
			TrackingMetric: "collaboration_score",
			Focus:          "Involve teammates earlier",
		},
		{
			ID:            "meeting_overload",
			Name:          "Meeting overload",
			Category:      CategoryProductivity,
			Severity:      SeverityCritical,
			TimeframeDays: 7,
			Active:        true,
			Confidence:    baselineConfidence,
			Rule:          meetingOverloadRule,
			Evidence:      meetingOverloadEvidence,
			Title:         "Cut meeting volume",
			Message: "You sat in more than 25 meetings this week. " +
				"At that volume the calendar is eating the time the meetings are supposed to organize.",
			ExpectedImpact: "Reclaimed focus time without losing alignment",
			ActionSteps: []string{
				"Decline meetings that arrive without an agenda",
				"Batch status updates into a single written digest",
				"Block two meeting-free half days this week",
				"Shorten default meeting length from 60 to 25 minutes",
			},
			TrackingMetric: "total_records",
			Focus:          "Protect focus time from meetings",
		},
	}
}
