package coach

import "sort"

// priorityRank orders priorities for display, most urgent first.
var priorityRank = map[Priority]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityMedium: 2,
	PriorityLow:    3,
}

// RankRecommendations returns a copy sorted by priority, most urgent
// first. The sort is stable so equal-priority recommendations keep their
// synthesis order.
func RankRecommendations(recommendations []Recommendation) []Recommendation {
	ranked := make([]Recommendation, len(recommendations))
	copy(ranked, recommendations)
	sort.SliceStable(ranked, func(i, j int) bool {
		return priorityRank[ranked[i].Priority] < priorityRank[ranked[j].Priority]
	})
	return ranked
}
