package activity

import "time"

// FilterWithinDays returns records whose timestamp falls within the last N
// days before now. If days <= 0, all records are returned. The reference
// time is explicit so that callers evaluating time-windowed rules stay
// reproducible.
func FilterWithinDays(records []Record, now time.Time, days int) []Record {
	if days <= 0 {
		return records
	}

	cutoff := now.AddDate(0, 0, -days)
	var filtered []Record

	for _, r := range records {
		if r.Timestamp.IsZero() {
			continue
		}
		if r.Timestamp.After(cutoff) {
			filtered = append(filtered, r)
		}
	}

	return filtered
}
