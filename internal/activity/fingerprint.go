package activity

// fingerprintPrefixLen is how many leading fingerprint characters count as
// "the same content" for similarity purposes. Upstream fingerprints are
// content hashes, so a shared prefix is a strong repeat signal.
const fingerprintPrefixLen = 8

func fingerprintPrefix(fp string) string {
	if len(fp) <= fingerprintPrefixLen {
		return fp
	}
	return fp[:fingerprintPrefixLen]
}

// DistinctFingerprintRatio returns the fraction of records carrying a
// distinct fingerprint prefix. Returns 0 for an empty slice.
func DistinctFingerprintRatio(records []Record) float64 {
	if len(records) == 0 {
		return 0
	}

	seen := make(map[string]bool)
	for _, r := range records {
		seen[fingerprintPrefix(r.ContentFingerprint)] = true
	}

	return float64(len(seen)) / float64(len(records))
}

// FingerprintSimilarity measures how repetitive a record set is: the
// complement of the distinct ratio, so identical fingerprints approach 1
// and fully distinct fingerprints yield 0. Returns 0 for an empty slice.
func FingerprintSimilarity(records []Record) float64 {
	if len(records) == 0 {
		return 0
	}
	return 1 - DistinctFingerprintRatio(records)
}
