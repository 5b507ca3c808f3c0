package activity

import (
	"math"
	"testing"
)

func fpRecords(fingerprints ...string) []Record {
	records := make([]Record, len(fingerprints))
	for i, fp := range fingerprints {
		records[i] = Record{ID: fp, ContentFingerprint: fp}
	}
	return records
}

func TestDistinctFingerprintRatioAllDistinct(t *testing.T) {
	records := fpRecords("aaaaaaaa11", "bbbbbbbb22", "cccccccc33")
	if got := DistinctFingerprintRatio(records); got != 1.0 {
		t.Fatalf("expected ratio 1.0, got %f", got)
	}
}

func TestDistinctFingerprintRatioAllSame(t *testing.T) {
	// Same 8-char prefix, different tails.
	records := fpRecords("aaaaaaaa11", "aaaaaaaa22", "aaaaaaaa33", "aaaaaaaa44")
	got := DistinctFingerprintRatio(records)
	if got != 0.25 {
		t.Fatalf("expected ratio 0.25, got %f", got)
	}
}

func TestDistinctFingerprintRatioEmpty(t *testing.T) {
	if got := DistinctFingerprintRatio(nil); got != 0 {
		t.Fatalf("expected 0 for empty input, got %f", got)
	}
}

func TestFingerprintSimilarity(t *testing.T) {
	// 4 records, 1 distinct prefix: similarity 0.75.
	records := fpRecords("aaaaaaaa11", "aaaaaaaa22", "aaaaaaaa33", "aaaaaaaa44")
	got := FingerprintSimilarity(records)
	if math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("expected similarity 0.75, got %f", got)
	}
}

func TestFingerprintSimilarityEmpty(t *testing.T) {
	if got := FingerprintSimilarity(nil); got != 0 {
		t.Fatalf("expected 0 for empty input, got %f", got)
	}
}

func TestFingerprintPrefixShorterThanLimit(t *testing.T) {
	records := fpRecords("abc", "abc", "xyz")
	got := DistinctFingerprintRatio(records)
	want := 2.0 / 3.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected ratio %f, got %f", want, got)
	}
}
