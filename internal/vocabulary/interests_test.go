package vocabulary_test

import (
	"testing"

	"trip_planner/internal/vocabulary"
)

func TestTranslate_KnownLabels(t *testing.T) {
	labels, codes := vocabulary.Labels(), vocabulary.Codes()
	if len(labels) != len(codes) || len(labels) == 0 {
		t.Fatalf("labels/codes mismatch: %d vs %d", len(labels), len(codes))
	}
	for i, l := range labels {
		if got := vocabulary.Translate(l); got != codes[i] {
			t.Fatalf("Translate(%q) = %q, want %q", l, got, codes[i])
		}
	}
}

func TestTranslate_UnknownPassesThrough(t *testing.T) {
	for _, in := range []string{"", "art", "theatre", "Arte", "  música"} {
		if got := vocabulary.Translate(in); got != in {
			t.Fatalf("Translate(%q) = %q, want identity", in, got)
		}
	}
}

func TestVocabulary_IsOneToOne(t *testing.T) {
	seenL, seenC := map[string]bool{}, map[string]bool{}
	for i, l := range vocabulary.Labels() {
		c := vocabulary.Codes()[i]
		if seenL[l] || seenC[c] {
			t.Fatalf("duplicate entry %q -> %q", l, c)
		}
		seenL[l], seenC[c] = true, true
	}
}

func TestTranslateAll(t *testing.T) {
	got := vocabulary.TranslateAll([]string{"arte", "música", "tennis"})
	want := []string{"art", "music", "tennis"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
