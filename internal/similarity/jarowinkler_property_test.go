package similarity

import (
	"testing"

	"pgregory.net/rapid"
)

func TestJaroWinklerBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s1 := rapid.StringMatching(`[a-z0-9:-]{0,20}`).Draw(t, "s1")
		s2 := rapid.StringMatching(`[a-z0-9:-]{0,20}`).Draw(t, "s2")

		score := JaroWinkler(s1, s2)
		if score < 0.0 || score > 1.0 {
			t.Fatalf("score out of bounds: JaroWinkler(%q, %q) = %v", s1, s2, score)
		}
	})
}

func TestJaroWinklerIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[a-z0-9:-]{0,20}`).Draw(t, "s")
		if got := JaroWinkler(s, s); got != 1.0 {
			t.Fatalf("JaroWinkler(%q, %q) = %v, want 1.0", s, s, got)
		}
	})
}

func TestJaroWinklerSymmetry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s1 := rapid.StringMatching(`[a-z0-9:-]{0,20}`).Draw(t, "s1")
		s2 := rapid.StringMatching(`[a-z0-9:-]{0,20}`).Draw(t, "s2")

		if a, b := JaroWinkler(s1, s2), JaroWinkler(s2, s1); a != b {
			t.Fatalf("asymmetric: JaroWinkler(%q, %q) = %v, reversed = %v", s1, s2, a, b)
		}
	})
}
