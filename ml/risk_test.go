package ml

import "testing"

func TestTierBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  RiskTier
	}{
		{0, TierVeryLow},
		{24.999, TierVeryLow},
		{25, TierLow},
		{49.999, TierLow},
		{50, TierModerate},
		{74.999, TierModerate},
		{75, TierHigh},
		{100, TierHigh},
	}
	for _, tc := range cases {
		if got := Tier(tc.score); got != tc.want {
			t.Fatalf("Tier(%g) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
