package services

import "testing"

func TestTierForPercentage(t *testing.T) {
	cases := []struct {
		pct  float64
		want MatchTier
	}{
		{100, TierSuperMatch},
		{90, TierSuperMatch},
		{89.9, TierGoodMatch},
		{80, TierGoodMatch},
		{79.9, TierMatch},
		{50, TierMatch},
		{49.9, TierMaybeMatch},
		{30, TierMaybeMatch},
		{29.9, TierNoMatch},
		{0, TierNoMatch},
	}
	for _, c := range cases {
		if got := TierForPercentage(c.pct); got != c.want {
			t.Fatalf("TierForPercentage(%v) = %s, want %s", c.pct, got, c.want)
		}
	}
}
