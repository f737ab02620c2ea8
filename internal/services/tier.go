package services

// MatchTier buckets a compatibility percentage. Tiers are ordered from most
// to least compatible; noMatch candidates are dropped from all results.
type MatchTier string

const (
	TierSuperMatch MatchTier = "superMatch"
	TierGoodMatch  MatchTier = "goodMatch"
	TierMatch      MatchTier = "match"
	TierMaybeMatch MatchTier = "maybeMatch"
	TierNoMatch    MatchTier = "noMatch"
)

// TierForPercentage classifies a percentage using inclusive lower bounds:
// 90 superMatch, 80 goodMatch, 50 match, 30 maybeMatch, otherwise noMatch.
func TierForPercentage(pct float64) MatchTier {
	switch {
	case pct >= 90:
		return TierSuperMatch
	case pct >= 80:
		return TierGoodMatch
	case pct >= 50:
		return TierMatch
	case pct >= 30:
		return TierMaybeMatch
	default:
		return TierNoMatch
	}
}
