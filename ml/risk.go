package ml

// RiskTier is a coarse human-facing bucket for a risk score.
type RiskTier string

const (
	TierVeryLow  RiskTier = "very-low"
	TierLow      RiskTier = "low"
	TierModerate RiskTier = "moderate"
	TierHigh     RiskTier = "high"
)

// Tier maps a risk score on [0,100] to its tier. Boundaries are half-open:
// [0,25) very-low, [25,50) low, [50,75) moderate, [75,100] high.
func Tier(score float64) RiskTier {
	switch {
	case score < 25:
		return TierVeryLow
	case score < 50:
		return TierLow
	case score < 75:
		return TierModerate
	default:
		return TierHigh
	}
}
