package score

// Tier is a categorical band of the score.
type Tier string

// Tiers from best to worst.
const (
	TierExcellent Tier = "excellent"
	TierStable    Tier = "stable"
	TierRiskZone  Tier = "riskZone"
	TierCritical  Tier = "critical"
)

// Lower bounds (inclusive) of each tier.
const (
	ThresholdExcellent = 80.0
	ThresholdStable    = 60.0
	ThresholdRiskZone  = 40.0
)

// Classify maps a score to its tier.
func Classify(score float64) Tier {
	switch {
	case score >= ThresholdExcellent:
		return TierExcellent
	case score >= ThresholdStable:
		return TierStable
	case score >= ThresholdRiskZone:
		return TierRiskZone
	default:
		return TierCritical
	}
}

// Rank orders tiers: 3 for excellent down to 0 for critical, -1 if unknown.
func (t Tier) Rank() int {
	switch t {
	case TierExcellent:
		return 3
	case TierStable:
		return 2
	case TierRiskZone:
		return 1
	case TierCritical:
		return 0
	}
	return -1
}
