package predictor

// RiskLevel labels a classifier probability for display.
type RiskLevel string

const (
	// RiskNone covers probabilities below the low-risk cut point.
	RiskNone RiskLevel = "NO RISK"
	// RiskLow covers probabilities from the low cut point up to the high one.
	RiskLow RiskLevel = "LOW RISK"
	// RiskHigh covers probabilities at or above the high cut point.
	RiskHigh RiskLevel = "HIGH RISK"
)

// Cut points fixed at model delivery time, exclusive on the lower band.
const (
	lowRiskThreshold  = 0.20
	highRiskThreshold = 0.50
)

// CategorizeRisk maps a probability onto the fixed risk bands. Exactly 0.20
// is low risk and exactly 0.50 is high risk.
func CategorizeRisk(score float64) RiskLevel {
	switch {
	case score >= highRiskThreshold:
		return RiskHigh
	case score >= lowRiskThreshold:
		return RiskLow
	default:
		return RiskNone
	}
}

// Color names the display treatment associated with the level.
func (l RiskLevel) Color() string {
	switch l {
	case RiskHigh:
		return "red"
	case RiskLow:
		return "yellow"
	default:
		return "green"
	}
}

// Severity orders levels from 0 (no risk) to 2 (high risk).
func (l RiskLevel) Severity() int {
	switch l {
	case RiskHigh:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}
