package predictor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"medscreen/asthmarisk/predictor"
)

func TestCategorizeRisk(t *testing.T) {
	cases := []struct {
		name  string
		score float64
		want  predictor.RiskLevel
	}{
		{name: "zero", score: 0, want: predictor.RiskNone},
		{name: "just below low cut", score: 0.19999, want: predictor.RiskNone},
		{name: "exactly low cut", score: 0.20, want: predictor.RiskLow},
		{name: "mid band", score: 0.35, want: predictor.RiskLow},
		{name: "just below high cut", score: 0.49999, want: predictor.RiskLow},
		{name: "exactly high cut", score: 0.50, want: predictor.RiskHigh},
		{name: "high band", score: 0.62, want: predictor.RiskHigh},
		{name: "certain", score: 1, want: predictor.RiskHigh},
		{name: "negative clamps to none", score: -0.1, want: predictor.RiskNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, predictor.CategorizeRisk(tc.score))
		})
	}
}

func TestRiskLevelDisplay(t *testing.T) {
	assert.Equal(t, "green", predictor.RiskNone.Color())
	assert.Equal(t, "yellow", predictor.RiskLow.Color())
	assert.Equal(t, "red", predictor.RiskHigh.Color())

	assert.Equal(t, 0, predictor.RiskNone.Severity())
	assert.Equal(t, 1, predictor.RiskLow.Severity())
	assert.Equal(t, 2, predictor.RiskHigh.Severity())
}

func TestRiskLevelLabels(t *testing.T) {
	assert.Equal(t, "NO RISK", string(predictor.RiskNone))
	assert.Equal(t, "LOW RISK", string(predictor.RiskLow))
	assert.Equal(t, "HIGH RISK", string(predictor.RiskHigh))
}
