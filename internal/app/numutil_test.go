package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBounded(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		want    float64
		wantErr bool
	}{
		{name: "plain number", text: "70", want: 70},
		{name: "decimal", text: "70.5", want: 70.5},
		{name: "surrounding spaces", text: " 70 ", want: 70},
		{name: "lower bound", text: "1", want: 1},
		{name: "upper bound", text: "200", want: 200},
		{name: "below range", text: "0.5", wantErr: true},
		{name: "above range", text: "201", wantErr: true},
		{name: "not a number", text: "seventy", wantErr: true},
		{name: "nan rejected", text: "NaN", wantErr: true},
		{name: "lowercase nan rejected", text: "nan", wantErr: true},
		{name: "infinity rejected", text: "Inf", wantErr: true},
		{name: "empty", text: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseBounded(tc.text, 1, 200, "weight")
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "weight")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "70", formatNumber(70))
	assert.Equal(t, "170.5", formatNumber(170.5))
}
