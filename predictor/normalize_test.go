package predictor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"medscreen/asthmarisk/predictor"
)

func TestNormalizeAnswer(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text untouched", in: "6 months", want: "6 months"},
		{name: "surrounding spaces trimmed", in: "  Invalid  ", want: "Invalid"},
		{name: "full-width digits folded", in: "６ months", want: "6 months"},
		{name: "tab becomes space", in: "6\tmonths", want: "6 months"},
		{name: "trailing newline dropped", in: "Invalid\n", want: "Invalid"},
		{name: "empty stays empty", in: "", want: ""},
		{name: "only whitespace", in: " \t ", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, predictor.NormalizeAnswer(tc.in))
		})
	}
}
