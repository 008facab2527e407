package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFuzzyContains(t *testing.T) {
	cases := []struct {
		text     string
		expected bool
	}{
		{text: "Trip Report: JMT in 14 days", expected: true},
		{text: "[Trip-Report] Wind River High Route", expected: true},
		{text: "Colorado trail trip reoprt", expected: true},
		{text: "Gear question about quilts", expected: false},
		{text: "", expected: false},
	}

	for _, test := range cases {
		require.Equal(t, test.expected, FuzzyContains(test.text, "trip report", 0.9), test.text)
	}
}
