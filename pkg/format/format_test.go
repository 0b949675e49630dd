package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurrency(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want string
	}{
		{"billions", 1_230_000_000, "$1.23B"},
		{"millions", 45_600_000, "$45.60M"},
		{"thousands", 7_890, "$7.89K"},
		{"plain", 0.42, "$0.42"},
		{"zero", 0, "$0.00"},
		{"base_total", 122_954_000, "$122.95M"},
		{"boundary_thousand", 1_000, "$1.00K"},
		{"boundary_million", 1_000_000, "$1.00M"},
		{"boundary_billion", 1_000_000_000, "$1.00B"},
		{"negative_millions", -43_904_000, "-$43.90M"},
		{"negative_plain", -0.42, "-$0.42"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Currency(tc.in))
		})
	}
}

func TestPercent(t *testing.T) {
	require.Equal(t, "5.49%", Percent(5.488))
	require.Equal(t, "43.90%", Percent(43.904))
	require.Equal(t, "0.00%", Percent(0))
	require.Equal(t, "-12.50%", Percent(-12.5))
}
