package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHumanDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "a few seconds"},
		{30, "a few seconds"},
		{44, "a few seconds"},
		{45, "a minute"},
		{89, "a minute"},
		{90, "2 minutes"},
		{600, "10 minutes"},
		{44 * 60, "44 minutes"},
		{45 * 60, "an hour"},
		{3600, "an hour"},
		{89 * 60, "an hour"},
		{90 * 60, "2 hours"},
		{7200, "2 hours"},
		{21 * 3600, "21 hours"},
		{22 * 3600, "a day"},
		{86400, "a day"},
		{35 * 3600, "a day"},
		{36 * 3600, "2 days"},
		{3 * 86400, "3 days"},
		{25 * 86400, "25 days"},
		{26 * 86400, "a month"},
		{45 * 86400, "a month"},
		{46 * 86400, "2 months"},
		{300 * 86400, "10 months"},
		{365 * 86400, "a year"},
		{800 * 86400, "2 years"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, HumanDuration(tc.seconds), "seconds=%d", tc.seconds)
	}
}
