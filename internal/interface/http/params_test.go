package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfalcone/stockx/internal/application"
)

func TestParseShares(t *testing.T) {
	n, err := ParseShares("10")
	require.NoError(t, err)
	assert.EqualValues(t, 10, n)

	n, err = ParseShares("0042")
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)

	for _, raw := range []string{"", "0", "000", "-1", "+1", "1.5", " 1", "1 ", "abc", "1e3", "9999999999999"} {
		_, err := ParseShares(raw)
		assert.ErrorIs(t, err, application.ErrInvalidQuantity, "input %q", raw)
	}
}

func TestParseAmount(t *testing.T) {
	for raw, want := range map[string]string{
		"250":   "250",
		"99.5":  "99.5",
		"0.01":  "0.01",
		"10.25": "10.25",
	} {
		d, err := ParseAmount(raw)
		require.NoError(t, err, "input %q", raw)
		assert.Equal(t, want, d.String(), "input %q", raw)
	}

	for _, raw := range []string{"", "0", "-5", "+5", "1.234", "1e2", "abc", ".", "1.2.3", " 10", "$10"} {
		_, err := ParseAmount(raw)
		assert.ErrorIs(t, err, application.ErrInvalidAmount, "input %q", raw)
	}
}
