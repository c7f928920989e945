package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUSD(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"1234.5", "$1,234.50"},
		{"9500", "$9,500.00"},
		{"1000000.99", "$1,000,000.99"},
		{"-42.1", "-$42.10"},
	}
	for _, c := range cases {
		d, err := decimal.NewFromString(c.in)
		assert.NoError(t, err)
		assert.Equal(t, c.want, USD(d), "USD(%s)", c.in)
	}
}

func TestWholeCents(t *testing.T) {
	ok, _ := decimal.NewFromString("10.25")
	bad, _ := decimal.NewFromString("10.255")
	assert.True(t, WholeCents(ok))
	assert.True(t, WholeCents(decimal.NewFromInt(50)))
	assert.False(t, WholeCents(bad))
}
