package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999.49", "999"},
		{"1000", "1,000"},
		{"1234567.89", "1,234,568"},
		{"2.5", "2"},
		{"3.5", "4"},
		{"5000.01", "5,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$12,000", FormatCurrency(decimal.NewFromInt(12000)))
	assert.Equal(t, "-$250", FormatCurrency(decimal.NewFromInt(-250)))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "loan", Plural(1, "loan"))
	assert.Equal(t, "loans", Plural(0, "loan"))
	assert.Equal(t, "loans", Plural(2, "loan"))
}
