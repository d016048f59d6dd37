package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1234.56", "1234.56"},
		{"-4.00", "-4.00"},
		{"$1,234.56", "1234.56"},
		{"-$4.00", "-4.00"},
		{"(450.00)", "-450.00"},
		{"($1,000.00)", "-1000.00"},
		{"  99.95  ", "99.95"},
		{"120.00 CR", "120.00"},
		{"120.00 DR", "-120.00"},
		{"120.00cr", "120.00"},
		{"", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d, err := CleanAmount(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.StringFixed(2))
		})
	}
}

func TestCleanAmount_Invalid(t *testing.T) {
	for _, raw := range []string{"NOTANUMBER", "$", "()", "12.34.56"} {
		_, err := CleanAmount(raw)
		assert.Error(t, err, "raw %q", raw)
	}
}
