package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractValue(t *testing.T) {
	tests := []struct {
		raw  string
		want []float64
	}{
		{"100", []float64{100}},
		{"-40", []float64{-40}},
		{"−40", []float64{-40}},
		{"1.5e3", []float64{1500}},
		{"1.5 × 10^3", []float64{1500}},
		{"1,200", []float64{1200}},
		{"1,200,000", []float64{1200000}},
		{"3,5", []float64{3.5}},
		{"100-120", []float64{100, 120}},
		{"120–100", []float64{100, 120}},
		{"100 to 120", []float64{100, 120}},
		{"-5--3", []float64{-5, -3}},
		{"5.2 ± 0.1", []float64{5.2}},
		{"5.2+/-0.1", []float64{5.2}},
		{"about 250", []float64{250}},
		{".5", []float64{0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ExtractValue(tt.raw)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

func TestExtractValueErrors(t *testing.T) {
	for _, raw := range []string{"", "high", "1, 2 and 3", "± 0.5"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ExtractValue(raw)
			assert.ErrorIs(t, err, ErrNoValue)
		})
	}
}

func TestExtractError(t *testing.T) {
	e, ok := ExtractError("5.2 ± 0.1")
	require.True(t, ok)
	assert.InDelta(t, 0.1, e, 1e-12)

	e, ok = ExtractError("12+/-3")
	require.True(t, ok)
	assert.InDelta(t, 3, e, 1e-12)

	_, ok = ExtractError("100-120")
	assert.False(t, ok)
}
