package record

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	r := temperature("5").
		MustSet("value", []float64{4, 6}).
		MustSet("compound", compound("benzene", "C6H6"))

	tests := []struct {
		path string
		want any
	}{
		{"raw_value", "5"},
		{"value.1", 6.0},
		{"compound.names.0", "C6H6"},
		{"compound.names.1", "benzene"},
		{"compound.labels", nil},
		{"apparatus.name", nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := r.Lookup(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupErrors(t *testing.T) {
	r := temperature("5").MustSet("compound", compound("benzene"))

	tests := []struct {
		path    string
		want    error
		errPath string
	}{
		{"melting", ErrUnknownField, "melting"},
		{"compound.formula", ErrUnknownField, "compound.formula"},
		{"compound.names.3", ErrIndexOutOfRange, "compound.names.3"},
		{"compound.names.first", ErrNotTraversable, "compound.names.first"},
		{"raw_value.x", ErrNotTraversable, "raw_value.x"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := r.Lookup(tt.path)
			assert.ErrorIs(t, err, tt.want)

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.errPath, fe.Path)
			assert.Equal(t, "Temperature", fe.Schema)
		})
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	r := temperature("5").MustSet("compound", compound("A"))
	got, err := r.Lookup("compound")
	require.NoError(t, err)

	got.(*Record).MustSet("labels", []string{"9"})
	assert.False(t, r.Model("compound").Has("labels"))
}
