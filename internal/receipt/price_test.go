package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     float64
		wantOK   bool
	}{
		{
			name:     "indonesian with dot grouping",
			fragment: "Rp 15.000",
			want:     15000,
			wantOK:   true,
		},
		{
			name:     "indonesian millions",
			fragment: "Rp 1.234.567",
			want:     1234567,
			wantOK:   true,
		},
		{
			name:     "indonesian with comma decimal",
			fragment: "Rp 15.000,50",
			want:     15000.50,
			wantOK:   true,
		},
		{
			name:     "indonesian lowercase marker",
			fragment: "rp 88.000",
			want:     88000,
			wantOK:   true,
		},
		{
			name:     "idr marker",
			fragment: "IDR 25.000",
			want:     25000,
			wantOK:   true,
		},
		{
			name:     "marker not adjacent to digits",
			fragment: "Total (Rp): 42.500",
			want:     42500,
			wantOK:   true,
		},
		{
			name:     "western with dollar sign",
			fragment: "$14.99",
			want:     14.99,
			wantOK:   true,
		},
		{
			name:     "western with comma grouping",
			fragment: "$1,234.56",
			want:     1234.56,
			wantOK:   true,
		},
		{
			name:     "western comma grouping no symbol",
			fragment: "1,234.56",
			want:     1234.56,
			wantOK:   true,
		},
		{
			name:     "ungrouped four digit amount",
			fragment: "1234.56",
			want:     1234.56,
			wantOK:   true,
		},
		{
			name:     "ungrouped round amount",
			fragment: "1050.00",
			want:     1050,
			wantOK:   true,
		},
		{
			name:     "ungrouped integer amount",
			fragment: "12345",
			want:     12345,
			wantOK:   true,
		},
		{
			name:     "bare number",
			fragment: "42.50",
			want:     42.50,
			wantOK:   true,
		},
		{
			name:     "bare integer",
			fragment: "199",
			want:     199,
			wantOK:   true,
		},
		{
			name:     "no digits at all",
			fragment: "THANK YOU",
			want:     0,
			wantOK:   false,
		},
		{
			name:     "empty fragment",
			fragment: "",
			want:     0,
			wantOK:   false,
		},
		{
			name:     "marker with no digits",
			fragment: "Harga dalam Rp",
			want:     0,
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractPrice(tt.fragment)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

// A fragment with an Rp marker must never be parsed as a Western decimal:
// "Rp 88.000" is eighty-eight thousand rupiah, not 88.
func TestExtractPriceIndonesianShortCircuit(t *testing.T) {
	got, ok := ExtractPrice("Rp 88.000")
	assert.True(t, ok)
	assert.InDelta(t, 88000.0, got, 0.001)
}
