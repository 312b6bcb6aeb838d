package quiz

import (
	"errors"
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"42", 42},
		{"-15", -15},
		{"3.5", 3.5},
		{"1,200", 1200},
		{"50,000", 50000},
		{"1.2k", 1200},
		{"50k", 50000},
		{"12%", 0.12},
		{"40%", 0.40},
		{"  380  ", 380},
		{"about 7500 units", 7500},
		{"$2.5 per unit", 2.5},
		{"roughly 15%", 0.15},
	}
	for _, tt := range tests {
		got, err := ParseNumber(tt.in)
		if err != nil {
			t.Errorf("ParseNumber(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseNumberNoNumber(t *testing.T) {
	for _, in := range []string{"", "   ", "no idea", "???"} {
		if _, err := ParseNumber(in); !errors.Is(err, ErrNoNumber) {
			t.Errorf("ParseNumber(%q) error = %v, want ErrNoNumber", in, err)
		}
	}
}
