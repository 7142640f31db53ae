package model

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	valid := []struct {
		in   string
		want int64
	}{
		{"25", 2500},
		{"25.5", 2550},
		{"25.50", 2550},
		{"0", 0},
		{"0.05", 5},
		{" 75.00 ", 7500},
	}
	for _, c := range valid {
		got, err := ParseAmount(c.in)
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", c.in, got, c.want)
		}
	}

	invalid := []string{"", "-1", "+1", "1.234", "abc", "1.2.3", ".50", "1,50"}
	for _, in := range invalid {
		if _, err := ParseAmount(in); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ParseAmount(%q): expected ErrInvalidAmount, got %v", in, err)
		}
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{7500, "75.00"},
		{2550, "25.50"},
		{5, "0.05"},
		{0, "0.00"},
		{-150, "-1.50"},
	}
	for _, c := range cases {
		if got := FormatCents(c.in); got != c.want {
			t.Errorf("FormatCents(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
