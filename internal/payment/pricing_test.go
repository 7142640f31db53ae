package payment

import (
	"errors"
	"testing"

	"github.com/matchtix/stadium-ticketing/internal/model"
)

func TestResolvePrice(t *testing.T) {
	prog := &model.Programme{
		ID:          1,
		Equipe1:     "PSG",
		Equipe2:     "OM",
		PriceACents: 2500, // 25.00 per category A ticket
		PriceBCents: 1500, // 15.00 per category B ticket
	}

	t.Run("category A times quantity", func(t *testing.T) {
		total, err := ResolvePrice(prog, model.CategoryA, 3)
		if err != nil {
			t.Fatalf("ResolvePrice: %v", err)
		}
		if total != 7500 {
			t.Errorf("expected 7500 cents, got %d", total)
		}
	})

	t.Run("category B times quantity", func(t *testing.T) {
		total, err := ResolvePrice(prog, model.CategoryB, 2)
		if err != nil {
			t.Fatalf("ResolvePrice: %v", err)
		}
		if total != 3000 {
			t.Errorf("expected 3000 cents, got %d", total)
		}
	})

	t.Run("single ticket", func(t *testing.T) {
		total, err := ResolvePrice(prog, model.CategoryA, 1)
		if err != nil {
			t.Fatalf("ResolvePrice: %v", err)
		}
		if total != 2500 {
			t.Errorf("expected 2500 cents, got %d", total)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		if _, err := ResolvePrice(prog, model.TicketCategory("C"), 1); !errors.Is(err, ErrInvalidCategory) {
			t.Errorf("expected ErrInvalidCategory, got %v", err)
		}
	})

	t.Run("zero quantity", func(t *testing.T) {
		if _, err := ResolvePrice(prog, model.CategoryA, 0); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("expected ErrInvalidQuantity, got %v", err)
		}
	})
}

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want model.TicketCategory
		ok   bool
	}{
		{"A", model.CategoryA, true},
		{"b", model.CategoryB, true},
		{" a ", model.CategoryA, true},
		{"C", "", false},
		{"", "", false},
		{"AB", "", false},
	}
	for _, c := range cases {
		got, ok := model.ParseCategory(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseCategory(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
