package payment

import "github.com/matchtix/stadium-ticketing/internal/model"

// ResolvePrice computes the total due for a number of tickets of one
// category on a programme. Category A uses the programme's A tier price,
// category B the B tier. Arithmetic is in integer cents, so the result is
// exact; "round(amount*100)" minor-unit conversion is a no-op here because
// cents already are the minor unit. Pure function, no side effects.
func ResolvePrice(p *model.Programme, category model.TicketCategory, quantity uint32) (int64, error) {
	if quantity == 0 {
		return 0, ErrInvalidQuantity
	}
	var unit int64
	switch category {
	case model.CategoryA:
		unit = p.PriceACents
	case model.CategoryB:
		unit = p.PriceBCents
	default:
		return 0, ErrInvalidCategory
	}
	return unit * int64(quantity), nil
}
