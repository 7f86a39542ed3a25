package product

import "math"

// Product is the cart's read-only view of a catalog entry.
// A nil AvailableStock means unlimited stock.
type Product struct {
	Id             string
	Name           string
	Price          *float64
	Currency       string
	AvailableStock *int
}

// UnitPrice reports false when the price is missing or not a finite number.
func (p *Product) UnitPrice() (float64, bool) {
	if p.Price == nil {
		return 0, false
	}
	price := *p.Price
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}
	return price, true
}

func (p *Product) CanSupply(quantity int) bool {
	return p.AvailableStock == nil || quantity <= *p.AvailableStock
}

type ReservationResult struct {
	Success bool
}
