package product

import (
	"errors"
	"regexp"
)

const (
	CurrencyUSD     = "USD"
	CurrencyINR     = "INR"
	DefaultCurrency = CurrencyINR

	MaxImages = 5
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

var objectIdPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type Image struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	Id        string `json:"id"`
}

// Product is a catalog entry. A nil Stock means the seller does not track stock.
type Product struct {
	Id          string  `json:"_id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       Price   `json:"price"`
	Seller      string  `json:"seller"`
	Images      []Image `json:"images"`
	Stock       *int    `json:"stock,omitempty"`
}

// IsValidId reports whether id has the 24 hex digit form of a stored id.
func IsValidId(id string) bool {
	return objectIdPattern.MatchString(id)
}

func (p *Product) OwnedBy(sellerId string) bool {
	return p.Seller == sellerId
}

// ManageableBy reports whether a caller may change p. An empty caller id is an
// anonymous request, which is only let through when auth is disabled upstream.
func (p *Product) ManageableBy(callerId string, isAdmin bool) bool {
	return callerId == "" || isAdmin || p.OwnedBy(callerId)
}
