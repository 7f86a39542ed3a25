package product

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidPriceFormat = errors.New("Invalid price format. Expected JSON string.")
	ErrPriceRequired      = errors.New("Price information is required.")
	ErrInvalidAmount      = errors.New("Price amount must be a non-negative number")
	ErrInvalidCurrency    = errors.New("Currency must be one of USD, INR")
)

// PriceFields carries the raw price inputs of a create request: either a
// price value (a JSON string or an object) or flat amount and currency fields.
type PriceFields struct {
	Price    any
	Amount   any
	Currency any
}

func ParsePrice(fields PriceFields) (Price, error) {
	switch raw := fields.Price.(type) {
	case string:
		if strings.TrimSpace(raw) != "" {
			var parsed map[string]any
			if err := json.Unmarshal([]byte(raw), &parsed); err != nil || parsed == nil {
				return Price{}, ErrInvalidPriceFormat
			}
			return buildPrice(parsed["amount"], parsed["currency"])
		}
	case map[string]any:
		return buildPrice(raw["amount"], raw["currency"])
	}

	if fields.Amount != nil {
		return buildPrice(fields.Amount, fields.Currency)
	}
	return Price{}, ErrPriceRequired
}

func buildPrice(rawAmount, rawCurrency any) (Price, error) {
	amount, ok := toNumber(rawAmount)
	if !ok || amount < 0 {
		return Price{}, ErrInvalidAmount
	}
	currency, err := ParseCurrency(rawCurrency)
	if err != nil {
		return Price{}, err
	}
	return Price{Amount: amount, Currency: currency}, nil
}

// ParseCurrency defaults an empty currency to INR.
func ParseCurrency(raw any) (string, error) {
	if raw == nil {
		return DefaultCurrency, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", ErrInvalidCurrency
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultCurrency, nil
	}
	if s != CurrencyUSD && s != CurrencyINR {
		return "", ErrInvalidCurrency
	}
	return s, nil
}

// ParseAmount validates a standalone amount, as sent by partial updates.
func ParseAmount(raw any) (float64, error) {
	amount, ok := toNumber(raw)
	if !ok || amount < 0 {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

func toNumber(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
