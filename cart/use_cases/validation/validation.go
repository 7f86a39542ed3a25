package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/giovaniif/fusion-store/infra"
)

const (
	msgProductIdRequired = "productId is required"
	msgQuantityInteger   = "quantity must be an integer"
	msgQuantityPositive  = "quantity must be greater than zero"
	msgQuantityNotNeg    = "quantity must be zero or greater"
)

func ProductId(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", infra.NewValidationError(msgProductIdRequired)
	}
	return s, nil
}

// Quantity accepts JSON numbers and numeric strings without a fractional part.
func Quantity(raw any, allowZero bool) (int, error) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, infra.NewValidationError(msgQuantityInteger)
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, infra.NewValidationError(msgQuantityInteger)
		}
		f = parsed
	default:
		return 0, infra.NewValidationError(msgQuantityInteger)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, infra.NewValidationError(msgQuantityInteger)
	}
	q := int(f)
	if !allowZero && q <= 0 {
		return 0, infra.NewValidationError(msgQuantityPositive)
	}
	if allowZero && q < 0 {
		return 0, infra.NewValidationError(msgQuantityNotNeg)
	}
	return q, nil
}
