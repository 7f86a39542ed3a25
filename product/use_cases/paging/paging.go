package paging

import (
	"strconv"
	"strings"

	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/product/domain/product"
)

// Page parses raw skip and limit query values. Empty values fall back to
// 0 and the default limit; limits above the maximum are clamped.
func Page(rawSkip, rawLimit string) (skip, limit int, err error) {
	limit = product.DefaultLimit
	if s := strings.TrimSpace(rawSkip); s != "" {
		skip, err = strconv.Atoi(s)
		if err != nil || skip < 0 {
			return 0, 0, infra.NewValidationError("skip must be a non-negative integer")
		}
	}
	if s := strings.TrimSpace(rawLimit); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 1 {
			return 0, 0, infra.NewValidationError("limit must be a positive integer")
		}
	}
	if limit > product.MaxLimit {
		limit = product.MaxLimit
	}
	return skip, limit, nil
}

// Bound parses an optional price bound. Empty means open.
func Bound(name, raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, infra.NewValidationError(name + " must be a number")
	}
	return &v, nil
}
