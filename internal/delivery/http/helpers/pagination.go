package helpers

import (
	"net/http"
	"strconv"

	"speaks/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ParsePage reads offset and limit from the request query string, clamps them
// to valid ranges, and returns a domain.PageRequest. Invalid or missing
// values fall back to defaults.
func ParsePage(r *http.Request) domain.PageRequest {
	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}
	limit := DefaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			limit = v
			if limit > MaxLimit {
				limit = MaxLimit
			}
		}
	}
	return domain.PageRequest{Offset: offset, Limit: limit}
}
