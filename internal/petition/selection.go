package petition

import (
	"errors"
	"net/url"
	"strings"
)

// DefaultID is shown when the page is opened without a petition selected.
const DefaultID = "241584"

// ErrInvalidID is returned for ids that are not a positive decimal number.
var ErrInvalidID = errors.New("invalid petition id")

// ValidID reports whether id is safe to embed in a request path.
func ValidID(id string) bool {
	if id == "" || len(id) > 12 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SelectedID picks the petition from a page's raw query string, which holds
// the bare id with no key ("?241584"). Blank or invalid values give fallback.
func SelectedID(rawQuery, fallback string) string {
	q := strings.TrimSpace(strings.TrimPrefix(rawQuery, "?"))
	if unescaped, err := url.QueryUnescape(q); err == nil {
		q = strings.TrimSpace(unescaped)
	}
	if ValidID(q) {
		return q
	}
	return fallback
}
