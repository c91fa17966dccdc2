package app

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ratemymusic/rmm-api/internal/store"
)

// normalizeName composes a stored name into NFC so that visually identical
// names compare equal in substring searches.
func normalizeName(s string) string {
	return norm.NFC.String(s)
}

// searchTerm prepares user input for a contains match. The store folds case.
func searchTerm(q string) string {
	return norm.NFC.String(strings.TrimSpace(q))
}

// Paging is a 1-based page request. A zero Page disables pagination.
type Paging struct {
	Page     int
	PageSize int
}

func (p Paging) storePage() store.Page {
	if p.Page <= 0 || p.PageSize <= 0 {
		return store.Page{}
	}
	return store.Page{Limit: p.PageSize, Offset: (p.Page - 1) * p.PageSize}
}
