package service

import (
	"strings"

	"github.com/niksmo/shoplist/internal/core/domain"
)

// FilterCatalog keeps catalog order. An empty query matches everything.
func FilterCatalog(
	catalog []domain.Product, f domain.CatalogFilter,
) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]domain.Product, 0, len(catalog))
	for _, p := range catalog {
		if f.CustomOnly && !p.IsCustom {
			continue
		}
		if q != "" && !matches(p, q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(p domain.Product, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(p.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(p.Description), lowerQuery)
}
