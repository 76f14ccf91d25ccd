package service_test

import (
	"testing"

	"github.com/niksmo/shoplist/internal/core/domain"
	"github.com/niksmo/shoplist/internal/core/service"
	"github.com/stretchr/testify/assert"
)

func TestFilterCatalog(t *testing.T) {
	catalog := []domain.Product{
		{ID: 1, Title: "iPhone 9", Description: "An apple mobile"},
		{ID: 2, Title: "Mug", IsCustom: true},
		{ID: 3, Title: "Samsung Phone"},
		{ID: 1003, Title: "Tea", Description: "green, in a PHONE box", IsCustom: true},
	}

	ids := func(ps []domain.Product) (out []int64) {
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []int64{1, 2, 3, 1003},
		ids(service.FilterCatalog(catalog, domain.CatalogFilter{})))

	assert.Equal(t, []int64{1, 3, 1003},
		ids(service.FilterCatalog(catalog, domain.CatalogFilter{Query: " phone "})))

	assert.Equal(t, []int64{2, 1003},
		ids(service.FilterCatalog(catalog, domain.CatalogFilter{CustomOnly: true})))

	assert.Equal(t, []int64{1003},
		ids(service.FilterCatalog(catalog, domain.CatalogFilter{
			Query: "Phone", CustomOnly: true,
		})))

	assert.Empty(t, service.FilterCatalog(catalog, domain.CatalogFilter{Query: "chair"}))
}
