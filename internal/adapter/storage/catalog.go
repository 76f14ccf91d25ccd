package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/niksmo/shoplist/internal/core/domain"
	"github.com/niksmo/shoplist/internal/core/port"
)

var _ port.CatalogStorage = (*CatalogRepository)(nil)

// product is the stored record shape.
type product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Thumbnail   string  `json:"thumbnail"`
	Description string  `json:"description,omitempty"`
	IsCustom    bool    `json:"isCustom,omitempty"`
}

// CatalogRepository writes the whole catalog as one JSON array under a
// single key.
type CatalogRepository struct {
	kv  KV
	key string
}

func NewCatalogRepository(kv KV, key string) CatalogRepository {
	if key == "" {
		key = DefaultCatalogKey
	}
	return CatalogRepository{kv, key}
}

func (r CatalogRepository) LoadCatalog(
	ctx context.Context,
) ([]domain.Product, bool, error) {
	const op = "CatalogRepository.LoadCatalog"

	v, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, false, nil
	}

	var records []product
	if err := json.Unmarshal([]byte(v), &records); err != nil {
		return nil, false, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrCorruptCatalog, err,
		)
	}

	return r.toDomain(records), true, nil
}

func (r CatalogRepository) SaveCatalog(
	ctx context.Context, ps []domain.Product,
) error {
	const op = "CatalogRepository.SaveCatalog"

	b, err := json.Marshal(r.toRecords(ps))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.kv.Set(ctx, r.key, string(b)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (CatalogRepository) toRecords(ps []domain.Product) []product {
	records := make([]product, len(ps))
	for i, p := range ps {
		records[i] = product(p)
	}
	return records
}

func (CatalogRepository) toDomain(records []product) []domain.Product {
	ps := make([]domain.Product, len(records))
	for i, v := range records {
		ps[i] = domain.Product(v)
	}
	return ps
}
