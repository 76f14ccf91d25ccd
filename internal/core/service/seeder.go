package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/shoplist/internal/core/domain"
	"github.com/niksmo/shoplist/internal/core/port"
)

type SeedOrigin string

const (
	SeedFromStorage SeedOrigin = "storage"
	SeedFromSource  SeedOrigin = "source"
)

// A Seeder populates the store once at startup.
//
// A stored catalog with at least one product always wins. Otherwise the seed
// source is fetched and its result written to storage through the store.
type Seeder struct {
	store   *Store
	storage port.CatalogStorage
	source  port.SeedSource
}

func NewSeeder(
	store *Store, storage port.CatalogStorage, source port.SeedSource,
) Seeder {
	return Seeder{store, storage, source}
}

func (s Seeder) Seed(ctx context.Context) (SeedOrigin, error) {
	const op = "Seeder.Seed"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	stored, ok, err := s.storage.LoadCatalog(ctx)
	switch {
	case errors.Is(err, domain.ErrCorruptCatalog):
		log.Warn("ignoring stored catalog", "err", err)
	case err != nil:
		return "", fmt.Errorf("%s: %w", op, err)
	case ok && len(stored) != 0:
		if err := s.store.SetCatalog(ctx, stored); err != nil {
			return SeedFromStorage, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("catalog loaded from storage", "nProducts", len(stored))
		return SeedFromStorage, nil
	}

	seed, err := s.source.FetchSeedCatalog(ctx)
	if err != nil {
		return SeedFromSource, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.SetCatalog(ctx, seed); err != nil {
		return SeedFromSource, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("catalog seeded from source", "nProducts", len(seed))
	return SeedFromSource, nil
}
