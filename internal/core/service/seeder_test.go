package service_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/niksmo/shoplist/internal/core/domain"
	"github.com/niksmo/shoplist/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSeeder(t *testing.T) {
	t.Run("EmptyStorageUsesSource", func(t *testing.T) {
		st := new(fakeStorage)
		store := service.NewStore(st)
		src := new(MockSeedSource)
		seed := []domain.Product{
			{ID: 1, Title: "Phone", Price: 200, Thumbnail: "a.png"},
		}
		src.On("FetchSeedCatalog", mock.Anything).Return(seed, nil)

		origin, err := service.NewSeeder(store, st, src).Seed(t.Context())
		require.NoError(t, err)

		assert.Equal(t, service.SeedFromSource, origin)
		assert.Equal(t, seed, store.Catalog())
		assert.Equal(t, seed, st.catalog)
		src.AssertExpectations(t)
	})

	t.Run("StoredCatalogWins", func(t *testing.T) {
		stored := []domain.Product{{ID: 5, Title: "Lamp", Price: 30}}
		st := &fakeStorage{catalog: stored, stored: true}
		store := service.NewStore(st)
		src := new(MockSeedSource)

		origin, err := service.NewSeeder(store, st, src).Seed(t.Context())
		require.NoError(t, err)

		assert.Equal(t, service.SeedFromStorage, origin)
		assert.Equal(t, stored, store.Catalog())
		src.AssertNotCalled(t, "FetchSeedCatalog", mock.Anything)
	})

	t.Run("StoredEmptyListUsesSource", func(t *testing.T) {
		st := &fakeStorage{catalog: []domain.Product{}, stored: true}
		store := service.NewStore(st)
		src := new(MockSeedSource)
		seed := []domain.Product{{ID: 9, Title: "Chair"}}
		src.On("FetchSeedCatalog", mock.Anything).Return(seed, nil)

		origin, err := service.NewSeeder(store, st, src).Seed(t.Context())
		require.NoError(t, err)
		assert.Equal(t, service.SeedFromSource, origin)
		assert.Equal(t, seed, store.Catalog())
	})

	t.Run("CorruptStorageUsesSource", func(t *testing.T) {
		st := &fakeStorage{
			loadErr: fmt.Errorf("decode: %w", domain.ErrCorruptCatalog),
		}
		store := service.NewStore(nil)
		src := new(MockSeedSource)
		seed := []domain.Product{{ID: 9, Title: "Chair"}}
		src.On("FetchSeedCatalog", mock.Anything).Return(seed, nil)

		origin, err := service.NewSeeder(store, st, src).Seed(t.Context())
		require.NoError(t, err)
		assert.Equal(t, service.SeedFromSource, origin)
		assert.Equal(t, seed, store.Catalog())
	})

	t.Run("FetchErrorLeavesCatalogEmpty", func(t *testing.T) {
		st := new(fakeStorage)
		store := service.NewStore(st)
		src := new(MockSeedSource)
		errUnreachable := errors.New("unreachable")
		src.On("FetchSeedCatalog", mock.Anything).Return(nil, errUnreachable)

		_, err := service.NewSeeder(store, st, src).Seed(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, errUnreachable)
		assert.Empty(t, store.Catalog())
		assert.False(t, st.stored)
	})

	t.Run("StorageReadError", func(t *testing.T) {
		errRead := errors.New("io")
		st := &fakeStorage{loadErr: errRead}
		src := new(MockSeedSource)

		_, err := service.NewSeeder(service.NewStore(st), st, src).Seed(t.Context())
		assert.ErrorIs(t, err, errRead)
		src.AssertNotCalled(t, "FetchSeedCatalog", mock.Anything)
	})
}
