package port

import (
	"context"
	"sync"

	"github.com/niksmo/shoplist/internal/core/domain"
)

type (
	runnerContextWg interface {
		Run(context.Context, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

// CatalogStorage is the durable mirror of the catalog.
//
// LoadCatalog reports ok=false when nothing is stored yet.
type CatalogStorage interface {
	LoadCatalog(context.Context) (ps []domain.Product, ok bool, err error)
	SaveCatalog(context.Context, []domain.Product) error
}

type SeedSource interface {
	FetchSeedCatalog(context.Context) ([]domain.Product, error)
}

type Observer func(domain.Snapshot)

type CatalogReader interface {
	Catalog() []domain.Product
	Product(id int64) (domain.Product, bool)
}

type CatalogEditor interface {
	AddProduct(context.Context, domain.Product) (domain.Product, error)
	RemoveProduct(context.Context, int64) error
}

type CartEditor interface {
	Cart() []domain.Product
	CartTotal() float64
	AddToCart(domain.Product)
	RemoveFromCart(id int64)
	ClearCart()
}

type FavoritesEditor interface {
	Favorites() []domain.Product
	Favorite(id int64) (domain.Product, bool)
	IsFavorite(id int64) bool
	ToggleFavorite(domain.Product) bool
}

type Subscriber interface {
	Subscribe(Observer) (unsubscribe func())
}

type CatalogPublisher interface {
	runnerContextWg
	closer
	Observe(domain.Snapshot)
}
