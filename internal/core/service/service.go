package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/niksmo/shoplist/internal/core/domain"
	"github.com/niksmo/shoplist/internal/core/port"
)

var _ port.CatalogReader = (*Store)(nil)
var _ port.CatalogEditor = (*Store)(nil)
var _ port.CartEditor = (*Store)(nil)
var _ port.FavoritesEditor = (*Store)(nil)
var _ port.Subscriber = (*Store)(nil)

type subscription struct {
	id int
	fn port.Observer
}

// A Store is the single holder of the catalog, the cart and the favorites.
//
// Commands are serialized. Observers are called synchronously, in subscription
// order, before the command returns. Observers may read the store but must not
// issue commands.
type Store struct {
	cmdMu sync.Mutex
	mu    sync.RWMutex

	catalog   []domain.Product
	cart      []domain.Product
	favorites []domain.Product

	storage port.CatalogStorage
	ids     IDAssigner

	subs   []subscription
	nextID int
}

type StoreOpt func(*Store)

func IDAssignerOpt(a IDAssigner) StoreOpt {
	return func(s *Store) {
		if a != nil {
			s.ids = a
		}
	}
}

func NewStore(storage port.CatalogStorage, opts ...StoreOpt) *Store {
	s := &Store{
		storage: storage,
		ids:     NewLegacyIDAssigner(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Subscribe(fn port.Observer) func() {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription{id, fn})

	return func() {
		s.cmdMu.Lock()
		defer s.cmdMu.Unlock()
		s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool {
			return sub.id == id
		})
	}
}

func (s *Store) AddToCart(p domain.Product) {
	s.command(func() {
		s.cart = append(slices.Clip(s.cart), p)
	})
}

func (s *Store) RemoveFromCart(id int64) {
	s.command(func() {
		s.cart = removeByID(s.cart, id)
	})
}

func (s *Store) ClearCart() {
	s.command(func() {
		s.cart = nil
	})
}

// ToggleFavorite reports whether p is a favorite after the call.
func (s *Store) ToggleFavorite(p domain.Product) (favorite bool) {
	s.command(func() {
		if containsID(s.favorites, p.ID) {
			s.favorites = removeByID(s.favorites, p.ID)
			return
		}
		s.favorites = append(slices.Clip(s.favorites), p)
		favorite = true
	})
	return favorite
}

// SetCatalog replaces the catalog and writes it through to storage.
//
// The in-memory catalog is replaced even when the write fails.
func (s *Store) SetCatalog(ctx context.Context, ps []domain.Product) error {
	const op = "Store.SetCatalog"

	var saveErr error
	s.command(func() {
		s.catalog = slices.Clone(ps)
		s.ids.Observe(s.catalog)
		saveErr = s.save(ctx)
	})
	if saveErr != nil {
		return fmt.Errorf("%s: %w", op, saveErr)
	}
	return nil
}

// AddProduct appends p as a custom product with a newly assigned id.
//
// No validation is performed, see [ValidateNewProduct].
func (s *Store) AddProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "Store.AddProduct"

	var saveErr error
	s.command(func() {
		p.ID = s.ids.AssignID(s.catalog)
		p.IsCustom = true
		s.catalog = append(slices.Clip(s.catalog), p)
		saveErr = s.save(ctx)
	})
	if saveErr != nil {
		return p, fmt.Errorf("%s: %w", op, saveErr)
	}
	return p, nil
}

// RemoveProduct drops every catalog entry with the id. Cart and favorites are
// left untouched.
func (s *Store) RemoveProduct(ctx context.Context, id int64) error {
	const op = "Store.RemoveProduct"

	var saveErr error
	s.command(func() {
		s.catalog = removeByID(s.catalog, id)
		saveErr = s.save(ctx)
	})
	if saveErr != nil {
		return fmt.Errorf("%s: %w", op, saveErr)
	}
	return nil
}

func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Store) Catalog() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.catalog)
}

func (s *Store) Cart() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.cart)
}

func (s *Store) Favorites() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.favorites)
}

// Product returns the first catalog entry with the id.
func (s *Store) Product(id int64) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.catalog, func(p domain.Product) bool {
		return p.ID == id
	})
	if i < 0 {
		return domain.Product{}, false
	}
	return s.catalog[i], true
}

// Favorite returns the favorites entry with the id.
func (s *Store) Favorite(id int64) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.favorites, func(p domain.Product) bool {
		return p.ID == id
	})
	if i < 0 {
		return domain.Product{}, false
	}
	return s.favorites[i], true
}

func (s *Store) IsFavorite(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return containsID(s.favorites, id)
}

func (s *Store) CartTotal() (total float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.cart {
		total += p.Price
	}
	return total
}

// command runs mutate under the write lock, then notifies observers.
func (s *Store) command(mutate func()) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	s.mu.Lock()
	mutate()
	snap := s.snapshot()
	s.mu.Unlock()

	for _, sub := range s.subs {
		sub.fn(snap)
	}
}

// save is called with mu held.
func (s *Store) save(ctx context.Context) error {
	const op = "Store.save"
	log := slog.With("op", op)

	if s.storage == nil {
		return nil
	}
	if err := s.storage.SaveCatalog(ctx, s.catalog); err != nil {
		log.Error("failed to write catalog", "err", err)
		return err
	}
	log.Debug("catalog written", "nProducts", len(s.catalog))
	return nil
}

func (s *Store) snapshot() domain.Snapshot {
	return domain.Snapshot{
		Catalog:   slices.Clone(s.catalog),
		Cart:      slices.Clone(s.cart),
		Favorites: slices.Clone(s.favorites),
	}
}

func removeByID(ps []domain.Product, id int64) []domain.Product {
	if !containsID(ps, id) {
		return ps
	}
	out := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func containsID(ps []domain.Product, id int64) bool {
	return slices.ContainsFunc(ps, func(p domain.Product) bool {
		return p.ID == id
	})
}
