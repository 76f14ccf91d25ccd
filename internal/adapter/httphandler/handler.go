package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/niksmo/shoplist/internal/core/domain"
	"github.com/niksmo/shoplist/internal/core/port"
	"github.com/niksmo/shoplist/internal/core/service"
	"github.com/spf13/cast"
)

// GET    v1/catalog?q=text&custom=true (200 OK)
// POST   v1/catalog JSON NewProduct (201 Created, 400 Bad request, 503 stored in memory only)
// DELETE v1/catalog/{id} (204 No content)

type CatalogHandler struct {
	reader    port.CatalogReader
	editor    port.CatalogEditor
	favorites port.FavoritesEditor
}

func RegisterCatalog(
	mux *http.ServeMux,
	reader port.CatalogReader,
	editor port.CatalogEditor,
	favorites port.FavoritesEditor,
) {
	h := CatalogHandler{reader, editor, favorites}
	mux.HandleFunc("GET /v1/catalog", h.GetCatalog)
	mux.HandleFunc("POST /v1/catalog", h.PostProduct)
	mux.HandleFunc("DELETE /v1/catalog/{id}", h.DeleteProduct)
}

func (h CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCatalog"
	log := slog.With("op", op)

	f := domain.CatalogFilter{
		Query:      r.URL.Query().Get("q"),
		CustomOnly: cast.ToBool(r.URL.Query().Get("custom")),
	}

	ps := service.FilterCatalog(h.reader.Catalog(), f)
	writeJSON(w, log, http.StatusOK, toProducts(ps, h.favorites))
}

func (h CatalogHandler) PostProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.PostProduct"
	log := slog.With("op", op)

	var np NewProduct
	if err := json.NewDecoder(r.Body).Decode(&np); err != nil {
		writeError(w, log, http.StatusBadRequest, "invalid JSON data", nil)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	dp := np.toDomain()
	if err := service.ValidateNewProduct(dp); err != nil {
		writeError(w, log, http.StatusBadRequest, "invalid product", reasons(err))
		log.Info("product rejected", "err", err)
		return
	}

	stored, err := h.editor.AddProduct(r.Context(), dp)
	if err != nil {
		writeError(
			w, log, http.StatusServiceUnavailable,
			"product added but not persisted", nil,
		)
		log.Error("failed to persist catalog", "err", err)
		return
	}

	writeJSON(w, log, http.StatusCreated, toProduct(stored, false))
	log.Info("product added", "id", stored.ID)
}

func (h CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.DeleteProduct"
	log := slog.With("op", op)

	id, ok := pathID(w, r, log)
	if !ok {
		return
	}

	if err := h.editor.RemoveProduct(r.Context(), id); err != nil {
		writeError(
			w, log, http.StatusServiceUnavailable,
			"product removed but not persisted", nil,
		)
		log.Error("failed to persist catalog", "err", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	log.Info("product removed", "id", id)
}

// GET    v1/cart (200 OK)
// POST   v1/cart/{id} catalog product id (200 OK, 404 Not found)
// DELETE v1/cart/{id} (200 OK)
// DELETE v1/cart (200 OK)

type CartHandler struct {
	reader    port.CatalogReader
	cart      port.CartEditor
	favorites port.FavoritesEditor
}

func RegisterCart(
	mux *http.ServeMux,
	reader port.CatalogReader,
	cart port.CartEditor,
	favorites port.FavoritesEditor,
) {
	h := CartHandler{reader, cart, favorites}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart/{id}", h.PostCartItem)
	mux.HandleFunc("DELETE /v1/cart/{id}", h.DeleteCartItem)
	mux.HandleFunc("DELETE /v1/cart", h.ClearCart)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	log := slog.With("op", op)
	writeJSON(w, log, http.StatusOK, h.response())
}

func (h CartHandler) PostCartItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostCartItem"
	log := slog.With("op", op)

	id, ok := pathID(w, r, log)
	if !ok {
		return
	}

	p, ok := h.reader.Product(id)
	if !ok {
		writeError(w, log, http.StatusNotFound, "product not in catalog", nil)
		return
	}

	h.cart.AddToCart(p)
	writeJSON(w, log, http.StatusOK, h.response())
}

func (h CartHandler) DeleteCartItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteCartItem"
	log := slog.With("op", op)

	id, ok := pathID(w, r, log)
	if !ok {
		return
	}

	h.cart.RemoveFromCart(id)
	writeJSON(w, log, http.StatusOK, h.response())
}

func (h CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.ClearCart"
	log := slog.With("op", op)

	h.cart.ClearCart()
	writeJSON(w, log, http.StatusOK, h.response())
}

func (h CartHandler) response() Cart {
	return Cart{
		Items: toProducts(h.cart.Cart(), h.favorites),
		Total: h.cart.CartTotal(),
	}
}

// GET  v1/favorites (200 OK)
// POST v1/favorites/{id} toggles a catalog product or drops a stale favorite (200 OK, 404 Not found)

type FavoritesHandler struct {
	reader    port.CatalogReader
	favorites port.FavoritesEditor
}

func RegisterFavorites(
	mux *http.ServeMux,
	reader port.CatalogReader,
	favorites port.FavoritesEditor,
) {
	h := FavoritesHandler{reader, favorites}
	mux.HandleFunc("GET /v1/favorites", h.GetFavorites)
	mux.HandleFunc("POST /v1/favorites/{id}", h.ToggleFavorite)
}

func (h FavoritesHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	const op = "FavoritesHandler.GetFavorites"
	log := slog.With("op", op)
	writeJSON(w, log, http.StatusOK, toProducts(h.favorites.Favorites(), h.favorites))
}

func (h FavoritesHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	const op = "FavoritesHandler.ToggleFavorite"
	log := slog.With("op", op)

	id, ok := pathID(w, r, log)
	if !ok {
		return
	}

	// a favorite outlives its catalog entry and can still be removed
	p, ok := h.reader.Product(id)
	if !ok {
		p, ok = h.favorites.Favorite(id)
	}
	if !ok {
		writeError(w, log, http.StatusNotFound, "product not in catalog", nil)
		return
	}

	fav := h.favorites.ToggleFavorite(p)
	writeJSON(w, log, http.StatusOK, FavoriteState{ID: id, Favorite: fav})
}

func (np NewProduct) toDomain() domain.Product {
	return domain.Product{
		Title:       strings.TrimSpace(np.Title),
		Price:       np.Price,
		Thumbnail:   strings.TrimSpace(np.Thumbnail),
		Description: np.Description,
	}
}

func toProduct(p domain.Product, favorite bool) Product {
	return Product{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Thumbnail:   p.Thumbnail,
		Description: p.Description,
		IsCustom:    p.IsCustom,
		Favorite:    favorite,
	}
}

func toProducts(ps []domain.Product, favorites port.FavoritesEditor) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = toProduct(p, favorites.IsFavorite(p.ID))
	}
	return out
}

func pathID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, log, http.StatusBadRequest, "invalid product id", nil)
		log.Warn("invalid path id", "id", r.PathValue("id"), "err", err)
		return 0, false
	}
	return id, true
}

func reasons(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func writeError(
	w http.ResponseWriter, log *slog.Logger, status int, msg string, rs []string,
) {
	writeJSON(w, log, status, ErrorResponse{Error: msg, Reasons: rs})
}
