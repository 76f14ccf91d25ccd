package seedsource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/niksmo/shoplist/internal/core/domain"
	"github.com/niksmo/shoplist/internal/core/port"
	"github.com/niksmo/shoplist/pkg/retry"
)

var _ port.SeedSource = (*HTTPSource)(nil)

var ErrUnexpectedStatus = errors.New("unexpected response status")

const (
	defaultTimeout = 10 * time.Second
	maxBodySize    = 16 << 20
)

type product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Thumbnail   string  `json:"thumbnail"`
	Description string  `json:"description"`
}

type envelope struct {
	Products []product `json:"products"`
}

// HTTPSource fetches the seed catalog with a single GET.
//
// The body is either a JSON array of products or an object with a
// "products" array.
type HTTPSource struct {
	url      string
	client   *http.Client
	retryCfg retry.RetryConfig
}

type Opt func(*HTTPSource)

func TimeoutOpt(d time.Duration) Opt {
	return func(s *HTTPSource) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// MaxAttemptsOpt enables retries on transport errors and 5xx responses.
func MaxAttemptsOpt(n int) Opt {
	return func(s *HTTPSource) {
		if n > 0 {
			s.retryCfg.MaxAttempts = n
		}
	}
}

func HTTPClientOpt(c *http.Client) Opt {
	return func(s *HTTPSource) {
		if c != nil {
			s.client = c
		}
	}
}

func New(url string, opts ...Opt) HTTPSource {
	s := HTTPSource{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
		retryCfg: retry.RetryConfig{
			MaxAttempts: 1,
			Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
			ShouldRetry: isTemporary,
		},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s HTTPSource) FetchSeedCatalog(ctx context.Context) ([]domain.Product, error) {
	const op = "HTTPSource.FetchSeedCatalog"
	log := slog.With("op", op)

	body, err := retry.DoWithResult(ctx, s.retryCfg, func() ([]byte, error) {
		return s.get(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.decode(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("seed catalog fetched", "url", s.url, "nProducts", len(ps))
	return s.toDomain(ps), nil
}

type statusError struct {
	code int
}

func (e statusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnexpectedStatus, e.code)
}

func (e statusError) Unwrap() error {
	return ErrUnexpectedStatus
}

func isTemporary(err error) bool {
	var se statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled)
}

func (s HTTPSource) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, statusError{res.StatusCode}
	}

	return io.ReadAll(io.LimitReader(res.Body, maxBodySize))
}

func (HTTPSource) decode(body []byte) ([]product, error) {
	body = bytes.TrimSpace(body)

	if len(body) != 0 && body[0] == '[' {
		var ps []product
		if err := json.Unmarshal(body, &ps); err != nil {
			return nil, err
		}
		return ps, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return env.Products, nil
}

func (HTTPSource) toDomain(ps []product) []domain.Product {
	out := make([]domain.Product, len(ps))
	for i, p := range ps {
		out[i] = domain.Product{
			ID:          p.ID,
			Title:       p.Title,
			Price:       p.Price,
			Thumbnail:   p.Thumbnail,
			Description: p.Description,
		}
	}
	return out
}
