package storage

import (
	"context"
	"errors"
)

// DefaultCatalogKey is the record key of the catalog.
const DefaultCatalogKey = "productCatalog"

var ErrEmptyKey = errors.New("key is empty")

// KV is a durable string key-value storage.
//
// Get reports ok=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
