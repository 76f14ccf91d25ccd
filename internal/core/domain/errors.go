package domain

import "errors"

// ErrCorruptCatalog is returned when the stored catalog record cannot be decoded.
var ErrCorruptCatalog = errors.New("stored catalog is corrupt")
