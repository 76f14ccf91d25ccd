package service

import (
	"errors"
	"strings"

	"github.com/niksmo/shoplist/internal/core/domain"
)

var (
	ErrEmptyTitle       = errors.New("title is empty")
	ErrNonPositivePrice = errors.New("price must be greater than zero")
	ErrEmptyThumbnail   = errors.New("thumbnail is empty")
)

// ValidateNewProduct checks a user-entered product before it reaches
// [Store.AddProduct]. All failed checks are joined.
func ValidateNewProduct(p domain.Product) error {
	var errs []error

	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, ErrEmptyTitle)
	}

	if !(p.Price > 0) {
		errs = append(errs, ErrNonPositivePrice)
	}

	if strings.TrimSpace(p.Thumbnail) == "" {
		errs = append(errs, ErrEmptyThumbnail)
	}

	return errors.Join(errs...)
}
