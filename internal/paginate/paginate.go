// Package paginate splits result lists into fixed-size pages.
package paginate

import (
	"iter"
	"slices"

	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Pages yields contiguous windows of size items; the last one may be
// shorter. Each page aliases items.
func Pages[T any](items []T, size int) (iter.Seq[[]T], error) {
	if size <= 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "page size must be positive, got %d", size)
	}
	return slices.Chunk(items, size), nil
}

// Paginate collects Pages into a slice. An empty input yields no pages.
func Paginate[T any](items []T, size int) ([][]T, error) {
	pages, err := Pages(items, size)
	if err != nil {
		return nil, err
	}
	return slices.Collect(pages), nil
}
