package beers

import (
	"fmt"
	"strings"

	"github.com/mbeecher/beerworks/internal/domain"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 1000
)

// Plan normalizes list parameters into a bounded, deterministic query:
// page numbers are 1-based at the boundary and 0-based internally, size is
// defaulted and clamped, and the name/style combination picks the filter
// path. Sorting is always name ascending.
func Plan(name string, style domain.Style, pageNumber, pageSize int) domain.BeerQuery {
	page := 0
	if pageNumber > 0 {
		page = pageNumber - 1
	}
	size := pageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return domain.BeerQuery{
		Name:     strings.TrimSpace(name),
		Style:    style,
		HasName:  strings.TrimSpace(name) != "",
		HasStyle: style != "",
		Limit:    size,
		Offset:   page * size,
	}
}

// signature identifies a list result in the collection cache. It covers
// every input that changes the payload, including inventory visibility.
func signature(q domain.BeerQuery, showInventory bool) string {
	return fmt.Sprintf("%s|%s|%d|%d|%t",
		strings.ToLower(q.Name), q.Style, q.Limit, q.Offset, showInventory)
}
