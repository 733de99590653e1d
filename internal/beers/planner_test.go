package beers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbeecher/beerworks/internal/domain"
)

func TestPlanPageNormalization(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		pageNumber int
		pageSize   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", 0, 0, DefaultPageSize, 0},
		{"first page explicit", 1, 10, 10, 0},
		{"second page", 2, 10, 10, 10},
		{"negative page treated as first", -3, 10, 10, 0},
		{"zero size defaulted", 3, 0, DefaultPageSize, 2 * DefaultPageSize},
		{"oversize clamped", 1, 5000, MaxPageSize, 0},
		{"negative size defaulted", 1, -1, DefaultPageSize, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := Plan("", "", tc.pageNumber, tc.pageSize)
			assert.Equal(t, tc.wantLimit, q.Limit)
			assert.Equal(t, tc.wantOffset, q.Offset)
		})
	}
}

func TestPlanFilterSelection(t *testing.T) {
	t.Parallel()

	q := Plan("", "", 1, 25)
	assert.False(t, q.HasName)
	assert.False(t, q.HasStyle)

	q = Plan("Galaxy", "", 1, 25)
	assert.True(t, q.HasName)
	assert.False(t, q.HasStyle)
	assert.Equal(t, "Galaxy", q.Name)

	q = Plan("", domain.StyleIPA, 1, 25)
	assert.False(t, q.HasName)
	assert.True(t, q.HasStyle)

	q = Plan("Galaxy", domain.StyleIPA, 1, 25)
	assert.True(t, q.HasName)
	assert.True(t, q.HasStyle)

	// whitespace-only name is no filter at all
	q = Plan("   ", "", 1, 25)
	assert.False(t, q.HasName)
	assert.Empty(t, q.Name)
}

func TestSignatureCoversEveryInput(t *testing.T) {
	t.Parallel()

	base := Plan("galaxy", domain.StyleIPA, 2, 10)
	sig := signature(base, true)

	assert.NotEqual(t, sig, signature(base, false), "inventory visibility must split the cache")
	assert.NotEqual(t, sig, signature(Plan("crank", domain.StyleIPA, 2, 10), true))
	assert.NotEqual(t, sig, signature(Plan("galaxy", domain.StylePorter, 2, 10), true))
	assert.NotEqual(t, sig, signature(Plan("galaxy", domain.StyleIPA, 3, 10), true))
	assert.NotEqual(t, sig, signature(Plan("galaxy", domain.StyleIPA, 2, 20), true))

	// name matching is case-insensitive downstream, so the key folds case
	assert.Equal(t, sig, signature(Plan("GALAXY", domain.StyleIPA, 2, 10), true))
}
