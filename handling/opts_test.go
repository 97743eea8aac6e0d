package handling

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductListOptionsEmpty(t *testing.T) {
	r := httptest.NewRequest("GET", "/products", nil)

	opts, err := ParseProductListOptions(r)
	require.NoError(t, err)
	assert.Zero(t, opts.Page)
	assert.Nil(t, opts.IsActive)
	assert.Empty(t, opts.Brand)
}

func TestParseProductListOptionsFull(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/products?page=2&page_size=50&is_active=true&brand=Halikarnas&min_price=1000&max_price=9000&search=gladiator&in_stock=true&sort_by=price&sort_direction=asc&include_variants=true",
		nil)

	opts, err := ParseProductListOptions(r)
	require.NoError(t, err)

	assert.Equal(t, 2, opts.Page)
	assert.Equal(t, 50, opts.PageSize)
	require.NotNil(t, opts.IsActive)
	assert.True(t, *opts.IsActive)
	assert.Equal(t, "Halikarnas", opts.Brand)
	require.NotNil(t, opts.MinPrice)
	assert.Equal(t, uint64(1000), *opts.MinPrice)
	require.NotNil(t, opts.MaxPrice)
	assert.Equal(t, uint64(9000), *opts.MaxPrice)
	assert.Equal(t, "gladiator", opts.SearchTerm)
	assert.True(t, opts.InStock)
	assert.Equal(t, "price", opts.SortBy)
	assert.Equal(t, "ASC", opts.SortDirection)
	assert.True(t, opts.IncludeVariants)
}

func TestParseProductListOptionsBadValues(t *testing.T) {
	cases := []string{
		"/products?page=abc",
		"/products?page_size=x",
		"/products?is_active=maybe",
		"/products?min_price=-5",
		"/products?max_price=1.5",
		"/products?include_variants=sure",
	}

	for _, url := range cases {
		r := httptest.NewRequest("GET", url, nil)
		_, err := ParseProductListOptions(r)
		assert.Error(t, err, "expected error for %s", url)
	}
}
