package api

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogKeyKeepsFilterPairsApart(t *testing.T) {
	a := catalogKey(url.Values{"search": {"x:category="}, "category": {"y"}})
	b := catalogKey(url.Values{"search": {"x"}, "category": {":category=y"}})
	assert.NotEqual(t, a, b)

	c := catalogKey(url.Values{"search": {"a&category=b"}, "category": {""}})
	d := catalogKey(url.Values{"search": {"a"}, "category": {"b"}})
	assert.NotEqual(t, c, d)

	assert.True(t, strings.HasPrefix(a, catalogPrefix))
	assert.Equal(t, catalogKey(url.Values{"search": {"x"}, "category": {"y"}}),
		catalogKey(url.Values{"category": {"y"}, "search": {"x"}}), "key does not depend on insertion order")
}

func TestAdminPurchasesKeyKeepsFiltersApart(t *testing.T) {
	a := adminPurchasesKey(url.Values{"from": {"2025-01-01:to=2025-02-01"}, "to": {""}})
	b := adminPurchasesKey(url.Values{"from": {"2025-01-01"}, "to": {"2025-02-01"}})
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, adminPurchasesPrefix))
}
