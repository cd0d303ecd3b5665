package store

import (
	"net/url"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

func TestDecodeFiltersDefaults(t *testing.T) {
	f := DecodeFilters(url.Values{})

	assert.Equal(t, 1, f.Page)
	assert.Empty(t, f.Category)
	assert.False(t, f.FreeOnly)
	assert.Empty(t, f.QueryString())
}

func TestDecodeFiltersFullRoundTrip(t *testing.T) {
	q := url.Values{}
	q.Set("search", "cash flow")
	q.Set("category", "c-12")
	q.Set("featured", "true")
	q.Set("newArrivals", "true")
	q.Set("vendor", "v-1")
	q.Set("vendors", "v-1,v-2")
	q.Set("tags", "audit,tax")
	q.Set("freeOnly", "true")
	q.Set("minPrice", "5")
	q.Set("maxPrice", "50")
	q.Set("sort", SortPriceAsc)
	q.Set("page", "3")

	f := DecodeFilters(q)
	assert.Equal(t, "cash flow", f.Search)
	assert.Equal(t, "c-12", f.Category)
	assert.True(t, f.Featured)
	assert.True(t, f.NewArrivals)
	assert.Equal(t, []string{"v-1", "v-2"}, f.Vendors)
	assert.Equal(t, []string{"audit", "tax"}, f.Tags)
	assert.True(t, f.FreeOnly)
	assert.Equal(t, 5.0, f.MinPrice)
	assert.Equal(t, 50.0, f.MaxPrice)
	assert.Equal(t, 3, f.Page)

	// encode/decode stables
	assert.Equal(t, f, DecodeFilters(f.Encode()))
}

func TestDecodeFiltersIgnoresUnknownKeys(t *testing.T) {
	q := url.Values{}
	q.Set("utm_source", "newsletter")
	q.Set("search", "ifrs")

	f := DecodeFilters(q)
	assert.Equal(t, "ifrs", f.Search)
	assert.Equal(t, "search=ifrs", f.QueryString())
}

func TestCategoryAllSentinelRemovesKey(t *testing.T) {
	f := DecodeFilters(url.Values{}).WithCategory("c-12")
	assert.Contains(t, f.QueryString(), "category=c-12")

	f = f.WithCategory(CategoryAll)
	assert.NotContains(t, f.QueryString(), "category")
}

func TestFilterChangeResetsPage(t *testing.T) {
	f := DecodeFilters(url.Values{}).WithPage(4)
	require.Equal(t, 4, f.Page)

	assert.Equal(t, 1, f.WithCategory("c-1").Page)
	assert.Equal(t, 1, f.WithSearch("ledger").Page)
	assert.Equal(t, 1, f.WithFreeOnly(true).Page)
	assert.Equal(t, 1, f.WithPriceRange(0, 20).Page)
	assert.Equal(t, 1, f.WithTags([]string{"audit"}).Page)
	assert.Equal(t, 1, f.WithSort(SortNewest).Page)
}

func TestEncodeOmitsDefaults(t *testing.T) {
	f := FilterParams{Page: 1}
	assert.Empty(t, f.QueryString())

	f = f.WithFreeOnly(true)
	assert.Equal(t, "freeOnly=true", f.QueryString())

	f = f.WithFreeOnly(false)
	assert.Empty(t, f.QueryString())
}

func TestPageOneOmittedFromQuery(t *testing.T) {
	f := DecodeFilters(url.Values{}).WithPage(2)
	assert.Equal(t, "page=2", f.QueryString())

	f = f.WithPage(1)
	assert.Empty(t, f.QueryString())
}

func TestApplyLocalCategoryAndFreeOnly(t *testing.T) {
	catA := gocql.TimeUUID()
	catB := gocql.TimeUUID()
	listings := []models.Listing{
		{Title: "gratuit A", CategoryID: catA, Price: 0},
		{Title: "payant A", CategoryID: catA, Price: 25},
		{Title: "gratuit B", CategoryID: catB, Price: 0},
	}

	f := FilterParams{Page: 1}.WithCategory(catA.String())
	got := f.ApplyLocal(listings)
	require.Len(t, got, 2)

	f = f.WithFreeOnly(true)
	got = f.ApplyLocal(listings)
	require.Len(t, got, 1)
	assert.Equal(t, "gratuit A", got[0].Title)

	// sans filtre local, la liste est rendue telle quelle
	assert.Len(t, FilterParams{Page: 1}.ApplyLocal(listings), 3)
}
