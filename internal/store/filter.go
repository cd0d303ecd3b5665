package store

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

// Sentinelle "toutes catégories" : le paramètre est retiré de l'URL
const CategoryAll = "all"

// Clés de tri supportées côté marketplace
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// FilterParams : état des filtres de la page marketplace, dérivé de la
// query string et resérialisé vers elle. Éphémère, jamais persisté.
type FilterParams struct {
	Search      string
	Category    string
	Featured    bool
	NewArrivals bool
	Vendor      string
	Vendors     []string
	Tags        []string
	FreeOnly    bool
	MinPrice    float64
	MaxPrice    float64
	Sort        string
	Page        int
}

// DecodeFilters reconstruit l'état depuis la query string.
// Les clés inconnues sont ignorées, page invalide vaut 1.
func DecodeFilters(q url.Values) FilterParams {
	f := FilterParams{Page: 1}

	f.Search = q.Get("search")
	if cat := q.Get("category"); cat != "" && cat != CategoryAll {
		f.Category = cat
	}
	f.Featured = q.Get("featured") == "true"
	f.NewArrivals = q.Get("newArrivals") == "true"
	f.Vendor = q.Get("vendor")
	if v := q.Get("vendors"); v != "" {
		f.Vendors = strings.Split(v, ",")
	}
	if t := q.Get("tags"); t != "" {
		f.Tags = strings.Split(t, ",")
	}
	f.FreeOnly = q.Get("freeOnly") == "true"
	f.MinPrice, _ = strconv.ParseFloat(q.Get("minPrice"), 64)
	f.MaxPrice, _ = strconv.ParseFloat(q.Get("maxPrice"), 64)
	f.Sort = q.Get("sort")
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 1 {
		f.Page = page
	}

	return f
}

// Encode produit la query string canonique : une valeur par défaut ou
// sentinelle retire la clé, toute autre valeur la pose
func (f FilterParams) Encode() url.Values {
	q := url.Values{}

	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" && f.Category != CategoryAll {
		q.Set("category", f.Category)
	}
	if f.Featured {
		q.Set("featured", "true")
	}
	if f.NewArrivals {
		q.Set("newArrivals", "true")
	}
	if f.Vendor != "" {
		q.Set("vendor", f.Vendor)
	}
	if len(f.Vendors) > 0 {
		q.Set("vendors", strings.Join(f.Vendors, ","))
	}
	if len(f.Tags) > 0 {
		q.Set("tags", strings.Join(f.Tags, ","))
	}
	if f.FreeOnly {
		q.Set("freeOnly", "true")
	}
	if f.MinPrice > 0 {
		q.Set("minPrice", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		q.Set("maxPrice", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.Sort != "" {
		q.Set("sort", f.Sort)
	}
	if f.Page > 1 {
		q.Set("page", strconv.Itoa(f.Page))
	}

	return q
}

// QueryString : forme canonique triée, prête pour un history push
func (f FilterParams) QueryString() string {
	return f.Encode().Encode()
}

// Les With* retournent une copie avec le filtre modifié et la pagination
// remise à 1 — changer un filtre invalide la page courante

func (f FilterParams) WithSearch(search string) FilterParams {
	f.Search = search
	f.Page = 1
	return f
}

func (f FilterParams) WithCategory(category string) FilterParams {
	if category == CategoryAll {
		category = ""
	}
	f.Category = category
	f.Page = 1
	return f
}

func (f FilterParams) WithFreeOnly(freeOnly bool) FilterParams {
	f.FreeOnly = freeOnly
	f.Page = 1
	return f
}

func (f FilterParams) WithPriceRange(min, max float64) FilterParams {
	f.MinPrice = min
	f.MaxPrice = max
	f.Page = 1
	return f
}

func (f FilterParams) WithTags(tags []string) FilterParams {
	f.Tags = tags
	f.Page = 1
	return f
}

func (f FilterParams) WithVendor(vendor string) FilterParams {
	f.Vendor = vendor
	f.Page = 1
	return f
}

func (f FilterParams) WithSort(sort string) FilterParams {
	f.Sort = sort
	f.Page = 1
	return f
}

func (f FilterParams) WithPage(page int) FilterParams {
	if page < 1 {
		page = 1
	}
	f.Page = page
	return f
}

// ApplyLocal applique les filtres catégorie et freeOnly en mémoire sur la
// liste déjà chargée — comportement existant conservé : ces deux filtres
// ne sont pas poussés vers la couche de recherche
func (f FilterParams) ApplyLocal(listings []models.Listing) []models.Listing {
	if f.Category == "" && !f.FreeOnly {
		return listings
	}

	filtered := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if f.Category != "" && l.CategoryID.String() != f.Category {
			continue
		}
		if f.FreeOnly && !l.IsFree() {
			continue
		}
		filtered = append(filtered, l)
	}
	return filtered
}
