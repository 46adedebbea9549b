package search

import (
	"net/url"
	"strings"

	"restaurant-finder/internal/domain"
)

const (
	paramName       = "name"
	paramCategories = "categories"
	paramPriceRange = "priceRange"
	paramRating     = "rating"
)

// Encode flattens filters into query parameters. Empty and ANY values are left
// out entirely and categories repeat under one key in selection order.
func Encode(f domain.SearchFilters) url.Values {
	values := url.Values{}
	if name := strings.TrimSpace(f.Name); name != "" {
		values.Set(paramName, name)
	}
	for _, c := range f.Categories {
		if c != "" {
			values.Add(paramCategories, c)
		}
	}
	if f.PriceTier != domain.PriceAny {
		values.Set(paramPriceRange, string(f.PriceTier))
	}
	if f.MinRating != domain.RatingAny {
		values.Set(paramRating, f.MinRating.String())
	}
	return values
}

// QueryString renders Encode's parameters in field order (name, categories,
// priceRange, rating) instead of the sorted order url.Values.Encode uses.
func QueryString(f domain.SearchFilters) string {
	values := Encode(f)
	var parts []string
	for _, key := range []string{paramName, paramCategories, paramPriceRange, paramRating} {
		for _, v := range values[key] {
			parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(parts, "&")
}

// Decode is the inverse of Encode. Unknown price or rating values are reported
// rather than dropped.
func Decode(values url.Values) (domain.SearchFilters, error) {
	f := domain.SearchFilters{Name: values.Get(paramName)}
	for _, c := range values[paramCategories] {
		if c != "" && !f.HasCategory(c) {
			f.Categories = append(f.Categories, c)
		}
	}
	tier, err := domain.ParsePriceTier(values.Get(paramPriceRange))
	if err != nil {
		return domain.SearchFilters{}, err
	}
	f.PriceTier = tier
	rating, err := domain.ParseMinRating(values.Get(paramRating))
	if err != nil {
		return domain.SearchFilters{}, err
	}
	f.MinRating = rating
	return f, nil
}
