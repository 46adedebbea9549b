package domain

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrInvalidPriceTier = errors.New("invalid price tier")
	ErrInvalidMinRating = errors.New("invalid minimum rating")
)

type PriceTier string

const (
	PriceAny    PriceTier = ""
	PriceLow    PriceTier = "LOW"
	PriceMedium PriceTier = "MEDIUM"
	PriceHigh   PriceTier = "HIGH"
)

func ParsePriceTier(s string) (PriceTier, error) {
	switch t := PriceTier(s); t {
	case PriceAny, PriceLow, PriceMedium, PriceHigh:
		return t, nil
	default:
		return PriceAny, fmt.Errorf("%w: %q", ErrInvalidPriceTier, s)
	}
}

// Label is the "$" notation used on listing cards.
func (t PriceTier) Label() string {
	switch t {
	case PriceLow:
		return "$"
	case PriceMedium:
		return "$$"
	case PriceHigh:
		return "$$$"
	default:
		return "Any Price"
	}
}

type MinRating int

const (
	RatingAny   MinRating = 0
	RatingTwo   MinRating = 2
	RatingThree MinRating = 3
	RatingFour  MinRating = 4
)

func ParseMinRating(s string) (MinRating, error) {
	if s == "" {
		return RatingAny, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return RatingAny, fmt.Errorf("%w: %q", ErrInvalidMinRating, s)
	}
	switch r := MinRating(n); r {
	case RatingTwo, RatingThree, RatingFour:
		return r, nil
	default:
		return RatingAny, fmt.Errorf("%w: %q", ErrInvalidMinRating, s)
	}
}

func (r MinRating) String() string {
	if r == RatingAny {
		return ""
	}
	return strconv.Itoa(int(r))
}

// SearchFilters with zero values everywhere matches every restaurant.
type SearchFilters struct {
	Name       string    `json:"name"`
	Categories []string  `json:"categories"`
	PriceTier  PriceTier `json:"priceRange"`
	MinRating  MinRating `json:"rating"`
}

func (f SearchFilters) Clone() SearchFilters {
	out := f
	out.Categories = append([]string{}, f.Categories...)
	return out
}

func (f SearchFilters) HasCategory(name string) bool {
	for _, c := range f.Categories {
		if c == name {
			return true
		}
	}
	return false
}
