// Package models holds the search query shared by the upstream client and
// the session layer.
package models

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Kiran-230202/Otelier-Explorer/internal/apperr"
)

var validate = validator.New()

// SearchQuery carries one search. CheckOut is optional; its absence selects
// the minimal pipeline variant (city lookup without priced offers).
type SearchQuery struct {
	CityCode string `json:"cityCode" validate:"required,alpha,uppercase,min=2,max=4"`
	CheckIn  string `json:"checkInDate" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"checkOutDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Adults   int    `json:"adults,omitempty" validate:"omitempty,min=1,max=10"`
	Rooms    int    `json:"roomQuantity,omitempty" validate:"omitempty,min=1,max=5"`
}

// Normalize fills defaults and canonicalizes the city token.
func (q *SearchQuery) Normalize() {
	q.CityCode = strings.ToUpper(strings.TrimSpace(q.CityCode))
	if q.Adults == 0 {
		q.Adults = 1
	}
	if q.Rooms == 0 {
		q.Rooms = 1
	}
}

// Validate reports a validation error describing the first offending field.
// CheckIn <= CheckOut is the caller's responsibility and not enforced here.
func (q SearchQuery) Validate() error {
	if err := validate.Struct(q); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return apperr.Validationf("invalid query: field %s fails %q", fieldName(fe.Field()), fe.Tag())
		}
		return apperr.Validationf("invalid query: %v", err)
	}
	return nil
}

// CacheKey is stable across equivalent queries and keys the offers cache.
func (q SearchQuery) CacheKey() string {
	return strings.Join([]string{
		q.CityCode, q.CheckIn, q.CheckOut,
		strconv.Itoa(q.Adults), strconv.Itoa(q.Rooms),
	}, "|")
}

func fieldName(f string) string {
	switch f {
	case "CityCode":
		return "cityCode"
	case "CheckIn":
		return "checkInDate"
	case "CheckOut":
		return "checkOutDate"
	case "Adults":
		return "adults"
	case "Rooms":
		return "roomQuantity"
	default:
		return f
	}
}
