package models

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kiran-230202/Otelier-Explorer/internal/apperr"
)

func TestSearchQuery_NormalizeDefaults(t *testing.T) {
	q := SearchQuery{CityCode: " par ", CheckIn: "2025-06-01"}
	q.Normalize()

	require.Equal(t, "PAR", q.CityCode)
	require.Equal(t, 1, q.Adults)
	require.Equal(t, 1, q.Rooms)
}

func TestSearchQuery_Validate(t *testing.T) {
	cases := []struct {
		name    string
		query   SearchQuery
		wantErr bool
	}{
		{"full query", SearchQuery{CityCode: "PAR", CheckIn: "2025-06-01", CheckOut: "2025-06-03", Adults: 2, Rooms: 1}, false},
		{"missing checkout tolerated", SearchQuery{CityCode: "PAR", CheckIn: "2025-06-01", Adults: 1, Rooms: 1}, false},
		{"missing city", SearchQuery{CheckIn: "2025-06-01", Adults: 1, Rooms: 1}, true},
		{"missing checkin", SearchQuery{CityCode: "PAR", Adults: 1, Rooms: 1}, true},
		{"lowercase city", SearchQuery{CityCode: "par", CheckIn: "2025-06-01", Adults: 1, Rooms: 1}, true},
		{"bad date", SearchQuery{CityCode: "PAR", CheckIn: "June 1st", Adults: 1, Rooms: 1}, true},
		{"too many adults", SearchQuery{CityCode: "PAR", CheckIn: "2025-06-01", Adults: 11, Rooms: 1}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.query.Validate()
			if tc.wantErr {
				require.Error(t, err)
				require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSearchQuery_CacheKey(t *testing.T) {
	a := SearchQuery{CityCode: "PAR", CheckIn: "2025-06-01", CheckOut: "2025-06-03", Adults: 2, Rooms: 1}
	b := a
	require.Equal(t, a.CacheKey(), b.CacheKey())

	b.CheckOut = ""
	require.NotEqual(t, a.CacheKey(), b.CacheKey())
}
