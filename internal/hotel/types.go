// Package hotel implements the search-to-selection pipeline: query
// orchestration, normalization of upstream records into a display model,
// incremental result windowing and the cross-screen selection set.
package hotel

import (
	"context"

	"github.com/Kiran-230202/Otelier-Explorer/internal/amadeus"
	"github.com/Kiran-230202/Otelier-Explorer/internal/models"
)

// Offer is the flat, display-ready hotel record. Treated as immutable once
// produced by the normalizer.
type Offer struct {
	HotelID         string  `json:"hotelId"`
	Name            string  `json:"name"`
	DisplayPrice    float64 `json:"displayPrice"`
	Currency        string  `json:"currency,omitempty"`
	Rating          float64 `json:"rating"`
	RoomCategory    string  `json:"roomCategory,omitempty"`
	RoomDescription string  `json:"roomDescription,omitempty"`
	PaymentType     string  `json:"paymentType,omitempty"`
	DisplayDiscount int     `json:"displayDiscount,omitempty"`

	// PriceEstimated marks a synthesized placeholder price, so a consumer
	// never presents it as real pricing.
	PriceEstimated bool `json:"priceEstimated,omitempty"`
}

// OfferSource fetches raw upstream records for a query. Satisfied by the
// amadeus client, its offers cache and the mock source.
type OfferSource interface {
	FetchOffers(ctx context.Context, q models.SearchQuery) ([]amadeus.Record, error)
}
