// Package mock provides an offline offer source with simulated latency and
// failures, for mock mode and local development without upstream credentials.
package mock

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/Kiran-230202/Otelier-Explorer/internal/amadeus"
	"github.com/Kiran-230202/Otelier-Explorer/internal/apperr"
	"github.com/Kiran-230202/Otelier-Explorer/internal/models"
)

var hotelNames = []string{
	"Hotel Atlas", "Riad Sunset", "Kasbah Pearl", "The Meridian Court",
	"Grand Veranda", "Palm Arcade Suites", "Lanternside Inn", "The Old Quay",
	"Saffron House", "Villa Aurelia", "Harbour Twelve", "Cedar & Stone",
}

// Source fabricates upstream records deterministically from a seed.
type Source struct {
	mu         sync.Mutex
	rng        *rand.Rand
	avgLatency float64
	failRate   float64
	count      int
}

func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed)), avgLatency: 0.2, count: len(hotelNames)}
}

// WithFailRate makes a fraction of calls fail, for resilience testing.
func (s *Source) WithFailRate(rate float64) *Source {
	s.failRate = rate
	return s
}

// WithCount caps how many properties a search returns.
func (s *Source) WithCount(n int) *Source {
	if n > 0 && n <= len(hotelNames) {
		s.count = n
	}
	return s
}

func (s *Source) FetchOffers(ctx context.Context, q models.SearchQuery) ([]amadeus.Record, error) {
	s.mu.Lock()
	latency := sampleLatency(s.rng, s.avgLatency)
	fail := s.rng.Float64() < s.failRate
	s.mu.Unlock()

	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if fail {
		return nil, apperr.Remotef("upstream unavailable (simulated)")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	recs := make([]amadeus.Record, 0, s.count)
	for i := 0; i < s.count; i++ {
		rec := amadeus.Record{}
		rec.Hotel.HotelID = fmt.Sprintf("%s%03d", q.CityCode, i+1)
		rec.Hotel.Name = hotelNames[i]
		rec.Hotel.CityCode = q.CityCode

		if q.CheckOut != "" {
			offer := amadeus.Offer{
				ID:           fmt.Sprintf("offer-%s-%d", q.CityCode, i+1),
				CheckInDate:  q.CheckIn,
				CheckOutDate: q.CheckOut,
			}
			offer.Price.Currency = "EUR"
			offer.Price.Total = strconv.FormatFloat(80+s.rng.Float64()*220, 'f', 2, 64)
			offer.Room.TypeEstimated.Category = "STANDARD_ROOM"
			offer.Room.Description.Text = "Queen bed, city view"
			offer.Policies.PaymentType = "guarantee"
			rec.Offers = []amadeus.Offer{offer}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func sampleLatency(rng *rand.Rand, avg float64) time.Duration {
	ms := 20 + rng.ExpFloat64()*avg*100
	return time.Duration(ms) * time.Millisecond
}
