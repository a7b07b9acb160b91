package hotel

import (
	"hash/fnv"
	"math/rand"
	"strconv"
	"strings"

	"github.com/Kiran-230202/Otelier-Explorer/internal/amadeus"
	"github.com/Kiran-230202/Otelier-Explorer/internal/apperr"
)

// Synthesized field ranges. Placeholders for fields the upstream omits; they
// are labeled via Offer.PriceEstimated and must not be presented as real data.
const (
	synthPriceMin     = 2000
	synthPriceSpan    = 5000
	synthDiscountMin  = 10
	synthDiscountSpan = 20
	synthRatingMin    = 3.5
	synthRatingSpan   = 1.5
)

// Pass seeds one normalization run. Synthesis is derived from the pass seed
// hashed with the hotel id, so a hotel gets the same placeholder values
// everywhere within one pass while fresh searches re-randomize.
type Pass struct {
	seed uint64
}

func NewPass() Pass {
	return Pass{seed: rand.Uint64()}
}

// NewSeededPass pins the seed, for deterministic output.
func NewSeededPass(seed uint64) Pass {
	return Pass{seed: seed}
}

func (p Pass) rngFor(hotelID string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(hotelID))
	return rand.New(rand.NewSource(int64(h.Sum64() ^ p.seed)))
}

// Normalize maps one raw record to a display offer. Missing optional fields
// degrade to synthesized or empty values; a missing hotel id or name is a
// hard validation error since selection identity depends on them.
func Normalize(rec amadeus.Record, pass Pass) (Offer, error) {
	if rec.Hotel.HotelID == "" {
		return Offer{}, apperr.Validationf("upstream record is missing hotelId")
	}
	if rec.Hotel.Name == "" {
		return Offer{}, apperr.Validationf("upstream record %s is missing name", rec.Hotel.HotelID)
	}

	rng := pass.rngFor(rec.Hotel.HotelID)

	o := Offer{
		HotelID: rec.Hotel.HotelID,
		Name:    rec.Hotel.Name,
	}

	if r, ok := parseFloat(rec.Hotel.Rating); ok {
		o.Rating = r
	} else {
		o.Rating = roundRating(synthRatingMin + rng.Float64()*synthRatingSpan)
	}

	if len(rec.Offers) > 0 {
		best := rec.Offers[0]
		if total, ok := parseFloat(best.Price.Total); ok {
			o.DisplayPrice = total
			o.Currency = best.Price.Currency
		} else {
			o.DisplayPrice = float64(synthPriceMin + rng.Intn(synthPriceSpan))
			o.PriceEstimated = true
		}
		o.RoomCategory = renderCategory(best.Room.TypeEstimated.Category)
		o.RoomDescription = best.Room.Description.Text
		o.PaymentType = best.Policies.PaymentType
		return o, nil
	}

	// No offer payload: the minimal variant. Price and discount are both
	// synthesized placeholders.
	o.DisplayPrice = float64(synthPriceMin + rng.Intn(synthPriceSpan))
	o.PriceEstimated = true
	o.DisplayDiscount = synthDiscountMin + rng.Intn(synthDiscountSpan)
	return o, nil
}

// NormalizeAll maps a raw result set, preserving upstream order. Records
// failing the identity check are dropped rather than failing the search.
func NormalizeAll(recs []amadeus.Record, pass Pass) []Offer {
	out := make([]Offer, 0, len(recs))
	for _, rec := range recs {
		o, err := Normalize(rec, pass)
		if err != nil {
			continue
		}
		out = append(out, o)
	}
	return out
}

// renderCategory turns enumeration tokens like DELUXE_ROOM into display text.
func renderCategory(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// parseFloat treats empty, malformed and negative values as missing. A zero
// total is a real upstream value and is kept.
func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}

func roundRating(r float64) float64 {
	return float64(int(r*10+0.5)) / 10
}
