package hotel

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Kiran-230202/Otelier-Explorer/internal/models"
)

// Session holds the current query, the normalized result list and the
// rendering window, and owns the selection set shared across screens.
//
// At most one search is logically current: a slow response from a superseded
// RunSearch call is discarded at apply-time via a sequence number, so it can
// never clobber state written by a later, faster search.
type Session struct {
	source OfferSource
	log    zerolog.Logger

	mu      sync.Mutex
	seq     uint64
	applied uint64
	query   models.SearchQuery
	results []Offer
	busy    bool

	window    *Window
	selection *Selection
}

func NewSession(source OfferSource, log zerolog.Logger) *Session {
	return &Session{
		source:    source,
		log:       log,
		window:    NewWindow(),
		selection: NewSelection(),
	}
}

// NewSessionWithWindow injects a window, for tests tuning the expansion delay.
func NewSessionWithWindow(source OfferSource, window *Window, log zerolog.Logger) *Session {
	return &Session{
		source:    source,
		log:       log,
		window:    window,
		selection: NewSelection(),
	}
}

// RunSearch fetches and normalizes offers for q, then atomically replaces
// the result list and rewinds the window. On any failure the previous
// results and window stay untouched and the error is returned for the
// presentation layer to render; nothing is retried here.
func (s *Session) RunSearch(ctx context.Context, q models.SearchQuery) error {
	q.Normalize()
	if err := q.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.busy = true
	s.mu.Unlock()

	start := time.Now()
	recs, err := s.source.FetchOffers(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == s.seq {
		s.busy = false
	}
	if err != nil {
		return err
	}
	if seq < s.applied || seq != s.seq {
		// A later search already committed; drop this stale response.
		s.log.Debug().Str("city", q.CityCode).Msg("stale search response discarded")
		return nil
	}

	offers := NormalizeAll(recs, NewPass())
	s.applied = seq
	s.query = q
	s.results = offers
	s.window.Reset(len(offers))

	s.log.Info().
		Str("city", q.CityCode).
		Int("results", len(offers)).
		Dur("took", time.Since(start)).
		Msg("search committed")
	return nil
}

// Query returns the query of the last committed search.
func (s *Session) Query() models.SearchQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Results returns the full normalized result list in upstream order.
func (s *Session) Results() []Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Offer, len(s.results))
	copy(out, s.results)
	return out
}

// Visible returns the prefix of the result list currently exposed for
// rendering.
func (s *Session) Visible() []Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.window.Size()
	if n > len(s.results) {
		n = len(s.results)
	}
	out := make([]Offer, n)
	copy(out, s.results[:n])
	return out
}

func (s *Session) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

func (s *Session) WindowSize() int { return s.window.Size() }

// NotifyLastItemVisible raises the visibility signal that grows the window.
// It is ignored while a search is in flight.
func (s *Session) NotifyLastItemVisible() {
	s.mu.Lock()
	busy := s.busy
	s.mu.Unlock()
	if busy {
		return
	}
	s.window.NotifyLastVisible()
}

// OnWindowExpand registers a hook invoked after each completed window
// expansion.
func (s *Session) OnWindowExpand(fn func()) { s.window.OnExpand(fn) }

// Selection returns the session's selection set.
func (s *Session) Selection() *Selection { return s.selection }

// FindResult looks up an offer by id in the current result list.
func (s *Session) FindResult(hotelID string) (Offer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.results {
		if o.HotelID == hotelID {
			return o, true
		}
	}
	return Offer{}, false
}
