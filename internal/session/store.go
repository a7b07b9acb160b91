// Package session keys hotel sessions by uuid so the HTTP API can hold
// per-client search and selection state across requests.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Kiran-230202/Otelier-Explorer/internal/hotel"
)

type entry struct {
	session  *hotel.Session
	lastSeen time.Time
}

// Store creates sessions on demand and evicts those idle past the TTL.
type Store struct {
	mu       sync.Mutex
	items    map[string]*entry
	ttl      time.Duration
	source   hotel.OfferSource
	log      zerolog.Logger
	newSess  func() *hotel.Session
	onExpand func()
	stop     chan struct{}
}

func NewStore(source hotel.OfferSource, ttl time.Duration, log zerolog.Logger) *Store {
	s := &Store{
		items:  make(map[string]*entry),
		ttl:    ttl,
		source: source,
		log:    log,
		stop:   make(chan struct{}),
	}
	s.newSess = func() *hotel.Session {
		sess := hotel.NewSession(source, log)
		if s.onExpand != nil {
			sess.OnWindowExpand(s.onExpand)
		}
		return sess
	}
	go s.sweep()
	return s
}

// OnWindowExpand registers a hook installed on every session created after
// this call.
func (s *Store) OnWindowExpand(fn func()) {
	s.mu.Lock()
	s.onExpand = fn
	s.mu.Unlock()
}

// Get returns the session for id, creating one when id is empty or unknown.
// The returned id identifies the session the caller actually got.
func (s *Store) Get(id string) (string, *hotel.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if e, ok := s.items[id]; ok {
			e.lastSeen = time.Now()
			return id, e.session
		}
	}
	id = uuid.New().String()
	sess := s.newSess()
	s.items[id] = &entry{session: sess, lastSeen: time.Now()}
	return id, sess
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Close() { close(s.stop) }

func (s *Store) sweep() {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-t.C:
			evicted := 0
			s.mu.Lock()
			for id, e := range s.items {
				if now.Sub(e.lastSeen) > s.ttl {
					delete(s.items, id)
					evicted++
				}
			}
			s.mu.Unlock()
			if evicted > 0 {
				s.log.Debug().Int("evicted", evicted).Msg("idle sessions evicted")
			}
		}
	}
}
