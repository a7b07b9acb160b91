package hotel

import "sync"

// Selection is the deduplicated, order-preserving set of offers a user has
// marked for comparison. Membership is keyed solely by HotelID; re-adding a
// hotel stores the most recently toggled-in instance. A new search never
// clears it.
type Selection struct {
	mu    sync.Mutex
	items map[string]Offer
	order []string
}

func NewSelection() *Selection {
	return &Selection{items: make(map[string]Offer)}
}

// Toggle adds the offer when its hotel is absent and removes it when
// present. It is its own inverse with respect to membership.
func (s *Selection) Toggle(o Offer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[o.HotelID]; ok {
		delete(s.items, o.HotelID)
		for i, id := range s.order {
			if id == o.HotelID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return
	}
	s.items[o.HotelID] = o
	s.order = append(s.order, o.HotelID)
}

// ToggleID flips membership for hotelID in one critical section, so two
// concurrent calls cannot observe each other mid-flip. A selected id is
// removed without consulting lookup; an absent one is resolved through
// lookup and added, or left untouched when lookup reports no match.
// selected is the membership after the call, ok is false only on a failed
// lookup.
func (s *Selection) ToggleID(hotelID string, lookup func(string) (Offer, bool)) (selected, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.items[hotelID]; found {
		delete(s.items, hotelID)
		for i, id := range s.order {
			if id == hotelID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false, true
	}
	o, found := lookup(hotelID)
	if !found {
		return false, false
	}
	s.items[hotelID] = o
	s.order = append(s.order, hotelID)
	return true, true
}

func (s *Selection) Contains(hotelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[hotelID]
	return ok
}

// List returns the selected offers in insertion order.
func (s *Selection) List() []Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Offer, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}
