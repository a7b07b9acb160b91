package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Kiran-230202/Otelier-Explorer/internal/apperr"
	"github.com/Kiran-230202/Otelier-Explorer/internal/hotel"
	"github.com/Kiran-230202/Otelier-Explorer/internal/models"
	"github.com/Kiran-230202/Otelier-Explorer/internal/obs"
	"github.com/Kiran-230202/Otelier-Explorer/internal/session"
)

// sessionHeader carries the caller's session identity; the handler mints one
// when it is absent and echoes it on every response.
const sessionHeader = "X-Session-Id"

type Handler struct {
	sessions *session.Store
	metrics  *obs.Metrics
}

func NewHandler(sessions *session.Store, m *obs.Metrics) *Handler {
	return &Handler{sessions: sessions, metrics: m}
}

type searchResponse struct {
	SessionID string             `json:"session_id"`
	Query     models.SearchQuery `json:"query"`
	Stats     resultStats        `json:"stats"`
	Hotels    []hotel.Offer      `json:"hotels"`
}

type resultStats struct {
	Total      int  `json:"total"`
	Window     int  `json:"window"`
	Estimated  int  `json:"estimated_prices"`
	Selections int  `json:"selections"`
	AtEnd      bool `json:"at_end"`
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (string, *hotel.Session) {
	id, sess := h.sessions.Get(r.Header.Get(sessionHeader))
	w.Header().Set(sessionHeader, id)
	return id, sess
}

func (h *Handler) reqID(r *http.Request) string {
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		return rid
	}
	return uuid.New().String()
}

func stats(sess *hotel.Session) resultStats {
	total := sess.Total()
	window := sess.WindowSize()
	estimated := 0
	for _, o := range sess.Results() {
		if o.PriceEstimated {
			estimated++
		}
	}
	return resultStats{
		Total:      total,
		Window:     window,
		Estimated:  estimated,
		Selections: sess.Selection().Len(),
		AtEnd:      window >= total,
	}
}

// Search runs a new search for the caller's session. A failed search leaves
// the session's previous results intact.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	reqID := h.reqID(r)
	id, sess := h.session(w, r)

	var q models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		BadRequest(w, "invalid request body", map[string]string{"request_id": reqID})
		return
	}

	h.metrics.IncSearches()
	if err := sess.RunSearch(r.Context(), q); err != nil {
		h.metrics.IncSearchErrors(apperr.KindOf(err).String())
		WriteAppError(w, err, map[string]string{"request_id": reqID})
		return
	}

	WriteJSON(w, http.StatusOK, searchResponse{
		SessionID: id,
		Query:     sess.Query(),
		Stats:     stats(sess),
		Hotels:    sess.Visible(),
	})
}

// Results returns the currently visible window.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	id, sess := h.session(w, r)
	WriteJSON(w, http.StatusOK, searchResponse{
		SessionID: id,
		Query:     sess.Query(),
		Stats:     stats(sess),
		Hotels:    sess.Visible(),
	})
}

// LastItemVisible raises the visibility signal. Expansion is asynchronous
// and debounced, so the response only reports the pre-expansion window.
func (h *Handler) LastItemVisible(w http.ResponseWriter, r *http.Request) {
	_, sess := h.session(w, r)
	sess.NotifyLastItemVisible()
	WriteJSON(w, http.StatusAccepted, map[string]any{
		"window": sess.WindowSize(),
		"total":  sess.Total(),
	})
}

type toggleRequest struct {
	HotelID string `json:"hotelId"`
}

// ToggleSelection flips membership for a hotel id. Removal works for any
// selected id; adding requires the hotel to be present in the current
// results so the stored record is the most recent instance.
func (h *Handler) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	reqID := h.reqID(r)
	_, sess := h.session(w, r)

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HotelID == "" {
		BadRequest(w, "hotelId is required", map[string]string{"request_id": reqID})
		return
	}

	sel := sess.Selection()
	selected, ok := sel.ToggleID(req.HotelID, sess.FindResult)
	if !ok {
		NotFound(w, "hotel not in current results", map[string]string{"request_id": reqID})
		return
	}
	h.metrics.IncSelectionToggles()

	WriteJSON(w, http.StatusOK, map[string]any{
		"selected":   selected,
		"selections": sel.Len(),
	})
}

// Selection lists the selected offers in insertion order.
func (h *Handler) Selection(w http.ResponseWriter, r *http.Request) {
	id, sess := h.session(w, r)
	WriteJSON(w, http.StatusOK, map[string]any{
		"session_id": id,
		"hotels":     sess.Selection().List(),
	})
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
