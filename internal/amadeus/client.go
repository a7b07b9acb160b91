// Package amadeus talks to the upstream hotel inventory API: a cached
// client-credentials token, a city-to-properties resolution call and a
// priced-offers shopping call.
package amadeus

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Kiran-230202/Otelier-Explorer/internal/apperr"
	"github.com/Kiran-230202/Otelier-Explorer/internal/models"
)

// maxPricedProperties bounds the id list passed to the shopping call.
const maxPricedProperties = 10

// PhaseObserver receives per-phase latency, wired to metrics by the app.
type PhaseObserver func(phase string, seconds float64)

// Client performs the two-phase lookup. It holds no result state between
// calls; caching sits in front of it (see OffersCache).
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     *TokenCache
	log        zerolog.Logger
	observe    PhaseObserver
}

func NewClient(httpClient *http.Client, baseURL string, tokens *TokenCache, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		log:        log,
	}
}

// OnPhase registers a latency observer for the resolve and price phases.
func (c *Client) OnPhase(fn PhaseObserver) { c.observe = fn }

// FetchOffers resolves the query's city to candidate properties, then prices
// the first ten of them. A query without a check-out date stops after the
// resolve phase and returns unpriced records for the normalizer to fill.
func (c *Client) FetchOffers(ctx context.Context, q models.SearchQuery) ([]Record, error) {
	props, err := c.resolve(ctx, q.CityCode)
	if err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return nil, apperr.NotFoundf("no properties for city %s", q.CityCode)
	}

	if len(props) > maxPricedProperties {
		props = props[:maxPricedProperties]
	}

	if q.CheckOut == "" {
		// Minimal variant: city lookup only.
		recs := make([]Record, 0, len(props))
		for _, p := range props {
			recs = append(recs, Record{Hotel: RecordHotel{HotelID: p.HotelID, Name: p.Name, CityCode: q.CityCode}})
		}
		return recs, nil
	}

	return c.price(ctx, props, q)
}

func (c *Client) resolve(ctx context.Context, cityCode string) ([]Property, error) {
	params := url.Values{}
	params.Set("cityCode", cityCode)

	start := time.Now()
	body, err := c.get(ctx, "/v1/reference-data/locations/hotels/by-city", params)
	c.phase("resolve", start)
	if err != nil {
		return nil, err
	}

	var pr propertyListResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, apperr.Wrap(apperr.KindRemote, "decode property list", err)
	}
	return pr.Data, nil
}

func (c *Client) price(ctx context.Context, props []Property, q models.SearchQuery) ([]Record, error) {
	ids := make([]string, 0, len(props))
	for _, p := range props {
		ids = append(ids, p.HotelID)
	}

	params := url.Values{}
	params.Set("hotelIds", strings.Join(ids, ","))
	params.Set("adults", strconv.Itoa(q.Adults))
	params.Set("checkInDate", q.CheckIn)
	params.Set("checkOutDate", q.CheckOut)
	params.Set("roomQuantity", strconv.Itoa(q.Rooms))
	params.Set("paymentPolicy", "NONE")
	params.Set("bestRateOnly", "true")

	start := time.Now()
	body, err := c.get(ctx, "/v3/shopping/hotel-offers", params)
	c.phase("price", start)
	if err != nil {
		return nil, err
	}

	var or offerListResponse
	if err := json.Unmarshal(body, &or); err != nil {
		return nil, apperr.Wrap(apperr.KindRemote, "decode offer list", err)
	}
	if len(or.Data) == 0 {
		return nil, apperr.NotFoundf("no offers for dates")
	}
	return or.Data, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRemote, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRemote, "upstream request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRemote, "read upstream response", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("upstream rejected authorization")
		return nil, apperr.Authf("upstream rejected authorization with status %d", resp.StatusCode)
	case resp.StatusCode >= 300:
		var env errorEnvelope
		if json.Unmarshal(body, &env) == nil && env.detail() != "" {
			return nil, apperr.Remotef("%s", env.detail())
		}
		return nil, apperr.Remotef("upstream request failed with status %d", resp.StatusCode)
	}

	return body, nil
}

func (c *Client) phase(name string, start time.Time) {
	if c.observe != nil {
		c.observe(name, time.Since(start).Seconds())
	}
}
