package amadeus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kiran-230202/Otelier-Explorer/internal/models"
)

func cacheQuery(city string) models.SearchQuery {
	return models.SearchQuery{CityCode: city, CheckIn: "2025-06-01", CheckOut: "2025-06-03", Adults: 2, Rooms: 1}
}

func oneRecord(id string) []Record {
	rec := Record{}
	rec.Hotel.HotelID = id
	rec.Hotel.Name = "Hotel " + id
	return []Record{rec}
}

func TestOffersCache_ServesFromCacheWithinTTL(t *testing.T) {
	var calls atomic.Int64
	c := NewOffersCache(time.Minute, func(ctx context.Context, q models.SearchQuery) ([]Record, error) {
		calls.Add(1)
		return oneRecord("HL001"), nil
	})
	hits := 0
	c.OnHit(func() { hits++ })

	for i := 0; i < 3; i++ {
		recs, err := c.FetchOffers(context.Background(), cacheQuery("PAR"))
		require.NoError(t, err)
		require.Len(t, recs, 1)
	}

	require.EqualValues(t, 1, calls.Load())
	require.Equal(t, 2, hits)
}

func TestOffersCache_DistinctQueriesDistinctEntries(t *testing.T) {
	var calls atomic.Int64
	c := NewOffersCache(time.Minute, func(ctx context.Context, q models.SearchQuery) ([]Record, error) {
		calls.Add(1)
		return oneRecord(q.CityCode), nil
	})

	_, err := c.FetchOffers(context.Background(), cacheQuery("PAR"))
	require.NoError(t, err)
	_, err = c.FetchOffers(context.Background(), cacheQuery("BOM"))
	require.NoError(t, err)

	require.EqualValues(t, 2, calls.Load())
}

func TestOffersCache_CollapsesConcurrentIdenticalQueries(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	c := NewOffersCache(time.Minute, func(ctx context.Context, q models.SearchQuery) ([]Record, error) {
		calls.Add(1)
		<-release
		return oneRecord("HL001"), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recs, err := c.FetchOffers(context.Background(), cacheQuery("PAR"))
			require.NoError(t, err)
			require.Len(t, recs, 1)
		}()
	}

	// Let every goroutine join the in-flight entry before completing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.EqualValues(t, 1, calls.Load())
}

func TestOffersCache_ExpiresAfterTTL(t *testing.T) {
	var calls atomic.Int64
	c := NewOffersCache(20*time.Millisecond, func(ctx context.Context, q models.SearchQuery) ([]Record, error) {
		calls.Add(1)
		return oneRecord("HL001"), nil
	})

	_, err := c.FetchOffers(context.Background(), cacheQuery("PAR"))
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)
	_, err = c.FetchOffers(context.Background(), cacheQuery("PAR"))
	require.NoError(t, err)

	require.EqualValues(t, 2, calls.Load())
}

func TestOffersCache_ErrorsAreNotCached(t *testing.T) {
	var calls atomic.Int64
	c := NewOffersCache(time.Minute, func(ctx context.Context, q models.SearchQuery) ([]Record, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("upstream down")
		}
		return oneRecord("HL001"), nil
	})

	_, err := c.FetchOffers(context.Background(), cacheQuery("PAR"))
	require.Error(t, err)

	recs, err := c.FetchOffers(context.Background(), cacheQuery("PAR"))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.EqualValues(t, 2, calls.Load())
}
