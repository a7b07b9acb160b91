package hotel

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Kiran-230202/Otelier-Explorer/internal/amadeus"
	"github.com/Kiran-230202/Otelier-Explorer/internal/apperr"
	"github.com/Kiran-230202/Otelier-Explorer/internal/models"
)

type stubSource struct {
	mu    sync.Mutex
	calls int
	fn    func(call int, q models.SearchQuery) ([]amadeus.Record, error)
}

func (s *stubSource) FetchOffers(ctx context.Context, q models.SearchQuery) ([]amadeus.Record, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.mu.Unlock()
	return s.fn(call, q)
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func records(prefix string, n int) []amadeus.Record {
	recs := make([]amadeus.Record, 0, n)
	for i := 0; i < n; i++ {
		rec := amadeus.Record{}
		rec.Hotel.HotelID = fmt.Sprintf("%s%03d", prefix, i+1)
		rec.Hotel.Name = "Hotel " + rec.Hotel.HotelID
		recs = append(recs, rec)
	}
	return recs
}

func validQuery() models.SearchQuery {
	return models.SearchQuery{CityCode: "PAR", CheckIn: "2025-06-01", CheckOut: "2025-06-03", Adults: 2, Rooms: 1}
}

func TestSession_RunSearchCommitsResultsAndWindow(t *testing.T) {
	src := &stubSource{fn: func(call int, q models.SearchQuery) ([]amadeus.Record, error) {
		return records("HL", 10), nil
	}}
	sess := NewSession(src, zerolog.Nop())

	require.NoError(t, sess.RunSearch(context.Background(), validQuery()))
	require.Equal(t, 10, sess.Total())
	require.Equal(t, 8, sess.WindowSize())
	require.Len(t, sess.Visible(), 8)
	require.Equal(t, "PAR", sess.Query().CityCode)
}

func TestSession_ValidationFailsFastWithoutNetworkCall(t *testing.T) {
	src := &stubSource{fn: func(call int, q models.SearchQuery) ([]amadeus.Record, error) {
		return records("HL", 3), nil
	}}
	sess := NewSession(src, zerolog.Nop())

	err := sess.RunSearch(context.Background(), models.SearchQuery{CheckIn: "2025-06-01"})
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Zero(t, src.callCount())

	err = sess.RunSearch(context.Background(), models.SearchQuery{CityCode: "PAR"})
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Zero(t, src.callCount())
}

func TestSession_FailedSearchKeepsPreviousResults(t *testing.T) {
	src := &stubSource{fn: func(call int, q models.SearchQuery) ([]amadeus.Record, error) {
		if call == 1 {
			return records("HL", 10), nil
		}
		return nil, apperr.NotFoundf("no properties for city %s", q.CityCode)
	}}
	sess := NewSession(src, zerolog.Nop())

	require.NoError(t, sess.RunSearch(context.Background(), validQuery()))

	q2 := validQuery()
	q2.CityCode = "XYZ"
	err := sess.RunSearch(context.Background(), q2)
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	// Stale-but-consistent: previous results and window survive.
	require.Equal(t, 10, sess.Total())
	require.Equal(t, 8, sess.WindowSize())
	require.Equal(t, "PAR", sess.Query().CityCode)
}

func TestSession_StaleResponseSuppressed(t *testing.T) {
	releaseA := make(chan struct{})
	src := &stubSource{fn: func(call int, q models.SearchQuery) ([]amadeus.Record, error) {
		if call == 1 {
			<-releaseA // search A resolves only after B committed
			return records("AAA", 6), nil
		}
		return records("BBB", 4), nil
	}}
	sess := NewSession(src, zerolog.Nop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		require.NoError(t, sess.RunSearch(context.Background(), validQuery()))
	}()

	// Wait until A is in flight, then run B to completion.
	require.Eventually(t, func() bool { return src.callCount() == 1 }, time.Second, time.Millisecond)
	q2 := validQuery()
	q2.CityCode = "BOM"
	require.NoError(t, sess.RunSearch(context.Background(), q2))

	close(releaseA)
	wg.Wait()

	require.Equal(t, 4, sess.Total())
	require.Equal(t, "BBB001", sess.Results()[0].HotelID)
	require.Equal(t, "BOM", sess.Query().CityCode)
}

func TestSession_SelectionSurvivesNewSearch(t *testing.T) {
	src := &stubSource{fn: func(call int, q models.SearchQuery) ([]amadeus.Record, error) {
		if call == 1 {
			return records("HL", 10), nil
		}
		return records("ZZ", 5), nil
	}}
	sess := NewSession(src, zerolog.Nop())

	require.NoError(t, sess.RunSearch(context.Background(), validQuery()))
	picked, ok := sess.FindResult("HL003")
	require.True(t, ok)
	sess.Selection().Toggle(picked)

	q2 := validQuery()
	q2.CityCode = "BOM"
	require.NoError(t, sess.RunSearch(context.Background(), q2))

	require.True(t, sess.Selection().Contains("HL003"))
	require.Len(t, sess.Selection().List(), 1)
}

func TestSession_VisibilitySignalIgnoredDuringSearch(t *testing.T) {
	release := make(chan struct{})
	src := &stubSource{fn: func(call int, q models.SearchQuery) ([]amadeus.Record, error) {
		if call == 1 {
			return records("HL", 14), nil
		}
		<-release
		return nil, apperr.Remotef("upstream down")
	}}
	sess := NewSessionWithWindow(src, NewWindowWithDelay(10*time.Millisecond), zerolog.Nop())

	require.NoError(t, sess.RunSearch(context.Background(), validQuery()))
	require.Equal(t, 8, sess.WindowSize())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = sess.RunSearch(context.Background(), validQuery())
	}()
	require.Eventually(t, func() bool { return src.callCount() == 2 }, time.Second, time.Millisecond)

	sess.NotifyLastItemVisible() // dropped: a search is in flight
	close(release)
	wg.Wait()

	time.Sleep(30 * time.Millisecond)
	require.Equal(t, 8, sess.WindowSize())
}

func TestSession_WindowExpansionEndToEnd(t *testing.T) {
	src := &stubSource{fn: func(call int, q models.SearchQuery) ([]amadeus.Record, error) {
		return records("HL", 14), nil
	}}
	sess := NewSessionWithWindow(src, NewWindowWithDelay(10*time.Millisecond), zerolog.Nop())

	require.NoError(t, sess.RunSearch(context.Background(), validQuery()))
	require.Equal(t, 8, sess.WindowSize())

	sess.NotifyLastItemVisible()
	require.Eventually(t, func() bool { return sess.WindowSize() == 12 }, time.Second, time.Millisecond)
	require.Len(t, sess.Visible(), 12)

	sess.NotifyLastItemVisible()
	require.Eventually(t, func() bool { return sess.WindowSize() == 14 }, time.Second, time.Millisecond)
	require.Len(t, sess.Visible(), 14)
}
