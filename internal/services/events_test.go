package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-booking-portal/internal/logging"
	"event-booking-portal/internal/models"
)

func newEventServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/events", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEventClient_FetchEvents(t *testing.T) {
	srv := newEventServer(t, http.StatusOK,
		`[{"id":1,"name":"Jazz Night","date":"2026-11-01","location":"Hall A","available_tickets":40,"price":12.5},{"id":2,"name":"Opera"}]`)

	client := NewEventClient(EventClientConfig{URL: srv.URL + "/api/events", Timeout: time.Second})
	events, err := client.FetchEvents(context.Background())

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Jazz Night", events[0].Name)
	require.NotNil(t, events[0].AvailableTickets)
	assert.Equal(t, 40, *events[0].AvailableTickets)
	assert.Nil(t, events[1].AvailableTickets)
}

func TestEventClient_FetchEventsSkipsUnreadableEntries(t *testing.T) {
	var logs bytes.Buffer
	previous := logging.Logger()
	logging.SetLogger(zerolog.New(&logs))
	t.Cleanup(func() { logging.SetLogger(previous) })

	srv := newEventServer(t, http.StatusOK, `[
		{"id":"7","name":"Jazz Night","available_tickets":3.0},
		{"id":8,"name":"Opera","location":{"city":"Nairobi"}},
		{"name":"no id"},
		"not an object",
		{"id":9,"name":"Ballet"}
	]`)

	client := NewEventClient(EventClientConfig{URL: srv.URL + "/api/events", Timeout: time.Second})
	events, err := client.FetchEvents(context.Background())

	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, 7, events[0].ID)
	require.NotNil(t, events[0].AvailableTickets)
	assert.Equal(t, 3, *events[0].AvailableTickets)
	assert.Equal(t, "Opera", events[1].Name)
	assert.Empty(t, events[1].Location)
	assert.Equal(t, 9, events[2].ID)

	assert.Contains(t, logs.String(), `"index":2`)
	assert.Contains(t, logs.String(), `"index":3`)
	assert.NotContains(t, logs.String(), `"index":1`)
}

func TestEventClient_FetchEventsFailures(t *testing.T) {
	t.Run("non 2xx status", func(t *testing.T) {
		srv := newEventServer(t, http.StatusInternalServerError, `{"error":"boom"}`)
		client := NewEventClient(EventClientConfig{URL: srv.URL + "/api/events", Timeout: time.Second})

		_, err := client.FetchEvents(context.Background())
		assert.ErrorIs(t, err, models.ErrDownstreamStatus)
	})

	t.Run("transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL + "/api/events"
		srv.Close()

		client := NewEventClient(EventClientConfig{URL: url, Timeout: time.Second})
		_, err := client.FetchEvents(context.Background())
		assert.ErrorIs(t, err, models.ErrDownstreamUnavailable)
	})

	t.Run("not a list", func(t *testing.T) {
		srv := newEventServer(t, http.StatusOK, `{"events":[]}`)
		client := NewEventClient(EventClientConfig{URL: srv.URL + "/api/events", Timeout: time.Second})

		_, err := client.FetchEvents(context.Background())
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(srv.Close)
		t.Cleanup(func() { close(release) })

		client := NewEventClient(EventClientConfig{URL: srv.URL + "/api/events", Timeout: 50 * time.Millisecond})
		_, err := client.FetchEvents(context.Background())
		assert.ErrorIs(t, err, models.ErrDownstreamUnavailable)
	})
}

func TestEventClient_FetchRawEvents(t *testing.T) {
	srv := newEventServer(t, http.StatusOK, `{"anything": [1, 2, 3]}`)
	client := NewEventClient(EventClientConfig{URL: srv.URL + "/api/events", Timeout: time.Second})

	raw, err := client.FetchRawEvents(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"anything": [1, 2, 3]}`, string(raw))

	bad := newEventServer(t, http.StatusOK, `<html>not json</html>`)
	client = NewEventClient(EventClientConfig{URL: bad.URL + "/api/events", Timeout: time.Second})
	_, err = client.FetchRawEvents(context.Background())
	assert.Error(t, err)
}

func TestEventClient_ForwardsRequestID(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	client := NewEventClient(EventClientConfig{URL: srv.URL, Timeout: time.Second})
	ctx := logging.ContextWithRequestID(context.Background(), "req-9")
	_, err := client.FetchEvents(ctx)

	require.NoError(t, err)
	assert.Equal(t, "req-9", got)
}

func TestEventClient_BreakerOpensAndFailsFast(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client := NewEventClient(EventClientConfig{
		URL:             srv.URL,
		Timeout:         time.Second,
		BreakerFailures: 2,
		BreakerCooldown: time.Hour,
	})

	for i := 0; i < 2; i++ {
		_, err := client.FetchEvents(context.Background())
		assert.ErrorIs(t, err, models.ErrDownstreamStatus)
	}

	_, err := client.FetchEvents(context.Background())
	assert.ErrorIs(t, err, models.ErrDownstreamUnavailable)
	assert.Equal(t, int32(2), calls.Load(), "open breaker must not reach the event service")
}

func TestEventClient_CallerCancellationDoesNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-time.After(50 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Jazz Night"}]`))
	}))
	t.Cleanup(srv.Close)

	client := NewEventClient(EventClientConfig{
		URL:             srv.URL,
		Timeout:         time.Second,
		BreakerFailures: 2,
		BreakerCooldown: time.Hour,
	})

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		_, err := client.FetchEvents(ctx)
		cancel()
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrDownstreamUnavailable)
		assert.True(t, errors.Is(err, errCallerGone), "caller deadline should be marked: %v", err)
	}

	events, err := client.FetchEvents(context.Background())
	require.NoError(t, err, "breaker must stay closed after caller cancellations")
	assert.Len(t, events, 1)
	assert.Positive(t, calls.Load())
}

func TestEventClient_ClientTimeoutTripsBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)

	client := NewEventClient(EventClientConfig{
		URL:             srv.URL,
		Timeout:         20 * time.Millisecond,
		BreakerFailures: 2,
		BreakerCooldown: time.Hour,
	})

	for i := 0; i < 2; i++ {
		_, err := client.FetchEvents(context.Background())
		require.Error(t, err)
		assert.False(t, errors.Is(err, errCallerGone))
	}

	before := calls.Load()
	_, err := client.FetchEvents(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDownstreamUnavailable)
	assert.Contains(t, err.Error(), "circuit breaker is open")
	assert.Equal(t, before, calls.Load(), "open breaker must not reach the event service")
}
