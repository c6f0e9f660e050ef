package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"event-booking-portal/internal/logging"
	"event-booking-portal/internal/metrics"
	"event-booking-portal/internal/models"
)

// maxEventsBody caps how much of the event service response is read.
const maxEventsBody = 10 << 20

// errCallerGone marks a call abandoned because the caller's context ended.
// The event service was not at fault, so the breaker ignores it.
var errCallerGone = errors.New("caller context done")

// transportError classifies a failed round trip. The client's own Timeout
// leaves ctx untouched and still counts against the event service.
func transportError(ctx context.Context, op, url string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w: %s %s: %v", models.ErrDownstreamUnavailable, errCallerGone, op, url, err)
	}
	return fmt.Errorf("%w: %s %s: %v", models.ErrDownstreamUnavailable, op, url, err)
}

// EventClientConfig configures the event directory client.
type EventClientConfig struct {
	URL             string
	Timeout         time.Duration
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// EventClient fetches the event list with a single GET. It does not retry or
// cache; while the breaker is open calls fail immediately.
type EventClient struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewEventClient creates an event directory client.
func NewEventClient(cfg EventClientConfig) *EventClient {
	return &EventClient{
		url:     cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: newBreaker("event-directory", cfg.BreakerFailures, cfg.BreakerCooldown),
	}
}

// FetchEvents returns the decoded event list. The payload must be a JSON
// array; entries that cannot be read are logged and skipped.
func (c *EventClient) FetchEvents(ctx context.Context) ([]models.Event, error) {
	body, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode events from %s: %w", c.url, err)
	}

	events := make([]models.Event, 0, len(items))
	for i, item := range items {
		event, err := models.ParseEvent(item)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).
				Str("endpoint", c.url).
				Int("index", i).
				Msg("Skipping unreadable event")
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// FetchRawEvents returns the payload exactly as the event service sent it,
// provided it is valid JSON.
func (c *EventClient) FetchRawEvents(ctx context.Context) (json.RawMessage, error) {
	body, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("event service at %s returned invalid JSON", c.url)
	}
	return json.RawMessage(body), nil
}

func (c *EventClient) fetch(ctx context.Context) ([]byte, error) {
	if c.breaker == nil {
		return c.get(ctx)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordDownstream("events", "rejected", 0)
		return nil, fmt.Errorf("%w: %s: %v", models.ErrDownstreamUnavailable, c.url, err)
	}
	return body, err
}

func (c *EventClient) get(ctx context.Context) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordDownstream("events", downstreamResult(ctx), time.Since(start))
		return nil, transportError(ctx, "GET", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordDownstream("events", "bad_status", time.Since(start))
		return nil, fmt.Errorf("%w: GET %s returned %d", models.ErrDownstreamStatus, c.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxEventsBody))
	if err != nil {
		metrics.RecordDownstream("events", downstreamResult(ctx), time.Since(start))
		return nil, transportError(ctx, "reading", c.url, err)
	}

	metrics.RecordDownstream("events", "success", time.Since(start))
	return body, nil
}

func downstreamResult(ctx context.Context) string {
	if ctx.Err() != nil {
		return "canceled"
	}
	return "error"
}
