package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"event-booking-portal/internal/logging"
	"event-booking-portal/internal/metrics"
	"event-booking-portal/internal/models"
)

// insufficientInventoryMarker is the text the booking service puts in a 400
// body when the event is sold out.
const insufficientInventoryMarker = "Not enough tickets available"

const maxBookingBody = 1 << 20

// BookingClient posts booking requests to the booking service. No retries and
// no idempotency key: a timeout after the booking was created is reported as
// ServiceUnavailable and not resent.
type BookingClient struct {
	url    string
	client *http.Client
}

// NewBookingClient creates a booking submission client.
func NewBookingClient(url string, timeout time.Duration) *BookingClient {
	return &BookingClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// SubmitBooking posts req and interprets the answer.
func (c *BookingClient) SubmitBooking(ctx context.Context, req models.BookingRequest) models.BookingOutcome {
	log := logging.Ctx(ctx).With().Str("endpoint", c.url).Int("event_id", req.EventID).Logger()
	start := time.Now()

	status, body, err := c.post(ctx, req)
	if err != nil {
		metrics.RecordDownstream("booking", "error", time.Since(start))
		metrics.BookingOutcomes.WithLabelValues(models.BookingServiceUnavailable.String()).Inc()
		log.Error().Err(err).Msg("Error booking ticket")
		return models.ServiceUnavailable()
	}
	metrics.RecordDownstream("booking", "response", time.Since(start))

	outcome := ParseBookingResponse(status, body)
	metrics.BookingOutcomes.WithLabelValues(outcome.Kind.String()).Inc()

	switch outcome.Kind {
	case models.BookingCreated:
		log.Info().Str("booking_id", derefOr(outcome.BookingID, "")).Msg("Booking created")
	case models.BookingInsufficientInventory:
		log.Info().Int("status", status).Msg("Booking rejected: not enough tickets")
	default:
		log.Warn().Int("status", status).Bytes("body", truncate(body, 512)).Msg("Booking failed")
	}
	return outcome
}

func (c *BookingClient) post(ctx context.Context, req models.BookingRequest) (int, []byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode booking: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if id := logging.RequestIDFromContext(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: POST %s: %v", models.ErrDownstreamUnavailable, c.url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBookingBody))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading %s: %v", models.ErrDownstreamUnavailable, c.url, err)
	}
	return resp.StatusCode, body, nil
}

// ParseBookingResponse maps a booking service answer to an outcome:
//
//	201                                          -> Created (booking_id optional)
//	400 containing "Not enough tickets available" -> InsufficientInventory
//	anything else                                -> GenericFailure
//
// Transport failures never reach this function; the client reports them as
// ServiceUnavailable.
func ParseBookingResponse(status int, body []byte) models.BookingOutcome {
	switch {
	case status == http.StatusCreated:
		return models.Created(extractBookingID(body))
	case status == http.StatusBadRequest && bytes.Contains(body, []byte(insufficientInventoryMarker)):
		return models.InsufficientInventory()
	default:
		return models.GenericFailure(status)
	}
}

// extractBookingID accepts a numeric or string booking_id. Anything else,
// including a body that is not JSON, yields nil.
func extractBookingID(body []byte) *string {
	var payload struct {
		BookingID interface{} `json:"booking_id"`
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil
	}

	var id string
	switch v := payload.BookingID.(type) {
	case json.Number:
		id = v.String()
	case string:
		id = v
	default:
		return nil
	}
	if id == "" {
		return nil
	}
	return &id
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
