package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookingForm(t *testing.T) {
	tests := []struct {
		name    string
		eventID string
		tickets string
		want    BookingForm
		errMsg  string
	}{
		{name: "valid", eventID: "7", tickets: "2", want: BookingForm{EventID: 7, Tickets: 2}},
		{name: "whitespace tolerated", eventID: " 7 ", tickets: "2 ", want: BookingForm{EventID: 7, Tickets: 2}},
		{name: "non numeric event", eventID: "seven", tickets: "2", errMsg: "event id must be a whole number"},
		{name: "non numeric tickets", eventID: "7", tickets: "", errMsg: "tickets must be a whole number"},
		{name: "zero tickets", eventID: "7", tickets: "0", errMsg: "tickets is required"},
		{name: "negative tickets", eventID: "7", tickets: "-3", errMsg: "tickets must be greater than 0"},
		{name: "negative event", eventID: "-1", tickets: "1", errMsg: "event id must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBookingForm(tt.eventID, tt.tickets)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegisterRequest_Validate(t *testing.T) {
	req := RegisterRequest{Name: "  Ada ", Email: " ada@example.com ", Password: "pw"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Ada", req.Name)
	assert.Equal(t, "ada@example.com", req.Email)

	missing := RegisterRequest{Email: "ada@example.com", Password: "pw"}
	err := missing.Validate()
	require.Error(t, err)
	assert.Equal(t, "name is required", err.Error())
}

func TestLoginRequest_Validate(t *testing.T) {
	req := LoginRequest{Email: "ada@example.com"}
	err := req.Validate()
	require.Error(t, err)
	assert.Equal(t, "password is required", err.Error())
}

func TestBookingOutcome_Message(t *testing.T) {
	id := "42"
	assert.Equal(t, "Booking successful!", Created(&id).Message())
	assert.Equal(t, "Not enough tickets available for this event.", InsufficientInventory().Message())
	assert.Equal(t, "Booking failed.", GenericFailure(500).Message())
	assert.Equal(t, "Service unavailable.", ServiceUnavailable().Message())
	assert.Equal(t, 0, ServiceUnavailable().Status)
	assert.Equal(t, "insufficient_inventory", BookingInsufficientInventory.String())
}

func TestEvent_Title(t *testing.T) {
	assert.Equal(t, "Jazz Night", Event{ID: 1, Name: "Jazz Night"}.Title())
	assert.Equal(t, "Event #9", Event{ID: 9}.Title())
}

func TestParseEvent(t *testing.T) {
	three := 3

	tests := []struct {
		name    string
		raw     string
		want    Event
		wantErr bool
	}{
		{
			name: "typed fields",
			raw:  `{"id":7,"name":"Jazz Night","date":"2026-11-01","location":"Hall A","available_tickets":3}`,
			want: Event{ID: 7, Name: "Jazz Night", Date: "2026-11-01", Location: "Hall A", AvailableTickets: &three},
		},
		{name: "string id", raw: `{"id":"7","name":"Jazz"}`, want: Event{ID: 7, Name: "Jazz"}},
		{name: "float tickets", raw: `{"id":7,"available_tickets":3.0}`, want: Event{ID: 7, AvailableTickets: &three}},
		{name: "object location ignored", raw: `{"id":7,"location":{"city":"Nairobi"}}`, want: Event{ID: 7}},
		{name: "numeric name", raw: `{"id":7,"name":2026}`, want: Event{ID: 7, Name: "2026"}},
		{name: "fractional tickets dropped", raw: `{"id":7,"available_tickets":2.5}`, want: Event{ID: 7}},
		{name: "missing id", raw: `{"name":"Jazz"}`, wantErr: true},
		{name: "non numeric id", raw: `{"id":"seven"}`, wantErr: true},
		{name: "fractional id", raw: `{"id":7.5}`, wantErr: true},
		{name: "not an object", raw: `[1,2]`, wantErr: true},
		{name: "null", raw: `null`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEvent([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
