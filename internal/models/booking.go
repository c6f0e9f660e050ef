package models

import "strconv"

// BookingRequest is the body posted to the booking service.
type BookingRequest struct {
	UserID  int `json:"user_id"`
	EventID int `json:"event_id"`
	Tickets int `json:"tickets"`
}

// BookingOutcomeKind tags a BookingOutcome.
type BookingOutcomeKind int

const (
	BookingCreated BookingOutcomeKind = iota + 1
	BookingInsufficientInventory
	BookingGenericFailure
	BookingServiceUnavailable
)

func (k BookingOutcomeKind) String() string {
	switch k {
	case BookingCreated:
		return "created"
	case BookingInsufficientInventory:
		return "insufficient_inventory"
	case BookingGenericFailure:
		return "generic_failure"
	case BookingServiceUnavailable:
		return "service_unavailable"
	default:
		return "unknown"
	}
}

// User-facing messages for each outcome.
const (
	MsgBookingSuccessful     = "Booking successful!"
	MsgInsufficientInventory = "Not enough tickets available for this event."
	MsgBookingFailed         = "Booking failed."
	MsgServiceUnavailable    = "Service unavailable."
)

// BookingOutcome is the interpreted result of one booking submission.
// BookingID is only meaningful for BookingCreated and may be nil there too.
type BookingOutcome struct {
	Kind      BookingOutcomeKind
	BookingID *string
	// Status is the downstream HTTP status; 0 when no response arrived.
	Status int
}

func Created(bookingID *string) BookingOutcome {
	return BookingOutcome{Kind: BookingCreated, BookingID: bookingID, Status: 201}
}

func InsufficientInventory() BookingOutcome {
	return BookingOutcome{Kind: BookingInsufficientInventory, Status: 400}
}

func GenericFailure(status int) BookingOutcome {
	return BookingOutcome{Kind: BookingGenericFailure, Status: status}
}

func ServiceUnavailable() BookingOutcome {
	return BookingOutcome{Kind: BookingServiceUnavailable}
}

// Message returns the inline text shown on the booking pages.
func (o BookingOutcome) Message() string {
	switch o.Kind {
	case BookingCreated:
		return MsgBookingSuccessful
	case BookingInsufficientInventory:
		return MsgInsufficientInventory
	case BookingServiceUnavailable:
		return MsgServiceUnavailable
	default:
		return MsgBookingFailed
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
