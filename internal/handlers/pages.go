package handlers

import (
	"net/http"

	"event-booking-portal/internal/logging"
	"event-booking-portal/internal/middleware"
	"event-booking-portal/internal/models"
	"event-booking-portal/internal/services"
	"event-booking-portal/web/templates/pages"
)

const msgRawEventsFailed = "Failed to fetch raw events."

// PageHandler serves the authenticated pages and the raw events diagnostic.
// Downstream failures never become error responses here.
type PageHandler struct {
	events  services.EventDirectory
	booking services.BookingSubmitter
}

// NewPageHandler creates a new page handler
func NewPageHandler(events services.EventDirectory, booking services.BookingSubmitter) *PageHandler {
	return &PageHandler{events: events, booking: booking}
}

// Home greets the logged-in user.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, pages.Home(pages.HomeData{Nav: navFor(r)}))
}

// Events lists events. If the event service fails the list is empty.
func (h *PageHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.FetchEvents(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Error fetching events")
		events = nil
	}
	render(w, r, http.StatusOK, pages.Events(pages.EventsData{Nav: navFor(r), Events: events}))
}

// BookPage renders the booking form, prefilled from ?event_id=.
func (h *PageHandler) BookPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, pages.BookTicket(pages.BookTicketData{
		Nav:     navFor(r),
		EventID: r.URL.Query().Get("event_id"),
	}))
}

// BookSubmit validates the form, forwards the booking and shows the outcome.
func (h *PageHandler) BookSubmit(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	rawEventID, rawTickets := r.PostFormValue("event_id"), r.PostFormValue("tickets")
	formData := pages.BookTicketData{Nav: navFor(r), EventID: rawEventID, Tickets: rawTickets}

	form, err := models.ParseBookingForm(rawEventID, rawTickets)
	if err != nil {
		formData.Error = err.Error()
		render(w, r, http.StatusUnprocessableEntity, pages.BookTicket(formData))
		return
	}

	outcome := h.booking.SubmitBooking(r.Context(), models.BookingRequest{
		UserID:  principal.UserID,
		EventID: form.EventID,
		Tickets: form.Tickets,
	})

	if outcome.Kind == models.BookingCreated {
		render(w, r, http.StatusOK, pages.BookingSuccess(pages.BookingSuccessData{
			Nav:       formData.Nav,
			Message:   outcome.Message(),
			BookingID: outcome.BookingID,
		}))
		return
	}

	formData.Error = outcome.Message()
	render(w, r, http.StatusOK, pages.BookTicket(formData))
}

// RawEvents returns the event service payload untouched. It needs no session.
func (h *PageHandler) RawEvents(w http.ResponseWriter, r *http.Request) {
	raw, err := h.events.FetchRawEvents(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Error fetching raw events")
		writeJSON(w, http.StatusOK, map[string]string{"error": msgRawEventsFailed})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
