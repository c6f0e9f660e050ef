package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/goccy/go-json"

	"event-booking-portal/internal/logging"
)

// render writes component with status. Render errors after the header is
// sent can only be logged.
func render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Failed to render page")
	}
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
