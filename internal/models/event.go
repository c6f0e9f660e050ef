package models

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Event is one entry of the event directory. The directory owns the schema;
// only the fields the listing page shows are kept, unknown ones are ignored.
type Event struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	Date             string `json:"date,omitempty"`
	Location         string `json:"location,omitempty"`
	AvailableTickets *int   `json:"available_tickets,omitempty"`
}

// Title falls back to the id when the directory sent no name.
func (e Event) Title() string {
	if e.Name != "" {
		return e.Name
	}
	return "Event #" + itoa(e.ID)
}

// ParseEvent reads one directory entry. Only the id is required: it may be a
// whole JSON number or a numeric string. Descriptive fields of an unexpected
// shape are left empty instead of failing the entry.
func ParseEvent(raw []byte) (Event, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return Event{}, fmt.Errorf("event is not a JSON object: %w", err)
	}
	if fields == nil {
		return Event{}, errors.New("event is null")
	}

	id, ok := wholeNumber(fields["id"])
	if !ok {
		return Event{}, fmt.Errorf("event id %v is not a whole number", fields["id"])
	}

	e := Event{
		ID:          id,
		Name:        scalarText(fields["name"]),
		Description: scalarText(fields["description"]),
		Date:        scalarText(fields["date"]),
		Location:    scalarText(fields["location"]),
	}
	if n, ok := wholeNumber(fields["available_tickets"]); ok {
		e.AvailableTickets = &n
	}
	return e, nil
}

// wholeNumber accepts 7, 7.0 and "7".
func wholeNumber(v interface{}) (int, bool) {
	var text string
	switch t := v.(type) {
	case json.Number:
		text = t.String()
	case string:
		text = strings.TrimSpace(t)
	default:
		return 0, false
	}

	if n, err := strconv.Atoi(text); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func scalarText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
