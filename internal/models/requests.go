package models

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoginRequest is the login form.
type LoginRequest struct {
	Email    string `form:"email" validate:"required,max=255"`
	Password string `form:"password" validate:"required"`
}

// RegisterRequest is the registration form.
type RegisterRequest struct {
	Name     string `form:"name" validate:"required,max=255"`
	Email    string `form:"email" validate:"required,max=255"`
	Password string `form:"password" validate:"required"`
}

// BookingForm is the ticket booking form.
type BookingForm struct {
	EventID int `form:"event_id" validate:"required,gt=0"`
	Tickets int `form:"tickets" validate:"required,gt=0"`
}

// Validate validates the login form.
func (r *LoginRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	return describe(validate.Struct(r))
}

// Validate validates the registration form.
func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	return describe(validate.Struct(r))
}

// ParseBookingForm converts the raw form values and validates them.
func ParseBookingForm(eventID, tickets string) (BookingForm, error) {
	var form BookingForm

	id, err := strconv.Atoi(strings.TrimSpace(eventID))
	if err != nil {
		return form, errors.New("event id must be a whole number")
	}
	n, err := strconv.Atoi(strings.TrimSpace(tickets))
	if err != nil {
		return form, errors.New("tickets must be a whole number")
	}

	form = BookingForm{EventID: id, Tickets: n}
	return form, describe(validate.Struct(&form))
}

// describe turns validator errors into a single readable message.
func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return errors.New(field + " is required")
	case "gt":
		return errors.New(field + " must be greater than " + fe.Param())
	case "max":
		return errors.New(field + " must be at most " + fe.Param() + " characters")
	default:
		return errors.New(field + " is invalid")
	}
}

func fieldLabel(name string) string {
	switch name {
	case "EventID":
		return "event id"
	default:
		return strings.ToLower(name)
	}
}
