package usecase

import (
	"errors"
	"fmt"
	"strings"

	"flightinfo-service/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single violated validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the ordered list of every violated rule for one
// request. It implements error so handlers can return it as a typed
// outcome; the store is never touched when it is non-empty.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// DetailValidator validates an inbound FlightDetail before any store
// interaction. Injected into handlers so alternate rule sets can be
// substituted.
type DetailValidator interface {
	Validate(detail entity.FlightDetail) ValidationErrors
}

// PlaygroundValidator implements DetailValidator with
// go-playground/validator driven by the tags on FlightDetail.
type PlaygroundValidator struct {
	validate *validator.Validate
}

// NewPlaygroundValidator builds the validator and registers the custom
// flight status membership check.
func NewPlaygroundValidator() *PlaygroundValidator {
	v := validator.New()
	v.RegisterValidation("flightstatus", validateFlightStatus)
	return &PlaygroundValidator{validate: v}
}

// validateFlightStatus checks membership in the closed status set.
func validateFlightStatus(fl validator.FieldLevel) bool {
	status, ok := fl.Field().Interface().(entity.FlightStatus)
	return ok && status.Valid()
}

// ruleMessages maps field+tag to the caller-facing message.
var ruleMessages = map[string]string{
	"FlightNumber|required":     "Flight number is required.",
	"FlightNumber|max":          "Flight number must be at most 5 characters.",
	"Airline|required":          "Airline is required.",
	"Airline|max":               "Airline must be at most 30 characters.",
	"DepartureAirport|required": "Departure airport is required.",
	"DepartureAirport|len":      "Departure airport must be a 3-letter IATA code.",
	"ArrivalAirport|required":   "Arrival airport is required.",
	"ArrivalAirport|len":        "Arrival airport must be a 3-letter IATA code.",
	"ArrivalAirport|nefield":    "Arrival airport must be different from departure airport.",
	"ArrivalTime|gtfield":       "Arrival time must be after departure time.",
	"Status|flightstatus":       "Status must be a valid flight status.",
}

// Validate runs every rule and collects all violations; it never stops
// at the first failure. A nil result means the detail is valid.
func (p *PlaygroundValidator) Validate(detail entity.FlightDetail) ValidationErrors {
	err := p.validate.Struct(detail)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{{Field: "FlightDetail", Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := ruleMessages[fe.Field()+"|"+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s failed on the %s rule.", fe.Field(), fe.Tag())
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
