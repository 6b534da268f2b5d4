package usecase

import (
	"testing"
	"time"

	"flightinfo-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDetail() entity.FlightDetail {
	departure := time.Date(2024, time.November, 20, 8, 30, 0, 0, time.UTC)
	return entity.FlightDetail{
		FlightNumber:     "NZ128",
		Airline:          "Air New Zealand",
		DepartureAirport: "AKL",
		ArrivalAirport:   "SYD",
		DepartureTime:    departure,
		ArrivalTime:      departure.Add(3 * time.Hour),
		Status:           entity.StatusScheduled,
	}
}

func TestValidatorAcceptsValidDetail(t *testing.T) {
	v := NewPlaygroundValidator()
	assert.Nil(t, v.Validate(validDetail()))
}

func TestValidatorFieldRules(t *testing.T) {
	v := NewPlaygroundValidator()

	cases := []struct {
		name    string
		mutate  func(*entity.FlightDetail)
		field   string
		message string
	}{
		{
			name:    "missing airline",
			mutate:  func(d *entity.FlightDetail) { d.Airline = "" },
			field:   "Airline",
			message: "Airline is required.",
		},
		{
			name:    "airline too long",
			mutate:  func(d *entity.FlightDetail) { d.Airline = "The Longest Airline Name In The World" },
			field:   "Airline",
			message: "Airline must be at most 30 characters.",
		},
		{
			name:    "missing flight number",
			mutate:  func(d *entity.FlightDetail) { d.FlightNumber = "" },
			field:   "FlightNumber",
			message: "Flight number is required.",
		},
		{
			name:    "flight number too long",
			mutate:  func(d *entity.FlightDetail) { d.FlightNumber = "NZ1234" },
			field:   "FlightNumber",
			message: "Flight number must be at most 5 characters.",
		},
		{
			name:    "departure airport wrong length",
			mutate:  func(d *entity.FlightDetail) { d.DepartureAirport = "AKLD" },
			field:   "DepartureAirport",
			message: "Departure airport must be a 3-letter IATA code.",
		},
		{
			name:    "arrival airport wrong length",
			mutate:  func(d *entity.FlightDetail) { d.ArrivalAirport = "SY" },
			field:   "ArrivalAirport",
			message: "Arrival airport must be a 3-letter IATA code.",
		},
		{
			name:    "same departure and arrival airport",
			mutate:  func(d *entity.FlightDetail) { d.ArrivalAirport = d.DepartureAirport },
			field:   "ArrivalAirport",
			message: "Arrival airport must be different from departure airport.",
		},
		{
			name:    "arrival not after departure",
			mutate:  func(d *entity.FlightDetail) { d.ArrivalTime = d.DepartureTime },
			field:   "ArrivalTime",
			message: "Arrival time must be after departure time.",
		},
		{
			name:    "status outside the enumeration",
			mutate:  func(d *entity.FlightDetail) { d.Status = entity.FlightStatus(42) },
			field:   "Status",
			message: "Status must be a valid flight status.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			detail := validDetail()
			tc.mutate(&detail)

			verrs := v.Validate(detail)
			require.Len(t, verrs, 1)
			assert.Equal(t, tc.field, verrs[0].Field)
			assert.Equal(t, tc.message, verrs[0].Message)
		})
	}
}

// TestValidatorCollectsAllViolations verifies rules are not
// short-circuited: every violated rule is reported together, in field
// order.
func TestValidatorCollectsAllViolations(t *testing.T) {
	v := NewPlaygroundValidator()

	detail := validDetail()
	detail.ArrivalAirport = detail.DepartureAirport
	detail.ArrivalTime = detail.DepartureTime.Add(-time.Hour)

	verrs := v.Validate(detail)
	require.Len(t, verrs, 2)
	assert.Equal(t, "ArrivalAirport", verrs[0].Field)
	assert.Equal(t, "Arrival airport must be different from departure airport.", verrs[0].Message)
	assert.Equal(t, "ArrivalTime", verrs[1].Field)
	assert.Equal(t, "Arrival time must be after departure time.", verrs[1].Message)
}

func TestValidationErrorsError(t *testing.T) {
	verrs := ValidationErrors{
		{Field: "Airline", Message: "Airline is required."},
		{Field: "ArrivalTime", Message: "Arrival time must be after departure time."},
	}
	assert.Equal(t,
		"validation failed: Airline: Airline is required.; ArrivalTime: Arrival time must be after departure time.",
		verrs.Error())
}
