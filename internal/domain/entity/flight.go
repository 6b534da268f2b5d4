// internal/domain/entity/flight.go
package entity

import (
	"time"
)

// FlightRecord is the stored shape of a flight. Status is kept in its
// textual persisted form; conversion to the FlightStatus enum happens at
// the store boundary. LastModified is the optimistic concurrency token:
// assigned by the store on every insert and successful update, never by
// a caller.
type FlightRecord struct {
	ID               int64     `bson:"_id,omitempty"`
	FlightNumber     string    `bson:"flightNumber"`
	Airline          string    `bson:"airline"`
	DepartureAirport string    `bson:"departureAirport"`
	ArrivalAirport   string    `bson:"arrivalAirport"`
	DepartureTime    time.Time `bson:"departureTime"`
	ArrivalTime      time.Time `bson:"arrivalTime"`
	Status           string    `bson:"status"`
	LastModified     time.Time `bson:"lastModified"`
}

// FlightDetail is the externally visible flight representation. The
// concurrency token travels with every read so that a later update can
// present the token the client actually observed.
type FlightDetail struct {
	ID               int64        `json:"id"`
	FlightNumber     string       `json:"flightNumber" validate:"required,max=5"`
	Airline          string       `json:"airline" validate:"required,max=30"`
	DepartureAirport string       `json:"departureAirport" validate:"required,len=3"`
	ArrivalAirport   string       `json:"arrivalAirport" validate:"required,len=3,nefield=DepartureAirport"`
	DepartureTime    time.Time    `json:"departureTime"`
	ArrivalTime      time.Time    `json:"arrivalTime" validate:"gtfield=DepartureTime"`
	Status           FlightStatus `json:"status" validate:"flightstatus"`
	LastModified     time.Time    `json:"lastModified"`
}

// NextToken returns a fresh concurrency token strictly after prev.
// Tokens are UTC timestamps at millisecond precision; when the clock has
// not advanced past prev the token is bumped one millisecond so that two
// successive commits on the same record never share a token.
func NextToken(prev time.Time) time.Time {
	t := time.Now().UTC().Truncate(time.Millisecond)
	if !t.After(prev) {
		t = prev.Add(time.Millisecond)
	}
	return t
}
