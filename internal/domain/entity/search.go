// internal/domain/entity/search.go
package entity

import (
	"strings"
	"time"
)

// SearchCriteria is a sparse filter set. Empty strings and nil dates
// contribute no constraint; provided fields combine conjunctively.
type SearchCriteria struct {
	Airline          string
	DepartureAirport string
	ArrivalAirport   string
	FromDate         *time.Time
	ToDate           *time.Time
}

// IsEmpty reports whether no constraint was provided at all.
func (c SearchCriteria) IsEmpty() bool {
	return c.Airline == "" && c.DepartureAirport == "" && c.ArrivalAirport == "" &&
		c.FromDate == nil && c.ToDate == nil
}

// Matches evaluates the criteria against a single record. String fields
// are exact matches ignoring case. FromDate includes flights departing on
// or after the start of that day; ToDate excludes flights arriving at or
// after the start of that day (exclusive upper bound, day granularity).
func (c SearchCriteria) Matches(rec FlightRecord) bool {
	if c.Airline != "" && !strings.EqualFold(c.Airline, rec.Airline) {
		return false
	}
	if c.DepartureAirport != "" && !strings.EqualFold(c.DepartureAirport, rec.DepartureAirport) {
		return false
	}
	if c.ArrivalAirport != "" && !strings.EqualFold(c.ArrivalAirport, rec.ArrivalAirport) {
		return false
	}
	if c.FromDate != nil && rec.DepartureTime.Before(StartOfDay(*c.FromDate)) {
		return false
	}
	if c.ToDate != nil && !rec.ArrivalTime.Before(StartOfDay(*c.ToDate)) {
		return false
	}
	return true
}

// StartOfDay truncates t to midnight UTC of its calendar day. Time of day
// on a search criterion is ignored.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
