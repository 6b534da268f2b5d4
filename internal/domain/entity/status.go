// internal/domain/entity/status.go
package entity

import (
	"encoding/json"
	"fmt"
)

// FlightStatus is the closed set of flight states. It is persisted as a
// string; membership is validated on every inbound conversion.
type FlightStatus int

const (
	StatusScheduled FlightStatus = iota
	StatusDelayed
	StatusCancelled
	StatusInAir
	StatusLanded
)

var statusNames = [...]string{
	StatusScheduled: "Scheduled",
	StatusDelayed:   "Delayed",
	StatusCancelled: "Cancelled",
	StatusInAir:     "InAir",
	StatusLanded:    "Landed",
}

// Valid reports whether s is a member of the enumeration.
func (s FlightStatus) Valid() bool {
	return s >= StatusScheduled && s <= StatusLanded
}

func (s FlightStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("FlightStatus(%d)", int(s))
	}
	return statusNames[s]
}

// ParseFlightStatus converts the persisted string form back to the enum.
func ParseFlightStatus(v string) (FlightStatus, error) {
	for i, name := range statusNames {
		if name == v {
			return FlightStatus(i), nil
		}
	}
	return StatusScheduled, fmt.Errorf("unknown flight status %q", v)
}

// MarshalJSON renders the status as its string form.
func (s FlightStatus) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid flight status %d", int(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts only members of the enumeration.
func (s *FlightStatus) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseFlightStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
