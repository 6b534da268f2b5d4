package usecase

import (
	"fmt"

	"flightinfo-service/internal/domain/entity"
)

// toRecord converts the boundary shape into the stored shape: times are
// normalized to UTC and the status enum becomes its persisted string
// form. Id and token are left for the store to assign.
func toRecord(detail entity.FlightDetail) entity.FlightRecord {
	return entity.FlightRecord{
		FlightNumber:     detail.FlightNumber,
		Airline:          detail.Airline,
		DepartureAirport: detail.DepartureAirport,
		ArrivalAirport:   detail.ArrivalAirport,
		DepartureTime:    detail.DepartureTime.UTC(),
		ArrivalTime:      detail.ArrivalTime.UTC(),
		Status:           detail.Status.String(),
	}
}

// toDetail converts a stored record into the boundary shape. Status
// membership is validated on every conversion; a record carrying an
// unknown status is a corrupt store, not a not-found.
func toDetail(record entity.FlightRecord) (entity.FlightDetail, error) {
	status, err := entity.ParseFlightStatus(record.Status)
	if err != nil {
		return entity.FlightDetail{}, fmt.Errorf("flight %d: %w", record.ID, err)
	}

	return entity.FlightDetail{
		ID:               record.ID,
		FlightNumber:     record.FlightNumber,
		Airline:          record.Airline,
		DepartureAirport: record.DepartureAirport,
		ArrivalAirport:   record.ArrivalAirport,
		DepartureTime:    record.DepartureTime.UTC(),
		ArrivalTime:      record.ArrivalTime.UTC(),
		Status:           status,
		LastModified:     record.LastModified.UTC(),
	}, nil
}

// toDetails maps a result set, preserving store order.
func toDetails(records []entity.FlightRecord) ([]entity.FlightDetail, error) {
	details := make([]entity.FlightDetail, 0, len(records))
	for _, record := range records {
		detail, err := toDetail(record)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}
