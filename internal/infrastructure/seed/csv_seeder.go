// Package seed loads initial flight data from a CSV export. Rows go
// through the repository so ids and concurrency tokens stay
// store-assigned.
package seed

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"
	"time"

	"flightinfo-service/internal/domain/entity"
	"flightinfo-service/internal/domain/repository"
	"flightinfo-service/pkg/logger"
)

// Column layout: id, flightNumber, airline, departureAirport,
// arrivalAirport, departureTime, arrivalTime, status. The id column is
// ignored; the store assigns its own.
const expectedColumns = 8

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// FromCSV seeds the repository from the CSV file at path. A header line
// is expected and skipped; malformed rows are skipped with a warning.
// Seeding only runs against an empty store; otherwise it is a no-op.
// Returns the number of rows inserted.
func FromCSV(ctx context.Context, repo repository.FlightRepository, path string, log logger.Logger) (int, error) {
	existing, err := repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Info("Store already has flights, skipping seed", "count", len(existing))
		return 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, err
	}

	inserted := 0
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("Skipping unreadable seed row", "line", line, "error", err)
			continue
		}

		record, ok := parseRow(row)
		if !ok {
			log.Warn("Skipping malformed seed row", "line", line)
			continue
		}

		if _, err := repo.Insert(ctx, record); err != nil {
			return inserted, err
		}
		inserted++
	}

	log.Info("Seeded flights from CSV", "path", path, "count", inserted)
	return inserted, nil
}

func parseRow(row []string) (entity.FlightRecord, bool) {
	if len(row) != expectedColumns {
		return entity.FlightRecord{}, false
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	departure, ok := parseTime(row[5])
	if !ok {
		return entity.FlightRecord{}, false
	}
	arrival, ok := parseTime(row[6])
	if !ok {
		return entity.FlightRecord{}, false
	}
	status, err := entity.ParseFlightStatus(row[7])
	if err != nil {
		return entity.FlightRecord{}, false
	}

	return entity.FlightRecord{
		FlightNumber:     row[1],
		Airline:          row[2],
		DepartureAirport: row[3],
		ArrivalAirport:   row[4],
		DepartureTime:    departure,
		ArrivalTime:      arrival,
		Status:           status.String(),
	}, true
}

func parseTime(v string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
