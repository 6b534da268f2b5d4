package repository

import (
	"context"
	"errors"
	"time"

	"flightinfo-service/internal/domain/entity"
)

// Sentinel outcomes of store operations. Callers match with errors.Is.
var (
	// ErrNotFound — no record with the requested id.
	ErrNotFound = errors.New("flight record not found")
	// ErrConflict — optimistic token mismatch: another writer committed
	// between the caller's read and this update.
	ErrConflict = errors.New("flight record was modified concurrently")
)

// FlightRepository defines the interface for flight record storage.
// Implementations must be safe for concurrent use. Update is the one
// operation with cross-caller discipline: the token compare and the
// commit must be a single atomic step with respect to other writers.
type FlightRepository interface {
	// Insert stores a new record, assigning a fresh id and concurrency
	// token. The returned record carries both.
	Insert(ctx context.Context, record entity.FlightRecord) (*entity.FlightRecord, error)

	// FindByID returns the record with the given id, or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*entity.FlightRecord, error)

	// FindAll returns every record in stable order.
	FindAll(ctx context.Context) ([]entity.FlightRecord, error)

	// Search returns the records satisfying every provided criterion.
	// No matches is an empty result, not an error.
	Search(ctx context.Context, criteria entity.SearchCriteria) ([]entity.FlightRecord, error)

	// Update applies record's fields to the stored record with the given
	// id, but only if the stored token still equals expectedToken.
	// Returns ErrNotFound when the id is absent and ErrConflict when the
	// token no longer matches; on success the returned record carries the
	// newly assigned token. Never retries internally.
	Update(ctx context.Context, id int64, record entity.FlightRecord, expectedToken time.Time) (*entity.FlightRecord, error)

	// Delete removes and returns the record, or ErrNotFound.
	Delete(ctx context.Context, id int64) (*entity.FlightRecord, error)
}
