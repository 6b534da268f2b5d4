package repository

import (
	"context"
	"sync"
	"time"

	"flightinfo-service/internal/domain/entity"
	"flightinfo-service/internal/domain/repository"
)

// MemoryFlightRepository is a mutex-guarded in-memory implementation of
// FlightRepository. Used for tests and the "memory" backend. Reads return
// copies; FindAll and Search report records in insertion order.
type MemoryFlightRepository struct {
	mu      sync.RWMutex
	flights map[int64]entity.FlightRecord
	order   []int64
	nextID  int64
}

// NewMemoryFlightRepository creates an empty in-memory flight repository.
func NewMemoryFlightRepository() *MemoryFlightRepository {
	return &MemoryFlightRepository{
		flights: make(map[int64]entity.FlightRecord),
		nextID:  1,
	}
}

func (r *MemoryFlightRepository) Insert(ctx context.Context, record entity.FlightRecord) (*entity.FlightRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.ID = r.nextID
	r.nextID++
	record.LastModified = entity.NextToken(time.Time{})

	r.flights[record.ID] = record
	r.order = append(r.order, record.ID)

	out := record
	return &out, nil
}

func (r *MemoryFlightRepository) FindByID(ctx context.Context, id int64) (*entity.FlightRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.flights[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := record
	return &out, nil
}

func (r *MemoryFlightRepository) FindAll(ctx context.Context) ([]entity.FlightRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]entity.FlightRecord, 0, len(r.order))
	for _, id := range r.order {
		records = append(records, r.flights[id])
	}
	return records, nil
}

func (r *MemoryFlightRepository) Search(ctx context.Context, criteria entity.SearchCriteria) ([]entity.FlightRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []entity.FlightRecord
	for _, id := range r.order {
		if criteria.Matches(r.flights[id]) {
			records = append(records, r.flights[id])
		}
	}
	return records, nil
}

// Update performs the compare-and-commit inside a single critical
// section: no other writer can observe a state between the token check
// and the write.
func (r *MemoryFlightRepository) Update(ctx context.Context, id int64, record entity.FlightRecord, expectedToken time.Time) (*entity.FlightRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.flights[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !current.LastModified.Equal(expectedToken) {
		return nil, repository.ErrConflict
	}

	record.ID = id
	record.LastModified = entity.NextToken(current.LastModified)
	r.flights[id] = record

	out := record
	return &out, nil
}

func (r *MemoryFlightRepository) Delete(ctx context.Context, id int64) (*entity.FlightRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.flights[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.flights, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	out := record
	return &out, nil
}
