package usecase

import (
	"context"
	"errors"

	"flightinfo-service/internal/domain/entity"
	"flightinfo-service/internal/domain/repository"
	"flightinfo-service/pkg/logger"
)

// ErrNoIDCreated — the store reported the insert as not applied. The
// boundary maps this to a server error.
var ErrNoIDCreated = errors.New("store did not create a flight id")

// FlightService orchestrates flight operations over the injected store.
// Conflict and not-found pass through as typed outcomes; nothing is
// retried here — retry-on-conflict is the caller's policy.
type FlightService struct {
	flights  repository.FlightRepository
	validate DetailValidator
	logger   logger.Logger
}

// NewFlightService creates a flight service
func NewFlightService(flights repository.FlightRepository, validate DetailValidator, log logger.Logger) *FlightService {
	return &FlightService{
		flights:  flights,
		validate: validate,
		logger:   log,
	}
}

// Create validates and inserts a new flight, returning the assigned id.
func (s *FlightService) Create(ctx context.Context, detail entity.FlightDetail) (int64, error) {
	if verrs := s.validate.Validate(detail); verrs != nil {
		return 0, verrs
	}

	created, err := s.flights.Insert(ctx, toRecord(detail))
	if err != nil {
		s.logger.Error("Failed to insert flight", "flightNumber", detail.FlightNumber, "error", err)
		return 0, err
	}
	if created == nil || created.ID == 0 {
		return 0, ErrNoIDCreated
	}

	s.logger.Info("Flight created", "id", created.ID, "flightNumber", created.FlightNumber)
	return created.ID, nil
}

// Get returns a single flight or repository.ErrNotFound.
func (s *FlightService) Get(ctx context.Context, id int64) (*entity.FlightDetail, error) {
	record, err := s.flights.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail, err := toDetail(*record)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetAll returns every flight in store order.
func (s *FlightService) GetAll(ctx context.Context) ([]entity.FlightDetail, error) {
	records, err := s.flights.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toDetails(records)
}

// Search returns the flights matching every provided criterion.
func (s *FlightService) Search(ctx context.Context, criteria entity.SearchCriteria) ([]entity.FlightDetail, error) {
	records, err := s.flights.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return toDetails(records)
}

// Update validates the detail and commits it against the token the
// caller observed on its read. Conflict is forwarded distinctly from
// not-found so callers can re-fetch and retry.
func (s *FlightService) Update(ctx context.Context, id int64, detail entity.FlightDetail) (*entity.FlightDetail, error) {
	if verrs := s.validate.Validate(detail); verrs != nil {
		return nil, verrs
	}

	updated, err := s.flights.Update(ctx, id, toRecord(detail), detail.LastModified.UTC())
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.logger.Warn("Concurrent update rejected", "id", id)
		}
		return nil, err
	}

	out, err := toDetail(*updated)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Flight updated", "id", id)
	return &out, nil
}

// Delete removes a flight and returns the removed detail.
func (s *FlightService) Delete(ctx context.Context, id int64) (*entity.FlightDetail, error) {
	record, err := s.flights.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	detail, err := toDetail(*record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Flight deleted", "id", id)
	return &detail, nil
}
