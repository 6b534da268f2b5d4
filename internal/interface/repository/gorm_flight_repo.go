package repository

import (
	"context"
	"errors"
	"time"

	"flightinfo-service/internal/domain/entity"
	"flightinfo-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormFlightRepository implements FlightRepository on PostgreSQL through
// GORM. The compare-and-commit is a single conditional UPDATE keyed on
// both id and last_modified; zero rows affected is disambiguated into
// not-found vs conflict with a follow-up existence check.
type GormFlightRepository struct {
	db *gorm.DB
}

// Flights GORM model for database mapping
type Flights struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	FlightNumber     string    `gorm:"column:flight_number"`
	Airline          string    `gorm:"column:airline"`
	DepartureAirport string    `gorm:"column:departure_airport"`
	ArrivalAirport   string    `gorm:"column:arrival_airport"`
	DepartureTime    time.Time `gorm:"column:departure_time"`
	ArrivalTime      time.Time `gorm:"column:arrival_time"`
	Status           string    `gorm:"column:status"`
	LastModified     time.Time `gorm:"column:last_modified"`
}

// TableName overrides the default table name
func (Flights) TableName() string {
	return "flights"
}

// NewGormFlightRepository creates a new GORM flight repository and
// ensures the flights table exists.
func NewGormFlightRepository(db *gorm.DB) (repository.FlightRepository, error) {
	if err := db.AutoMigrate(&Flights{}); err != nil {
		return nil, err
	}
	return &GormFlightRepository{db: db}, nil
}

func toModel(record entity.FlightRecord) Flights {
	return Flights{
		ID:               record.ID,
		FlightNumber:     record.FlightNumber,
		Airline:          record.Airline,
		DepartureAirport: record.DepartureAirport,
		ArrivalAirport:   record.ArrivalAirport,
		DepartureTime:    record.DepartureTime,
		ArrivalTime:      record.ArrivalTime,
		Status:           record.Status,
		LastModified:     record.LastModified,
	}
}

func toEntity(model Flights) entity.FlightRecord {
	return entity.FlightRecord{
		ID:               model.ID,
		FlightNumber:     model.FlightNumber,
		Airline:          model.Airline,
		DepartureAirport: model.DepartureAirport,
		ArrivalAirport:   model.ArrivalAirport,
		DepartureTime:    model.DepartureTime.UTC(),
		ArrivalTime:      model.ArrivalTime.UTC(),
		Status:           model.Status,
		LastModified:     model.LastModified.UTC(),
	}
}

func (r *GormFlightRepository) Insert(ctx context.Context, record entity.FlightRecord) (*entity.FlightRecord, error) {
	record.LastModified = entity.NextToken(time.Time{})

	model := toModel(record)
	model.ID = 0
	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return nil, result.Error
	}

	out := toEntity(model)
	return &out, nil
}

func (r *GormFlightRepository) FindByID(ctx context.Context, id int64) (*entity.FlightRecord, error) {
	var model Flights
	result := r.db.WithContext(ctx).First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, result.Error
	}

	out := toEntity(model)
	return &out, nil
}

func (r *GormFlightRepository) FindAll(ctx context.Context) ([]entity.FlightRecord, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *GormFlightRepository) Search(ctx context.Context, criteria entity.SearchCriteria) ([]entity.FlightRecord, error) {
	query := r.db.WithContext(ctx)

	if criteria.Airline != "" {
		query = query.Where("LOWER(airline) = LOWER(?)", criteria.Airline)
	}
	if criteria.DepartureAirport != "" {
		query = query.Where("LOWER(departure_airport) = LOWER(?)", criteria.DepartureAirport)
	}
	if criteria.ArrivalAirport != "" {
		query = query.Where("LOWER(arrival_airport) = LOWER(?)", criteria.ArrivalAirport)
	}
	if criteria.FromDate != nil {
		query = query.Where("departure_time >= ?", entity.StartOfDay(*criteria.FromDate))
	}
	if criteria.ToDate != nil {
		query = query.Where("arrival_time < ?", entity.StartOfDay(*criteria.ToDate))
	}

	return r.find(query)
}

func (r *GormFlightRepository) find(query *gorm.DB) ([]entity.FlightRecord, error) {
	var models []Flights
	result := query.Order("id").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	records := make([]entity.FlightRecord, 0, len(models))
	for _, model := range models {
		records = append(records, toEntity(model))
	}
	return records, nil
}

func (r *GormFlightRepository) Update(ctx context.Context, id int64, record entity.FlightRecord, expectedToken time.Time) (*entity.FlightRecord, error) {
	token := entity.NextToken(expectedToken)

	result := r.db.WithContext(ctx).
		Model(&Flights{}).
		Where("id = ? AND last_modified = ?", id, expectedToken).
		Updates(map[string]interface{}{
			"flight_number":     record.FlightNumber,
			"airline":           record.Airline,
			"departure_airport": record.DepartureAirport,
			"arrival_airport":   record.ArrivalAirport,
			"departure_time":    record.DepartureTime,
			"arrival_time":      record.ArrivalTime,
			"status":            record.Status,
			"last_modified":     token,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// The conditional write missed: absent row or stale token.
		var count int64
		if err := r.db.WithContext(ctx).Model(&Flights{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, repository.ErrNotFound
		}
		return nil, repository.ErrConflict
	}

	record.ID = id
	record.LastModified = token
	out := record
	return &out, nil
}

func (r *GormFlightRepository) Delete(ctx context.Context, id int64) (*entity.FlightRecord, error) {
	record, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Delete(&Flights{}, id)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}
	return record, nil
}
