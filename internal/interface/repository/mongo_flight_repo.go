package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"flightinfo-service/internal/domain/entity"
	"flightinfo-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFlightRepository implements FlightRepository on a MongoDB
// collection. Ids come from a counters sequence document; the optimistic
// compare-and-commit is a single conditional FindOneAndUpdate filtered on
// both _id and the expected token.
type MongoFlightRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

// NewMongoFlightRepository creates a new flight repository
func NewMongoFlightRepository(db *mongo.Database) repository.FlightRepository {
	collection := db.Collection("flights")

	// Indexes for the search predicates
	ctx := context.Background()
	for _, key := range []string{"airline", "departureAirport", "arrivalAirport", "departureTime"} {
		indexModel := mongo.IndexModel{
			Keys: bson.M{key: 1},
		}
		collection.Indexes().CreateOne(ctx, indexModel)
	}

	return &MongoFlightRepository{
		collection: collection,
		counters:   db.Collection("counters"),
	}
}

// nextID increments and returns the flight id sequence.
func (r *MongoFlightRepository) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var seq struct {
		Value int64 `bson:"value"`
	}
	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": "flights"},
		bson.M{"$inc": bson.M{"value": 1}},
		opts,
	).Decode(&seq)
	if err != nil {
		return 0, err
	}
	return seq.Value, nil
}

func (r *MongoFlightRepository) Insert(ctx context.Context, record entity.FlightRecord) (*entity.FlightRecord, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	record.ID = id
	record.LastModified = entity.NextToken(time.Time{})

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return nil, err
	}
	out := record
	return &out, nil
}

func (r *MongoFlightRepository) FindByID(ctx context.Context, id int64) (*entity.FlightRecord, error) {
	var record entity.FlightRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *MongoFlightRepository) FindAll(ctx context.Context) ([]entity.FlightRecord, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoFlightRepository) Search(ctx context.Context, criteria entity.SearchCriteria) ([]entity.FlightRecord, error) {
	filter := bson.M{}

	if criteria.Airline != "" {
		filter["airline"] = caseInsensitiveEq(criteria.Airline)
	}
	if criteria.DepartureAirport != "" {
		filter["departureAirport"] = caseInsensitiveEq(criteria.DepartureAirport)
	}
	if criteria.ArrivalAirport != "" {
		filter["arrivalAirport"] = caseInsensitiveEq(criteria.ArrivalAirport)
	}
	if criteria.FromDate != nil {
		filter["departureTime"] = bson.M{"$gte": entity.StartOfDay(*criteria.FromDate)}
	}
	if criteria.ToDate != nil {
		filter["arrivalTime"] = bson.M{"$lt": entity.StartOfDay(*criteria.ToDate)}
	}

	return r.find(ctx, filter)
}

func (r *MongoFlightRepository) find(ctx context.Context, filter bson.M) ([]entity.FlightRecord, error) {
	opts := options.Find().SetSort(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []entity.FlightRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *MongoFlightRepository) Update(ctx context.Context, id int64, record entity.FlightRecord, expectedToken time.Time) (*entity.FlightRecord, error) {
	token := entity.NextToken(expectedToken)

	updateDoc := bson.M{
		"flightNumber":     record.FlightNumber,
		"airline":          record.Airline,
		"departureAirport": record.DepartureAirport,
		"arrivalAirport":   record.ArrivalAirport,
		"departureTime":    record.DepartureTime,
		"arrivalTime":      record.ArrivalTime,
		"status":           record.Status,
		"lastModified":     token,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"_id": id, "lastModified": expectedToken}

	var updated entity.FlightRecord
	err := r.collection.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$set": updateDoc},
		opts,
	).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// The conditional write missed: either the id is gone or another
	// writer advanced the token.
	count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if countErr != nil {
		return nil, countErr
	}
	if count == 0 {
		return nil, repository.ErrNotFound
	}
	return nil, repository.ErrConflict
}

func (r *MongoFlightRepository) Delete(ctx context.Context, id int64) (*entity.FlightRecord, error) {
	var record entity.FlightRecord
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// caseInsensitiveEq builds an anchored case-insensitive exact match.
func caseInsensitiveEq(v string) primitive.Regex {
	return primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(v) + "$",
		Options: "i",
	}
}
