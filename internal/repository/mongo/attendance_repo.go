package mongo

import (
	"context"
	"errors"
	"time"

	"smartsalle/gym-app/internal/domain"
	"smartsalle/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const attendanceCollectionName = "attendance_records"

// mongoAttendanceRepository implements repository.AttendanceRepository using
// MongoDB. A partial unique index on userId over documents whose
// checkOutTime is null guarantees at most one open record per member at the
// storage level, independent of the service's per-member lock.
type mongoAttendanceRepository struct {
	collection *mongo.Collection
}

// NewMongoAttendanceRepository creates a new instance of mongoAttendanceRepository.
func NewMongoAttendanceRepository(db *mongo.Database) repository.AttendanceRepository {
	return &mongoAttendanceRepository{
		collection: db.Collection(attendanceCollectionName),
	}
}

// Create inserts a new attendance record. Returns repository.ErrDuplicate if
// the member already has an open record.
func (r *mongoAttendanceRepository) Create(ctx context.Context, record *domain.AttendanceRecord) (primitive.ObjectID, error) {
	if record.UserID.IsZero() {
		return primitive.NilObjectID, errors.New("attendance user is required")
	}

	record.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves an attendance record by its ObjectID.
func (r *mongoAttendanceRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AttendanceRecord, error) {
	var record domain.AttendanceRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindOpenByUser retrieves the member's open record (checkOutTime null), if any.
func (r *mongoAttendanceRepository) FindOpenByUser(ctx context.Context, userID primitive.ObjectID) (*domain.AttendanceRecord, error) {
	var record domain.AttendanceRecord
	filter := bson.M{"userId": userID, "checkOutTime": nil}
	opts := options.FindOne().SetSort(bson.D{{Key: "checkInTime", Value: -1}})

	err := r.collection.FindOne(ctx, filter, opts).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Update replaces the stored record with the given one.
func (r *mongoAttendanceRepository) Update(ctx context.Context, record *domain.AttendanceRecord) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": record.ID}, record)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Find retrieves attendance records matching the filter, newest check-in first.
func (r *mongoAttendanceRepository) Find(ctx context.Context, filter repository.AttendanceFilter, page, size int) ([]domain.AttendanceRecord, error) {
	query := bson.M{}
	if filter.UserID != nil {
		query["userId"] = *filter.UserID
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.From != nil || filter.Until != nil {
		window := bson.M{}
		if filter.From != nil {
			window["$gte"] = *filter.From
		}
		if filter.Until != nil {
			window["$lt"] = *filter.Until
		}
		query["checkInTime"] = window
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "checkInTime", Value: -1}}).
		SetSkip(int64(page * size)).
		SetLimit(int64(size))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.AttendanceRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// windowFilter builds the half-open [from, until) check-in window filter.
func windowFilter(from, until time.Time) bson.M {
	return bson.M{"checkInTime": bson.M{"$gte": from, "$lt": until}}
}

// CountInWindow returns the number of visits whose check-in falls in [from, until).
func (r *mongoAttendanceRepository) CountInWindow(ctx context.Context, from, until time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, windowFilter(from, until))
}

// CountDistinctUsersInWindow returns how many distinct members visited in [from, until).
func (r *mongoAttendanceRepository) CountDistinctUsersInWindow(ctx context.Context, from, until time.Time) (int64, error) {
	values, err := r.collection.Distinct(ctx, "userId", windowFilter(from, until))
	if err != nil {
		return 0, err
	}
	return int64(len(values)), nil
}

// AverageDurationInWindow returns the mean visit duration in minutes over
// closed records whose check-in falls in [from, until). Zero when there are
// no closed records in the window.
func (r *mongoAttendanceRepository) AverageDurationInWindow(ctx context.Context, from, until time.Time) (float64, error) {
	match := windowFilter(from, until)
	match["durationInMinutes"] = bson.M{"$ne": nil}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$durationInMinutes"}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Avg float64 `bson:"avg"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Avg, nil
}

// EnsureAttendanceIndexes creates necessary indexes for the
// attendance_records collection.
func EnsureAttendanceIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// At most one open record per member. Open records store an
			// explicit null checkOutTime, which the partial filter matches
			// by type; closed records fall outside the index.
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"checkOutTime": bson.M{"$type": "null"}}),
		},
		{
			Keys:    bson.D{{Key: "checkInTime", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "checkInTime", Value: -1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
