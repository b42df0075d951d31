package mongo

import (
	"context"
	"errors"

	"smartsalle/gym-app/internal/domain"
	"smartsalle/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const registrationCollectionName = "event_registrations"

// mongoRegistrationRepository implements repository.EventRegistrationRepository
// using MongoDB. The compound unique index on (eventId, userId) is the
// storage-level backstop for the one-registration-per-member invariant.
type mongoRegistrationRepository struct {
	collection *mongo.Collection
}

// NewMongoRegistrationRepository creates a new instance of mongoRegistrationRepository.
func NewMongoRegistrationRepository(db *mongo.Database) repository.EventRegistrationRepository {
	return &mongoRegistrationRepository{
		collection: db.Collection(registrationCollectionName),
	}
}

// Create inserts a new registration. Returns repository.ErrDuplicate when
// the member is already registered for the event.
func (r *mongoRegistrationRepository) Create(ctx context.Context, reg *domain.EventRegistration) (primitive.ObjectID, error) {
	if reg.EventID.IsZero() || reg.UserID.IsZero() {
		return primitive.NilObjectID, errors.New("registration event and user are required")
	}

	reg.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, reg)
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

// Get retrieves the registration for (eventID, userID), if any.
func (r *mongoRegistrationRepository) Get(ctx context.Context, eventID, userID primitive.ObjectID) (*domain.EventRegistration, error) {
	var reg domain.EventRegistration
	filter := bson.M{"eventId": eventID, "userId": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&reg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}

// Delete removes the registration for (eventID, userID).
func (r *mongoRegistrationRepository) Delete(ctx context.Context, eventID, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"eventId": eventID, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountByEvent returns how many registrations an event currently holds.
func (r *mongoRegistrationRepository) CountByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"eventId": eventID})
}

// FindByEvent retrieves all registrations for an event, oldest first.
func (r *mongoRegistrationRepository) FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]domain.EventRegistration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "registrationTime", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"eventId": eventID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var regs []domain.EventRegistration
	if err = cursor.All(ctx, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// DeleteByEvent removes every registration for an event and returns how many
// were removed. Used when deleting an event: dependents go first, inside the
// same transaction.
func (r *mongoRegistrationRepository) DeleteByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureRegistrationIndexes creates necessary indexes for the
// event_registrations collection.
func EnsureRegistrationIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// One registration per (event, member).
			Keys:    bson.D{{Key: "eventId", Value: 1}, {Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
