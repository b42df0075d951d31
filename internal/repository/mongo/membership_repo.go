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

const membershipCollectionName = "memberships"

// mongoMembershipRepository implements repository.MembershipRepository using MongoDB.
type mongoMembershipRepository struct {
	collection *mongo.Collection
}

// NewMongoMembershipRepository creates a new instance of mongoMembershipRepository.
func NewMongoMembershipRepository(db *mongo.Database) repository.MembershipRepository {
	return &mongoMembershipRepository{
		collection: db.Collection(membershipCollectionName),
	}
}

// Create inserts a new membership into the database.
func (r *mongoMembershipRepository) Create(ctx context.Context, membership *domain.Membership) (primitive.ObjectID, error) {
	if membership.UserID.IsZero() || membership.GymID.IsZero() {
		return primitive.NilObjectID, errors.New("membership user and gym are required")
	}

	membership.ID = primitive.NewObjectID()
	membership.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, membership)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a membership by its ObjectID.
func (r *mongoMembershipRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Membership, error) {
	var membership domain.Membership
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&membership)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &membership, nil
}

// FindByGymID retrieves all memberships for a gym, newest first.
func (r *mongoMembershipRepository) FindByGymID(ctx context.Context, gymID primitive.ObjectID) ([]domain.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"gymId": gymID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var memberships []domain.Membership
	if err = cursor.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// EnsureMembershipIndexes creates necessary indexes for the memberships collection.
func EnsureMembershipIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "gymId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
