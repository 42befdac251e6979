package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhub/taskhub/backend/go-services/internal/models"
)

// Repository defines persistence operations for the user directory.
// Lookups return (nil, nil) when no record exists.
type Repository interface {
	GetBySubject(ctx context.Context, subjectID string) (*models.User, error)
	// CreateIfAbsent inserts u unless a record for u.SubjectID already exists,
	// in which case the existing record is returned. Must be atomic: two
	// concurrent calls for the same unseen subject yield a single record.
	CreateIfAbsent(ctx context.Context, u *models.User) (*models.User, error)
	UpdateRole(ctx context.Context, id, role string) (*models.User, error)
}

// MongoRepository implements Repository using MongoDB
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates a repository for the given collection and ensures
// the unique index on subjectId that CreateIfAbsent relies on.
func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "subjectId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	col.Indexes().CreateOne(context.Background(), idx)
	return &MongoRepository{col: col}
}

func (r *MongoRepository) GetBySubject(ctx context.Context, subjectID string) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"subjectId": subjectID}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoRepository) CreateIfAbsent(ctx context.Context, u *models.User) (*models.User, error) {
	now := time.Now().UTC()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// lost the provisioning race; the winner's record is authoritative
			return r.GetBySubject(ctx, u.SubjectID)
		}
		return nil, err
	}
	return u, nil
}

func (r *MongoRepository) UpdateRole(ctx context.Context, id, role string) (*models.User, error) {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
