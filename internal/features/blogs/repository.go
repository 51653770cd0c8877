package blogs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blooner/bloodlink/internal/database"
	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errBlogNotFound = apperrors.NotFound("Blog not found")

// Repository handles database interactions for blog posts
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection(database.BlogsCollection)}
}

// Create inserts b as a draft.
func (r *Repository) Create(ctx context.Context, b *Blog) error {
	now := time.Now().UTC()
	b.ID = primitive.NilObjectID
	b.Status = StatusDraft
	b.CreatedAt = now
	b.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, b)
	if err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		b.ID = oid
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id primitive.ObjectID) (*Blog, error) {
	var b Blog
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errBlogNotFound
		}
		return nil, fmt.Errorf("find blog: %w", err)
	}
	return &b, nil
}

// List returns posts with the given status, or all posts when status is empty.
func (r *Repository) List(ctx context.Context, status Status) ([]Blog, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find blogs: %w", err)
	}
	defer cursor.Close(ctx)

	blogs := make([]Blog, 0)
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, fmt.Errorf("decode blogs: %w", err)
	}
	return blogs, nil
}

func (r *Repository) SetStatus(ctx context.Context, id primitive.ObjectID, status Status) (*Blog, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}

	var b Blog
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errBlogNotFound
		}
		return nil, fmt.Errorf("update blog status: %w", err)
	}
	return &b, nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if result.DeletedCount == 0 {
		return errBlogNotFound
	}
	return nil
}
