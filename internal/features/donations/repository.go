package donations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blooner/bloodlink/internal/database"
	"github.com/blooner/bloodlink/internal/pkg/pagination"
	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errRequestNotFound = apperrors.NotFound("Donation request not found")

var errStatusRaced = apperrors.Conflict("INVALID_TRANSITION", "Donation request status changed, retry")

// Repository handles database interactions for donation requests
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection(database.DonationRequestsCollection)}
}

// Create inserts dr as a new pending request.
func (r *Repository) Create(ctx context.Context, dr *DonationRequest) error {
	now := time.Now().UTC()
	dr.ID = primitive.NilObjectID
	dr.Status = StatusPending
	dr.CreatedAt = now
	dr.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, dr)
	if err != nil {
		return fmt.Errorf("insert donation request: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		dr.ID = oid
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id primitive.ObjectID) (*DonationRequest, error) {
	var dr DonationRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&dr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errRequestNotFound
		}
		return nil, fmt.Errorf("find donation request: %w", err)
	}
	return &dr, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]DonationRequest, error) {
	return r.find(ctx, bson.M{}, newestFirst())
}

func (r *Repository) ListPending(ctx context.Context) ([]DonationRequest, error) {
	return r.find(ctx, bson.M{"status": StatusPending}, newestFirst())
}

// List returns one page matching filter and the total match count.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Request) ([]DonationRequest, int64, error) {
	query := bson.M{}
	if filter.RequesterEmail != "" {
		query["requesterEmail"] = filter.RequesterEmail
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count donation requests: %w", err)
	}

	items, err := r.find(ctx, query, newestFirst().SetSkip(int64(page.Skip())).SetLimit(int64(page.Limit)))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Assign records the donor and moves the request to inprogress, but only
// while it is still pending.
func (r *Repository) Assign(ctx context.Context, id primitive.ObjectID, donorName, donorEmail string) (*DonationRequest, error) {
	filter := bson.M{"_id": id, "status": StatusPending}
	update := bson.M{"$set": bson.M{
		"donorName":  donorName,
		"donorEmail": donorEmail,
		"status":     StatusInProgress,
		"updatedAt":  time.Now().UTC(),
	}}

	dr, err := r.findOneAndUpdate(ctx, filter, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.explainMiss(ctx, id, StatusInProgress)
	}
	return dr, err
}

// UpdateStatus applies next only if the stored status may legally move to
// it. The check and the write are one conditional update.
func (r *Repository) UpdateStatus(ctx context.Context, id primitive.ObjectID, next Status) (*DonationRequest, error) {
	from := sourcesOf(next)
	if len(from) == 0 {
		return nil, r.explainMiss(ctx, id, next)
	}

	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"status": next, "updatedAt": time.Now().UTC()}}

	dr, err := r.findOneAndUpdate(ctx, filter, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.explainMiss(ctx, id, next)
	}
	return dr, err
}

// UpdateFields merges non-status fields.
func (r *Repository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]string) (*DonationRequest, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	dr, err := r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errRequestNotFound
	}
	return dr, err
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete donation request: %w", err)
	}
	if result.DeletedCount == 0 {
		return errRequestNotFound
	}
	return nil
}

// explainMiss turns a conditional update that matched nothing into not
// found or a transition conflict. A move that is legal from the status read
// back lost a race with another writer.
func (r *Repository) explainMiss(ctx context.Context, id primitive.ObjectID, next Status) error {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkTransition(current.Status, next); err != nil {
		return err
	}
	return errStatusRaced
}

func (r *Repository) findOneAndUpdate(ctx context.Context, filter, update interface{}) (*DonationRequest, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var dr DonationRequest
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&dr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, fmt.Errorf("update donation request: %w", err)
	}
	return &dr, nil
}

func (r *Repository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]DonationRequest, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find donation requests: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]DonationRequest, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode donation requests: %w", err)
	}
	return items, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
}
