package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blooner/bloodlink/internal/authz"
	"github.com/blooner/bloodlink/internal/database"
	"github.com/blooner/bloodlink/internal/pkg/pagination"
	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrEmailTaken is returned by Create when the email is already registered.
var ErrEmailTaken = apperrors.Wrap(apperrors.KindConflict, "DUPLICATE_EMAIL",
	"user already exists with this email, try different email", apperrors.ErrDuplicate)

var errUserNotFound = apperrors.NotFound("User not found")

// Repository handles database interactions for users. Email uniqueness is
// enforced by the index created in database.EnsureIndexes.
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection(database.UsersCollection)}
}

// Create inserts u with the default role and status.
func (r *Repository) Create(ctx context.Context, u *User) error {
	now := time.Now().UTC()
	u.ID = primitive.NilObjectID
	u.Role = authz.RoleDonor
	u.Status = StatusActive
	u.CreatedAt = now
	u.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// RoleByEmail implements authz.RoleResolver.
func (r *Repository) RoleByEmail(ctx context.Context, email string) (authz.Role, error) {
	var doc struct {
		Role authz.Role `bson:"role"`
	}
	opts := options.FindOne().SetProjection(bson.M{"role": 1})
	err := r.collection.FindOne(ctx, bson.M{"email": email}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", errUserNotFound
		}
		return "", fmt.Errorf("find role: %w", err)
	}
	return doc.Role, nil
}

// List returns one page of users matching filter and the total match count.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Request) ([]User, int64, error) {
	query := bson.M{}
	if filter != FilterAll && filter != "" {
		query["status"] = string(filter)
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.Limit))

	users, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *Repository) ListDonors(ctx context.Context) ([]User, error) {
	return r.find(ctx, bson.M{"role": authz.RoleDonor}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

// FindDonors matches active donors against the provided fields only.
func (r *Repository) FindDonors(ctx context.Context, q DonorQuery) ([]User, error) {
	query := bson.M{"role": authz.RoleDonor, "status": StatusActive}
	if q.BloodGroup != "" {
		query["bloodGroup"] = q.BloodGroup
	}
	if q.District != "" {
		query["district"] = q.District
	}
	if q.Upazila != "" {
		query["upazila"] = q.Upazila
	}
	return r.find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

// UpdateProfile merges fields into the record owned by email.
func (r *Repository) UpdateProfile(ctx context.Context, email string, fields map[string]string) (*User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	return r.findOneAndUpdate(ctx, bson.M{"email": email}, bson.M{"$set": set})
}

// ToggleStatus flips active and blocked in a single server-side update.
func (r *Repository) ToggleStatus(ctx context.Context, id primitive.ObjectID) (*User, error) {
	flip := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "status", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$status", StatusBlocked}}},
				StatusActive,
				StatusBlocked,
			}}}},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, flip)
}

func (r *Repository) SetRole(ctx context.Context, id primitive.ObjectID, role authz.Role) (*User, error) {
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"role":      role,
		"updatedAt": time.Now().UTC(),
	}})
}

func (r *Repository) findOneAndUpdate(ctx context.Context, filter, update interface{}) (*User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user User
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &user, nil
}

func (r *Repository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]User, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}
