package users

import (
	"time"

	"github.com/blooner/bloodlink/internal/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
)

// Toggled returns the opposite status. Anything that is not blocked counts
// as active.
func (s Status) Toggled() Status {
	if s == StatusBlocked {
		return StatusActive
	}
	return StatusBlocked
}

// User represents a registered donor, volunteer or admin
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email      string             `bson:"email" json:"email"`
	Name       string             `bson:"name,omitempty" json:"name,omitempty"`
	Avatar     string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	BloodGroup string             `bson:"bloodGroup,omitempty" json:"bloodGroup,omitempty"`
	District   string             `bson:"district,omitempty" json:"district,omitempty"`
	Upazila    string             `bson:"upazila,omitempty" json:"upazila,omitempty"`
	Role       authz.Role         `bson:"role" json:"role"`
	Status     Status             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ListFilter is the ?options= value of the admin user list.
type ListFilter string

const (
	FilterAll     ListFilter = "all"
	FilterActive  ListFilter = "active"
	FilterBlocked ListFilter = "blocked"
)

func (f ListFilter) IsValid() bool {
	switch f {
	case FilterAll, FilterActive, FilterBlocked:
		return true
	}
	return false
}

// CreateUserRequest is the self-registration payload. Role and status are
// never taken from the caller.
type CreateUserRequest struct {
	Email      string `json:"email" binding:"required"`
	Name       string `json:"name" binding:"omitempty,max=100"`
	Avatar     string `json:"avatar" binding:"omitempty,url"`
	BloodGroup string `json:"bloodGroup" binding:"omitempty,bloodgroup"`
	District   string `json:"district" binding:"omitempty,max=100"`
	Upazila    string `json:"upazila" binding:"omitempty,max=100"`
}

// UpdateProfileRequest holds the fields a user may change on their own
// record. Absent fields are left untouched.
type UpdateProfileRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=100"`
	Avatar     *string `json:"avatar" binding:"omitempty,url"`
	BloodGroup *string `json:"bloodGroup" binding:"omitempty,bloodgroup"`
	District   *string `json:"district" binding:"omitempty,min=1,max=100"`
	Upazila    *string `json:"upazila" binding:"omitempty,min=1,max=100"`
}

// Fields returns the provided values keyed by their stored field name.
func (r UpdateProfileRequest) Fields() map[string]string {
	out := make(map[string]string, 5)
	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	set("name", r.Name)
	set("avatar", r.Avatar)
	set("bloodGroup", r.BloodGroup)
	set("district", r.District)
	set("upazila", r.Upazila)
	return out
}

// SetRoleRequest is the body of the admin role change.
type SetRoleRequest struct {
	Role authz.Role `json:"role" binding:"required,role"`
}

// DonorQuery is the allow-listed donor search. Empty fields match anything.
type DonorQuery struct {
	BloodGroup string `json:"bloodGroup" binding:"omitempty,bloodgroup"`
	District   string `json:"district" binding:"omitempty,max=100"`
	Upazila    string `json:"upazila" binding:"omitempty,max=100"`
}

// CreateUserResponse mirrors the insert result clients expect. InsertedID
// is null when the email is already registered.
// UserLookupResponse is the GET /users/:email body. User is null when absent.
type UserLookupResponse struct {
	User *User `json:"user"`
}

type CreateUserResponse struct {
	Message    string              `json:"message,omitempty"`
	InsertedID *primitive.ObjectID `json:"insertedId"`
}

// ToggleStatusResponse reports the status after a flip
type ToggleStatusResponse struct {
	ID     primitive.ObjectID `json:"_id"`
	Status Status             `json:"status"`
}
