package donations

import (
	"fmt"
	"time"

	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "inprogress"
	StatusDone       Status = "done"
	StatusCanceled   Status = "canceled"
)

// transitions lists the legal next states. done and canceled are final.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCanceled},
	StatusInProgress: {StatusDone, StatusCanceled, StatusPending},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone, StatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a request in s may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// sourcesOf returns every status that may move to next.
func sourcesOf(next Status) []Status {
	var from []Status
	for s, targets := range transitions {
		for _, to := range targets {
			if to == next {
				from = append(from, s)
			}
		}
	}
	return from
}

// checkTransition is nil when a request in from may move to next and a
// 409 INVALID_TRANSITION otherwise.
func checkTransition(from, next Status) error {
	if from.CanTransitionTo(next) {
		return nil
	}
	return apperrors.Conflict("INVALID_TRANSITION", TransitionError(from, next))
}

// TransitionError describes a rejected status change.
func TransitionError(from, to Status) string {
	return fmt.Sprintf("cannot change status from %s to %s", from, to)
}

// DonationRequest is a blood need tracked from creation to completion.
type DonationRequest struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	RequesterName     string             `bson:"requesterName" json:"requesterName"`
	RequesterEmail    string             `bson:"requesterEmail" json:"requesterEmail"`
	RecipientName     string             `bson:"recipientName" json:"recipientName"`
	RecipientDistrict string             `bson:"recipientDistrict" json:"recipientDistrict"`
	RecipientUpazila  string             `bson:"recipientUpazila" json:"recipientUpazila"`
	HospitalName      string             `bson:"hospitalName" json:"hospitalName"`
	FullAddress       string             `bson:"fullAddress" json:"fullAddress"`
	BloodGroup        string             `bson:"bloodGroup" json:"bloodGroup"`
	DonationDate      string             `bson:"donationDate" json:"donationDate"`
	DonationTime      string             `bson:"donationTime" json:"donationTime"`
	RequestMessage    string             `bson:"requestMessage,omitempty" json:"requestMessage,omitempty"`
	Status            Status             `bson:"status" json:"status"`
	DonorName         string             `bson:"donorName,omitempty" json:"donorName,omitempty"`
	DonorEmail        string             `bson:"donorEmail,omitempty" json:"donorEmail,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateRequest is the body of a new donation request. The requester email
// comes from the session.
type CreateRequest struct {
	RequesterName     string `json:"requesterName" binding:"required,max=100"`
	RecipientName     string `json:"recipientName" binding:"required,max=100"`
	RecipientDistrict string `json:"recipientDistrict" binding:"required,max=100"`
	RecipientUpazila  string `json:"recipientUpazila" binding:"required,max=100"`
	HospitalName      string `json:"hospitalName" binding:"required,max=200"`
	FullAddress       string `json:"fullAddress" binding:"required,max=300"`
	BloodGroup        string `json:"bloodGroup" binding:"required,bloodgroup"`
	DonationDate      string `json:"donationDate" binding:"required,datetime=2006-01-02"`
	DonationTime      string `json:"donationTime" binding:"required,datetime=15:04"`
	RequestMessage    string `json:"requestMessage" binding:"omitempty,max=1000"`
}

// AssignRequest records the donor who takes a pending request.
type AssignRequest struct {
	DonorName  string `json:"donorName" binding:"required,max=100"`
	DonorEmail string `json:"donorEmail" binding:"required,email"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=pending inprogress done canceled"`
}

// UpdateFieldsRequest changes request details. Status, requester and donor
// are not editable here.
type UpdateFieldsRequest struct {
	RecipientName     *string `json:"recipientName" binding:"omitempty,min=1,max=100"`
	RecipientDistrict *string `json:"recipientDistrict" binding:"omitempty,min=1,max=100"`
	RecipientUpazila  *string `json:"recipientUpazila" binding:"omitempty,min=1,max=100"`
	HospitalName      *string `json:"hospitalName" binding:"omitempty,min=1,max=200"`
	FullAddress       *string `json:"fullAddress" binding:"omitempty,min=1,max=300"`
	BloodGroup        *string `json:"bloodGroup" binding:"omitempty,bloodgroup"`
	DonationDate      *string `json:"donationDate" binding:"omitempty,datetime=2006-01-02"`
	DonationTime      *string `json:"donationTime" binding:"omitempty,datetime=15:04"`
	RequestMessage    *string `json:"requestMessage" binding:"omitempty,max=1000"`
}

// Fields returns the provided values keyed by stored field name.
func (r UpdateFieldsRequest) Fields() map[string]string {
	out := make(map[string]string, 9)
	for key, v := range map[string]*string{
		"recipientName":     r.RecipientName,
		"recipientDistrict": r.RecipientDistrict,
		"recipientUpazila":  r.RecipientUpazila,
		"hospitalName":      r.HospitalName,
		"fullAddress":       r.FullAddress,
		"bloodGroup":        r.BloodGroup,
		"donationDate":      r.DonationDate,
		"donationTime":      r.DonationTime,
		"requestMessage":    r.RequestMessage,
	} {
		if v != nil {
			out[key] = *v
		}
	}
	return out
}

// ListFilter narrows a paginated listing. Empty fields match anything.
type ListFilter struct {
	RequesterEmail string
	Status         Status
}
