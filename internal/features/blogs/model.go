package blogs

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) IsValid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Blog is a content post. New posts start as drafts.
type Blog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Thumbnail   string             `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Content     string             `bson:"content" json:"content"`
	AuthorEmail string             `bson:"authorEmail" json:"authorEmail"`
	Status      Status             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CreateBlogRequest struct {
	Title     string `json:"title" binding:"required,max=200"`
	Thumbnail string `json:"thumbnail" binding:"omitempty,url"`
	Content   string `json:"content" binding:"required,max=50000"`
}

// PublishRequest carries the publish/draft action. The value is checked by
// ValidatePublishAction so an unknown action gets a clear message.
type PublishRequest struct {
	Action string `json:"action" binding:"required"`
}
