package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item lifecycle states.
const (
	StatusAvailable = "available"
	StatusSold      = "sold"
)

// ValidStatus reports whether s is a known item status.
func ValidStatus(s string) bool {
	return s == StatusAvailable || s == StatusSold
}

// Item is a listing stored in the items collection. Owner references
// the creating user and never changes after insert; only the owner may
// update or delete the item.
type Item struct {
	ID          primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	Owner       primitive.ObjectID `json:"owner"       bson:"owner"`
	Image       string             `json:"image"       bson:"image"`
	Caption     string             `json:"caption"     bson:"caption"`
	Price       float64            `json:"price"       bson:"price"` // 0 means free
	Category    string             `json:"category"    bson:"category"`
	Location    string             `json:"location"    bson:"location"`
	ContactInfo string             `json:"contactInfo" bson:"contactInfo"`
	Status      string             `json:"status"      bson:"status"`
	CreatedAt   time.Time          `json:"createdAt"   bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"   bson:"updatedAt"`
}

// ItemWithOwner is an Item joined with a summary of its owner, as
// returned by the feed and single-item endpoints.
type ItemWithOwner struct {
	Item  `bson:",inline"`
	Owner OwnerSummary `json:"owner" bson:"ownerInfo"`
}

// CreateItemRequest is the JSON body for POST /api/v1/item/create.
// Image carries a base64 data URI; multipart uploads bypass this
// struct and arrive as form fields plus a file part.
type CreateItemRequest struct {
	Image       string  `json:"image"`
	Caption     string  `json:"caption"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Location    string  `json:"location"`
	ContactInfo string  `json:"contactInfo"`
}

// UpdateItemRequest is the JSON body for PUT /api/v1/item/update/{id}.
// Absent fields keep their stored values. Price is a pointer so the
// client can set it to zero explicitly.
type UpdateItemRequest struct {
	Image       string   `json:"image"`
	Caption     string   `json:"caption"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	ContactInfo string   `json:"contactInfo"`
	Status      string   `json:"status"`
}
