package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a marketplace account stored in the users collection.
// Email is unique (enforced by an index created at startup) and is the
// authentication key. Password always holds a bcrypt hash.
type User struct {
	ID          primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	Fullname    string             `json:"fullname"    bson:"fullname"`
	Email       string             `json:"email"       bson:"email"`
	Password    string             `json:"-"           bson:"password,omitempty"` // never serialize
	ProfilePic  string             `json:"profilePic"  bson:"profilePic"`
	ContactInfo string             `json:"contactInfo" bson:"contactInfo"`
	Location    string             `json:"location"    bson:"location"`
	CreatedAt   time.Time          `json:"createdAt"   bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"   bson:"updatedAt"`
}

// OwnerSummary is the slice of a User embedded in feed/detail
// responses for an item's owner.
type OwnerSummary struct {
	ID         primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	Fullname   string             `json:"fullname"   bson:"fullname"`
	ProfilePic string             `json:"profilePic" bson:"profilePic"`
}

// SignupRequest is the JSON body for POST /api/v1/auth/signup.
type SignupRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the JSON body for PUT /api/v1/user/profile.
// Only these fields may be changed; anything else in the body is
// ignored. ProfilePic accepts a base64 data URI and is replaced by the
// hosted URL before persisting.
type UpdateProfileRequest struct {
	Fullname    string `json:"fullname"`
	ProfilePic  string `json:"profilePic"`
	ContactInfo string `json:"contactInfo"`
	Location    string `json:"location"`
}
