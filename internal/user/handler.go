// Package user implements the profile handlers: public profile lookup
// and current-user profile updates.
package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/snapit-dev/snapit-backend/internal/httpx"
	"github.com/snapit-dev/snapit-backend/internal/middleware"
	"github.com/snapit-dev/snapit-backend/internal/models"
	"github.com/snapit-dev/snapit-backend/internal/store"
)

// UserStore defines the interface for profile persistence.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, set bson.M) (*models.User, error)
}

// ImageStore defines the interface for profile picture hosting.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// Handler holds the profile HTTP handlers.
type Handler struct {
	users  UserStore
	images ImageStore
	log    *logrus.Logger
}

func NewHandler(users UserStore, images ImageStore, log *logrus.Logger) *Handler {
	return &Handler{users: users, images: images, log: log}
}

// GetProfile returns another user's public profile, password stripped.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUserByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("profile lookup failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

// UpdateProfile mutates the current user's profile. Only fullname,
// profilePic, contactInfo and location may change; a profilePic data
// URI is uploaded and replaced by its hosted URL. Operating on the
// session user's own id is what keeps this owner-only.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "Unauthorized - You must be logged in")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{}
	if req.Fullname != "" {
		set["fullname"] = req.Fullname
	}
	if req.ContactInfo != "" {
		set["contactInfo"] = req.ContactInfo
	}
	if req.Location != "" {
		set["location"] = req.Location
	}
	if req.ProfilePic != "" {
		data, contentType, err := httpx.DecodeDataURI(req.ProfilePic)
		if err != nil {
			httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		picURL, err := h.images.Upload(r.Context(), data, contentType)
		if err != nil {
			h.log.WithError(err).Error("profile pic upload failed")
			httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
			return
		}
		set["profilePic"] = picURL
	}

	if len(set) == 0 {
		httpx.WriteMessage(w, http.StatusBadRequest, "No valid fields to update")
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), current.ID.Hex(), set)
	if err != nil {
		h.log.WithError(err).Error("profile update failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, updated)
}
