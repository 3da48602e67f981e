// Package item implements the listing CRUD handlers. Every route is
// protected; mutations additionally require the caller to own the
// item.
package item

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/snapit-dev/snapit-backend/internal/httpx"
	"github.com/snapit-dev/snapit-backend/internal/middleware"
	"github.com/snapit-dev/snapit-backend/internal/models"
	"github.com/snapit-dev/snapit-backend/internal/store"
)

// ItemStore defines the interface for item persistence.
type ItemStore interface {
	Insert(ctx context.Context, item *models.Item) (*models.Item, error)
	Feed(ctx context.Context) ([]models.ItemWithOwner, error)
	GetByID(ctx context.Context, id string) (*models.Item, error)
	GetWithOwner(ctx context.Context, id string) (*models.ItemWithOwner, error)
	Update(ctx context.Context, id string, set bson.M) (*models.Item, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Item, error)
}

// ImageStore defines the interface for image hosting.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
	RemoveByURL(ctx context.Context, url string) error
}

// Handler holds the item HTTP handlers.
type Handler struct {
	items  ItemStore
	images ImageStore
	log    *logrus.Logger
}

func NewHandler(items ItemStore, images ImageStore, log *logrus.Logger) *Handler {
	return &Handler{items: items, images: images, log: log}
}

// Feed returns available items, newest first, with owner summaries.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.Feed(r.Context())
	if err != nil {
		h.log.WithError(err).Error("feed query failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}
	if len(items) == 0 {
		httpx.WriteMessage(w, http.StatusNotFound, "No items found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

// Get returns a single item with its owner summary.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.items.GetWithOwner(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteMessage(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("item lookup failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, item)
}

// ListMine returns the current user's items, sold ones included.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "Unauthorized - You must be logged in")
		return
	}
	items, err := h.items.ListByOwner(r.Context(), user.ID)
	if err != nil {
		h.log.WithError(err).Error("owner items query failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

// createPayload carries the fields of a create request regardless of
// whether they arrived as JSON or multipart form data.
type createPayload struct {
	imageData   []byte
	contentType string
	caption     string
	price       float64
	category    string
	location    string
	contactInfo string
}

// readCreatePayload accepts either a JSON body whose image is a base64
// data URI, or a multipart form with an image file part.
func readCreatePayload(r *http.Request) (*createPayload, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		data, contentType, err := httpx.ReadImageFile(r, "image")
		if err != nil {
			return nil, err
		}
		p := &createPayload{
			imageData:   data,
			contentType: contentType,
			caption:     r.FormValue("caption"),
			category:    r.FormValue("category"),
			location:    r.FormValue("location"),
			contactInfo: r.FormValue("contactInfo"),
		}
		if v := r.FormValue("price"); v != "" {
			price, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, errors.New("invalid price")
			}
			p.price = price
		}
		return p, nil
	}

	var req models.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.New("invalid request body")
	}
	p := &createPayload{
		caption:     req.Caption,
		price:       req.Price,
		category:    req.Category,
		location:    req.Location,
		contactInfo: req.ContactInfo,
	}
	if req.Image != "" {
		data, contentType, err := httpx.DecodeDataURI(req.Image)
		if err != nil {
			return nil, err
		}
		p.imageData = data
		p.contentType = contentType
	}
	return p, nil
}

// Create lists a new item owned by the current user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "Unauthorized - You must be logged in")
		return
	}

	p, err := readCreatePayload(r)
	if err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if p.imageData == nil || p.caption == "" || p.location == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "Image, caption and location are required")
		return
	}
	if p.price < 0 {
		httpx.WriteMessage(w, http.StatusBadRequest, "Price cannot be negative")
		return
	}

	imageURL, err := h.images.Upload(r.Context(), p.imageData, p.contentType)
	if err != nil {
		h.log.WithError(err).Error("image upload failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	item, err := h.items.Insert(r.Context(), &models.Item{
		Owner:       user.ID,
		Image:       imageURL,
		Caption:     p.caption,
		Price:       p.price,
		Category:    p.category,
		Location:    p.location,
		ContactInfo: p.contactInfo,
		Status:      models.StatusAvailable,
	})
	if err != nil {
		h.log.WithError(err).Error("item insert failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, item)
}

// Update mutates an item the current user owns. Absent fields keep
// their stored values; a replacement image evicts the old object.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "Unauthorized - You must be logged in")
		return
	}
	itemID := chi.URLParam(r, "id")

	var req models.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.items.GetByID(r.Context(), itemID)
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteMessage(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("item lookup failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	if item.Owner.Hex() != user.ID.Hex() {
		httpx.WriteMessage(w, http.StatusForbidden, "Unauthorized update")
		return
	}

	set := bson.M{}
	if req.Image != "" {
		data, contentType, err := httpx.DecodeDataURI(req.Image)
		if err != nil {
			httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		imageURL, err := h.images.Upload(r.Context(), data, contentType)
		if err != nil {
			h.log.WithError(err).Error("image upload failed")
			httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
			return
		}
		if item.Image != "" {
			if err := h.images.RemoveByURL(r.Context(), item.Image); err != nil {
				h.log.WithError(err).Warn("stale image cleanup failed")
			}
		}
		set["image"] = imageURL
	}
	if req.Caption != "" {
		set["caption"] = req.Caption
	}
	if req.Price != nil { // allow price to be set to 0
		if *req.Price < 0 {
			httpx.WriteMessage(w, http.StatusBadRequest, "Price cannot be negative")
			return
		}
		set["price"] = *req.Price
	}
	if req.Category != "" {
		set["category"] = req.Category
	}
	if req.Location != "" {
		set["location"] = req.Location
	}
	if req.ContactInfo != "" {
		set["contactInfo"] = req.ContactInfo
	}
	if req.Status != "" {
		if !models.ValidStatus(req.Status) {
			httpx.WriteMessage(w, http.StatusBadRequest, "Status must be available or sold")
			return
		}
		set["status"] = req.Status
	}

	updated, err := h.items.Update(r.Context(), itemID, set)
	if err != nil {
		h.log.WithError(err).Error("item update failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, updated)
}

// Delete removes an item the current user owns, hosted image first.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "Unauthorized - You must be logged in")
		return
	}
	itemID := chi.URLParam(r, "id")

	item, err := h.items.GetByID(r.Context(), itemID)
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteMessage(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("item lookup failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	if item.Owner.Hex() != user.ID.Hex() {
		httpx.WriteMessage(w, http.StatusForbidden, "Unauthorized delete")
		return
	}

	if item.Image != "" {
		if err := h.images.RemoveByURL(r.Context(), item.Image); err != nil {
			h.log.WithError(err).Warn("image cleanup failed")
		}
	}

	if err := h.items.Delete(r.Context(), itemID); err != nil {
		h.log.WithError(err).Error("item delete failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "Item deleted successfully")
}
