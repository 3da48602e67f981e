package user

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/snapit-dev/snapit-backend/internal/middleware"
	"github.com/snapit-dev/snapit-backend/internal/models"
	"github.com/snapit-dev/snapit-backend/internal/store"
)

type fakeUserStore struct {
	users   map[string]*models.User
	updates map[string]bson.M
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}, updates: map[string]bson.M{}}
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, id string, set bson.M) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	f.updates[id] = set
	cp := *u
	return &cp, nil
}

type fakeImageStore struct {
	uploads int
}

func (f *fakeImageStore) Upload(_ context.Context, _ []byte, _ string) (string, error) {
	f.uploads++
	return "http://minio:9000/snapit-images/avatar.png", nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetProfile(t *testing.T) {
	users := newFakeUserStore()
	u := &models.User{ID: primitive.NewObjectID(), Fullname: "A", Email: "a@b.com"}
	users.users[u.ID.Hex()] = u
	h := NewHandler(users, &fakeImageStore{}, quietLogger())

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/"+u.ID.Hex(), nil), "id", u.ID.Hex())
	rec := httptest.NewRecorder()
	h.GetProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@b.com")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestGetProfile_NotFound(t *testing.T) {
	h := NewHandler(newFakeUserStore(), &fakeImageStore{}, quietLogger())

	id := primitive.NewObjectID().Hex()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/"+id, nil), "id", id)
	rec := httptest.NewRecorder()
	h.GetProfile(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}

func updateProfile(t *testing.T, h *Handler, current *models.User, req models.UpdateProfileRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPut, "/profile", bytes.NewReader(body))
	r = r.WithContext(middleware.ContextWithUser(r.Context(), current))
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, r)
	return rec
}

func TestUpdateProfile_AllowedFields(t *testing.T) {
	users := newFakeUserStore()
	current := &models.User{ID: primitive.NewObjectID(), Fullname: "A", Email: "a@b.com"}
	users.users[current.ID.Hex()] = current
	h := NewHandler(users, &fakeImageStore{}, quietLogger())

	rec := updateProfile(t, h, current, models.UpdateProfileRequest{
		Fullname: "Anna", Location: "Berlin", ContactInfo: "@anna",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	set := users.updates[current.ID.Hex()]
	require.NotNil(t, set)
	assert.Equal(t, "Anna", set["fullname"])
	assert.Equal(t, "Berlin", set["location"])
	assert.Equal(t, "@anna", set["contactInfo"])
	_, touched := set["email"]
	assert.False(t, touched, "email must not be updatable via profile")
}

func TestUpdateProfile_UploadsProfilePic(t *testing.T) {
	users := newFakeUserStore()
	current := &models.User{ID: primitive.NewObjectID(), Fullname: "A", Email: "a@b.com"}
	users.users[current.ID.Hex()] = current
	images := &fakeImageStore{}
	h := NewHandler(users, images, quietLogger())

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0x42}, 16)...)
	rec := updateProfile(t, h, current, models.UpdateProfileRequest{
		ProfilePic: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, images.uploads)
	set := users.updates[current.ID.Hex()]
	require.NotNil(t, set)
	assert.Equal(t, "http://minio:9000/snapit-images/avatar.png", set["profilePic"])
}

func TestUpdateProfile_NoSessionUser(t *testing.T) {
	users := newFakeUserStore()
	h := NewHandler(users, &fakeImageStore{}, quietLogger())

	body, _ := json.Marshal(models.UpdateProfileRequest{Fullname: "Anna"})
	req := httptest.NewRequest(http.MethodPut, "/profile", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, users.updates)
}

func TestUpdateProfile_NothingToUpdate(t *testing.T) {
	users := newFakeUserStore()
	current := &models.User{ID: primitive.NewObjectID(), Fullname: "A", Email: "a@b.com"}
	users.users[current.ID.Hex()] = current
	h := NewHandler(users, &fakeImageStore{}, quietLogger())

	rec := updateProfile(t, h, current, models.UpdateProfileRequest{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, users.updates)
}
