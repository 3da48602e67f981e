package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snapit-dev/snapit-backend/internal/httpx"
	"github.com/snapit-dev/snapit-backend/internal/middleware"
	"github.com/snapit-dev/snapit-backend/internal/models"
	"github.com/snapit-dev/snapit-backend/internal/store"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Handler holds the account HTTP handlers: signup, login, logout and
// current-user. Sessions are stateless signed tokens carried in the
// cookie; the response body never includes the raw token.
type Handler struct {
	users  UserStore
	tokens *TokenCodec
	secure bool
	log    *logrus.Logger
}

func NewHandler(users UserStore, tokens *TokenCodec, secureCookies bool, log *logrus.Logger) *Handler {
	return &Handler{users: users, tokens: tokens, secure: secureCookies, log: log}
}

// setSessionCookie installs the token cookie for TokenTTL.
func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.secure,
		MaxAge:   int(TokenTTL / time.Second),
	})
}

// Signup creates an account and opens a session.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Fullname == "" || req.Email == "" || req.Password == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if !emailRegex.MatchString(req.Email) {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid email")
		return
	}
	if len(req.Password) < MinPasswordLen {
		httpx.WriteMessage(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	// Pre-check for a friendlier conflict answer; the unique index is
	// the authoritative check and the insert below maps a lost race to
	// the same response.
	if _, err := h.users.GetUserByEmail(r.Context(), req.Email); err == nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Email already taken")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.log.WithError(err).Error("signup: email lookup failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		h.log.WithError(err).Error("signup: hash failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	user, err := h.users.CreateUser(r.Context(), &models.User{
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: hashed,
		Location: "Earth",
	})
	if errors.Is(err, store.ErrEmailTaken) {
		httpx.WriteMessage(w, http.StatusBadRequest, "Email already taken")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("signup: insert failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	token, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		h.log.WithError(err).Error("signup: token issue failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	h.setSessionCookie(w, token)

	user.Password = ""
	httpx.WriteJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and opens a session. Unknown email and
// wrong password answer identically.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("login: email lookup failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if !CheckPassword(req.Password, user.Password) {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		h.log.WithError(err).Error("login: token issue failed")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	h.setSessionCookie(w, token)

	user.Password = ""
	httpx.WriteJSON(w, http.StatusOK, user)
}

// Logout expires the session cookie. Tokens are stateless, so there
// is nothing to revoke server-side; this always succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.secure,
		MaxAge:   -1,
	})
	httpx.WriteMessage(w, http.StatusOK, "Logged out successfully")
}

// Me returns the user the session middleware attached.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "Unauthorized - You must be logged in")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}
