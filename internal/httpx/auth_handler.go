package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/satriadh/go-shop-api/internal/auth"
	"github.com/satriadh/go-shop-api/internal/users"
)

type UserStore interface {
	Create(ctx context.Context, email, passwordHash, role string) (*users.User, error)
	FindByEmail(ctx context.Context, email string) (*users.User, error)
}

type AuthHandler struct {
	Users      UserStore
	JWTSecret  []byte
	JWTTTL     time.Duration
	BcryptCost int
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(r *chi.Mux) {
	r.Post("/auth/signup", h.signup)
	r.Post("/auth/login", h.login)
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	hash, err := auth.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		slog.Error("hash password", "err", err)
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}

	u, err := h.Users.Create(ctx, req.Email, hash, users.RoleCustomer)
	if errors.Is(err, users.ErrEmailTaken) {
		writeErr(w, http.StatusBadRequest, "email already exists")
		return
	}
	if err != nil {
		slog.Error("create user", "err", err)
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByEmail(ctx, req.Email)
	if errors.Is(err, users.ErrNotFound) {
		writeErr(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		slog.Error("find user", "err", err)
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		writeErr(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	tok, err := auth.IssueToken(h.JWTSecret,
		auth.Identity{ID: u.ID, Email: u.Email, Role: u.Role}, h.JWTTTL)
	if err != nil {
		slog.Error("issue token", "err", err)
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": tok})
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsReq, bool) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return req, false
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid email format")
		return req, false
	}
	if len(req.Password) < 6 {
		writeErr(w, http.StatusBadRequest, "password must be at least 6 characters")
		return req, false
	}
	return req, true
}
