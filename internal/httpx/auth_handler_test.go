package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/satriadh/go-shop-api/internal/auth"
	"github.com/satriadh/go-shop-api/internal/users"
)

type memUsers struct {
	byEmail map[string]*users.User
}

func newMemUsers() *memUsers { return &memUsers{byEmail: map[string]*users.User{}} }

func (m *memUsers) Create(_ context.Context, email, hash, role string) (*users.User, error) {
	if _, ok := m.byEmail[email]; ok {
		return nil, users.ErrEmailTaken
	}
	u := &users.User{ID: "u-" + email, Email: email, PasswordHash: hash, Role: role, CreatedAt: time.Now()}
	m.byEmail[email] = u
	return u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*users.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, users.ErrNotFound
	}
	return u, nil
}

func authServer(store UserStore) http.Handler {
	r := NewRouter()
	h := &AuthHandler{
		Users:      store,
		JWTSecret:  []byte("test-secret"),
		JWTTTL:     time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	h.Register(r)
	return r
}

func post(t *testing.T, srv http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestSignup(t *testing.T) {
	srv := authServer(newMemUsers())
	rec := post(t, srv, "/auth/signup", `{"email":"a@b.c","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var u users.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, "a@b.c", u.Email)
	assert.Equal(t, users.RoleCustomer, u.Role)
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

func TestSignupDuplicateEmail(t *testing.T) {
	srv := authServer(newMemUsers())
	post(t, srv, "/auth/signup", `{"email":"a@b.c","password":"secret1"}`)
	rec := post(t, srv, "/auth/signup", `{"email":"a@b.c","password":"secret2"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignupRejectsBadInput(t *testing.T) {
	srv := authServer(newMemUsers())
	for name, body := range map[string]string{
		"bad email":      `{"email":"nope","password":"secret1"}`,
		"short password": `{"email":"a@b.c","password":"abc"}`,
		"bad json":       `{"email":`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := post(t, srv, "/auth/signup", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	srv := authServer(newMemUsers())
	post(t, srv, "/auth/signup", `{"email":"a@b.c","password":"secret1"}`)

	rec := post(t, srv, "/auth/login", `{"email":"a@b.c","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	id, err := auth.ParseToken([]byte("test-secret"), resp["access_token"])
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", id.Email)
	assert.Equal(t, users.RoleCustomer, id.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := authServer(newMemUsers())
	post(t, srv, "/auth/signup", `{"email":"a@b.c","password":"secret1"}`)

	rec := post(t, srv, "/auth/login", `{"email":"a@b.c","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(t, srv, "/auth/login", `{"email":"x@y.z","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
