package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userapp "github.com/ecomarket/user-service/internal/application"
	"github.com/ecomarket/user-service/internal/domain/entity"
	repo "github.com/ecomarket/user-service/internal/domain/repository"
	handlers "github.com/ecomarket/user-service/internal/interface/http"
	"github.com/ecomarket/user-service/internal/router/modules"
	"github.com/ecomarket/user-service/pkg/response"
	"github.com/ecomarket/user-service/pkg/validation"
)

// ---- in-memory repository fake ----

type fakeRepo struct {
	seq   int64
	users map[int64]*entity.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[int64]*entity.User)}
}

func (f *fakeRepo) GetAll(ctx context.Context) ([]*entity.User, error) {
	ids := make([]int64, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		cp := *f.users[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRepo) Create(ctx context.Context, u *entity.User) error {
	for _, other := range f.users {
		if other.Username == u.Username {
			return repo.ErrDuplicateUsername
		}
		if other.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	f.seq++
	u.ID = f.seq
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, u *entity.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	for _, other := range f.users {
		if other.ID != u.ID && other.Username == u.Username {
			return repo.ErrDuplicateUsername
		}
		if other.ID != u.ID && other.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

// ---- helpers ----

func newUserRouter(t *testing.T, hypermedia bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := userapp.NewService(newFakeRepo(), logger, nil, false)
	h := handlers.NewUserHandler(svc, logger, response.NewBuilder("http://localhost:8080", hypermedia))

	r := gin.New()
	modules.NewUserModule(h).Register(r.Group("/api"))
	return r
}

func doJSON(r *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, url, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerBody(username, email string) map[string]any {
	return map[string]any{
		"username": username,
		"password": "password123",
		"email":    email,
		"fullName": "Buster Blade",
	}
}

// ---- tests ----

func TestRegisterCreated(t *testing.T) {
	r := newUserRouter(t, false)

	w := doJSON(r, http.MethodPost, "/api/users/register", registerBody("busterblade", "buster@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.EqualValues(t, 1, got["id"])
	assert.Equal(t, "busterblade", got["username"])
	assert.Equal(t, "buster@example.com", got["email"])
	assert.Equal(t, "Buster Blade", got["fullName"])
	assert.NotContains(t, got, "password")
	assert.NotContains(t, got, "_links")
}

func TestRegisterDuplicateUsernameText(t *testing.T) {
	r := newUserRouter(t, false)
	require.Equal(t, http.StatusCreated,
		doJSON(r, http.MethodPost, "/api/users/register", registerBody("busterblade", "buster@example.com")).Code)

	w := doJSON(r, http.MethodPost, "/api/users/register", registerBody("busterblade", "other@example.com"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "El nombre de usuario ya existe.", w.Body.String())
}

func TestRegisterDuplicateEmailText(t *testing.T) {
	r := newUserRouter(t, false)
	require.Equal(t, http.StatusCreated,
		doJSON(r, http.MethodPost, "/api/users/register", registerBody("busterblade", "buster@example.com")).Code)

	w := doJSON(r, http.MethodPost, "/api/users/register", registerBody("otheruser", "buster@example.com"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "El correo electrónico ya está registrado.", w.Body.String())
}

func TestRegisterInvalidPayload(t *testing.T) {
	r := newUserRouter(t, false)

	w := doJSON(r, http.MethodPost, "/api/users/register", map[string]any{
		"username": "busterblade",
		"password": "short",
		"email":    "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var got struct {
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "invalid payload", got.Message)
	assert.Contains(t, got.Details, "password")
	assert.Contains(t, got.Details, "email")
}

func TestLoginSuccessText(t *testing.T) {
	r := newUserRouter(t, false)
	require.Equal(t, http.StatusCreated,
		doJSON(r, http.MethodPost, "/api/users/register", registerBody("busterblade", "buster@example.com")).Code)

	w := doJSON(r, http.MethodPost, "/api/users/login", map[string]any{
		"username": "busterblade",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Inicio de sesión exitoso para busterblade", w.Body.String())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newUserRouter(t, false)
	require.Equal(t, http.StatusCreated,
		doJSON(r, http.MethodPost, "/api/users/register", registerBody("busterblade", "buster@example.com")).Code)

	for _, body := range []map[string]any{
		{"username": "busterblade", "password": "wrong"},
		{"username": "nouser", "password": "x"},
	} {
		w := doJSON(r, http.MethodPost, "/api/users/login", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Credenciales inválidas", w.Body.String())
	}
}

func TestGetUserNotFound(t *testing.T) {
	r := newUserRouter(t, false)

	w := doJSON(r, http.MethodGet, "/api/users/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestGetUserInvalidID(t *testing.T) {
	r := newUserRouter(t, false)

	w := doJSON(r, http.MethodGet, "/api/users/notanumber", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUsers(t *testing.T) {
	r := newUserRouter(t, false)
	require.Equal(t, http.StatusCreated,
		doJSON(r, http.MethodPost, "/api/users/register", registerBody("busterblade", "buster@example.com")).Code)
	require.Equal(t, http.StatusCreated,
		doJSON(r, http.MethodPost, "/api/users/register", registerBody("secondary", "secondary@example.com")).Code)

	w := doJSON(r, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "busterblade", got[0]["username"])
	assert.Equal(t, "secondary", got[1]["username"])
}

func TestUpdateUser(t *testing.T) {
	r := newUserRouter(t, false)
	require.Equal(t, http.StatusCreated,
		doJSON(r, http.MethodPost, "/api/users/register", registerBody("busterblade", "buster@example.com")).Code)

	w := doJSON(r, http.MethodPut, "/api/users/1", map[string]any{
		"username": "busterprime",
		"email":    "prime@example.com",
		"fullName": "Buster Prime",
		// an attacker-supplied password is silently dropped
		"password": "hacked",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "busterprime", got["username"])
	assert.Equal(t, "prime@example.com", got["email"])
	assert.Equal(t, "Buster Prime", got["fullName"])

	// original password still works after the update
	lw := doJSON(r, http.MethodPost, "/api/users/login", map[string]any{
		"username": "busterprime",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, lw.Code)
	assert.Equal(t, "Inicio de sesión exitoso para busterprime", lw.Body.String())
}

func TestUpdateUserNotFound(t *testing.T) {
	r := newUserRouter(t, false)

	w := doJSON(r, http.MethodPut, "/api/users/99", map[string]any{
		"username": "ghost",
		"email":    "ghost@example.com",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUserDuplicateUsernameText(t *testing.T) {
	r := newUserRouter(t, false)
	require.Equal(t, http.StatusCreated,
		doJSON(r, http.MethodPost, "/api/users/register", registerBody("busterblade", "buster@example.com")).Code)
	require.Equal(t, http.StatusCreated,
		doJSON(r, http.MethodPost, "/api/users/register", registerBody("secondary", "secondary@example.com")).Code)

	w := doJSON(r, http.MethodPut, "/api/users/2", map[string]any{
		"username": "busterblade",
		"email":    "secondary@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "El nombre de usuario ya existe.", w.Body.String())
}

func TestDeleteUserNoContentAndIdempotent(t *testing.T) {
	r := newUserRouter(t, false)
	require.Equal(t, http.StatusCreated,
		doJSON(r, http.MethodPost, "/api/users/register", registerBody("busterblade", "buster@example.com")).Code)

	w := doJSON(r, http.MethodDelete, "/api/users/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	// deleted rows are gone
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/api/users/1", nil).Code)

	// a second delete is a no-op with the same status
	assert.Equal(t, http.StatusNoContent, doJSON(r, http.MethodDelete, "/api/users/1", nil).Code)
}

func TestHypermediaLinks(t *testing.T) {
	r := newUserRouter(t, true)

	w := doJSON(r, http.MethodPost, "/api/users/register", registerBody("busterblade", "buster@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	var got struct {
		Links map[string]struct {
			Href string `json:"href"`
		} `json:"_links"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotEmpty(t, got.Links)
	assert.Equal(t, "http://localhost:8080/api/users/1", got.Links["self"].Href)
	assert.Equal(t, "http://localhost:8080/api/users", got.Links["users"].Href)
}
