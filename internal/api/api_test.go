package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ezchef/ezchef/backend/config"
	"github.com/ezchef/ezchef/backend/internal/middleware"
	"github.com/ezchef/ezchef/backend/internal/models"
	"github.com/ezchef/ezchef/backend/internal/service"
	"github.com/ezchef/ezchef/backend/internal/testhelpers"
)

// memoryStore keeps uploaded objects in a map
type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}}
}

func (s *memoryStore) PutObject(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memoryStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://images.example.com/" + key, nil
}

func (s *memoryStore) DeleteObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	svc    *Services
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		BcryptCost:      bcrypt.MinCost,
		MaxImageBytes:   1 << 16,
		ImageURLTTL:     time.Minute,
	}
}

func newTestServer(t *testing.T, store service.ObjectStore) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	svc := NewServices(db, testConfig(), store)

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	RegisterRoutes(router, db, svc, Limiters{})

	return &testServer{router: router, db: db, svc: svc}
}

func (s *testServer) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	access, _, err := s.svc.Auth.IssueTokens(user)
	require.NoError(t, err)
	return access
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, w.Code, w.Body.String())
	var body middleware.ErrorResponse
	decode(t, w, &body)
	assert.Equal(t, code, body.Code)
	assert.NotEmpty(t, body.Error)
}

func soupPayload() gin.H {
	return gin.H{
		"recipe_name":        "Tomato Soup",
		"recipe_description": "A warm soup",
		"instructions":       "Simmer everything.",
		"recipe_difficulty":  2,
		"categories":         []gin.H{{"r_type": "Soup", "r_region": "Italian"}},
		"ingredients": []gin.H{
			{"ingredient_name": "Tomato", "quantity_amount": 3, "unit_name": "piece"},
			{"ingredient_name": "Basil", "quantity_amount": 5, "unit_name": "gram", "unit_symbol": "g",
				"nutrition": gin.H{"calories": 0.2, "protein": 0.03}},
		},
	}
}

func (s *testServer) createRecipe(t *testing.T, token string, payload gin.H) uint {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/recipes", token, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID uint `json:"recipe_id"`
	}
	decode(t, w, &created)
	require.NotZero(t, created.ID)
	return created.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/health", "/api/health"} {
		w := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy","database":"ok"}`, w.Body.String())
	}
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		respondError(c, fmt.Errorf("query failed: %w", io.ErrUnexpectedEOF))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "unexpected EOF")
}

func TestUnknownIDsAreRejected(t *testing.T) {
	s := newTestServer(t, nil)

	assertErrorCode(t, s.do(t, http.MethodGet, "/api/v1/recipes/abc", "", nil), http.StatusBadRequest, middleware.CodeInvalidRequest)
	assertErrorCode(t, s.do(t, http.MethodGet, "/api/v1/recipes/0", "", nil), http.StatusBadRequest, middleware.CodeInvalidRequest)
	assertErrorCode(t, s.do(t, http.MethodGet, "/api/v1/recipes/999", "", nil), http.StatusNotFound, middleware.CodeNotFound)
	assertErrorCode(t, s.do(t, http.MethodGet, "/api/v1/users/999", "", nil), http.StatusNotFound, middleware.CodeNotFound)
	assertErrorCode(t, s.do(t, http.MethodGet, "/api/v1/users/999/recipes", "", nil), http.StatusNotFound, middleware.CodeNotFound)
	assertErrorCode(t, s.do(t, http.MethodGet, "/api/v1/cookbooks/999", "", nil), http.StatusNotFound, middleware.CodeNotFound)
}

func uintPath(id uint) string {
	return fmt.Sprintf("%d", id)
}
