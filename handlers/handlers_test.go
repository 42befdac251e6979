package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub/backend/go-services/internal/auth"
	"github.com/taskhub/taskhub/backend/go-services/internal/models"
	"github.com/taskhub/taskhub/backend/go-services/internal/tasks"
	"github.com/taskhub/taskhub/backend/go-services/internal/users"
	"github.com/taskhub/taskhub/backend/go-services/pkg/middleware"
)

// fakeToken implements auth.Token
type fakeToken struct {
	data map[string]interface{}
}

func (t *fakeToken) Claims(v interface{}) error {
	b, err := json.Marshal(t.data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// fakeVerifier implements auth.Verifier with a fixed token table
type fakeVerifier struct {
	tokens map[string]map[string]interface{}
}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (auth.Token, error) {
	if d, ok := f.tokens[raw]; ok {
		return &fakeToken{data: d}, nil
	}
	return nil, &auth.Error{Kind: auth.KindTokenInvalid, Details: "unknown token"}
}

// testEnv wires the full authenticated API against in-memory repositories.
type testEnv struct {
	router   *gin.Engine
	userRepo *users.MemoryRepository
	userSvc  *users.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	userRepo := users.NewMemoryRepository()
	userSvc := users.NewService(userRepo)
	taskSvc := tasks.NewService(tasks.NewMemoryRepository())

	// boss is pre-seeded as admin; u1/u2 are provisioned on first request
	_, err := userRepo.CreateIfAbsent(context.Background(), &models.User{
		SubjectID: "boss",
		Email:     "boss@x.com",
		Role:      models.RoleAdmin,
	})
	require.NoError(t, err)

	ver := &fakeVerifier{tokens: map[string]map[string]interface{}{
		"token-u1":    {"sub": "u1", "email": "a@x.com"},
		"token-u2":    {"sub": "u2", "email": "b@x.com"},
		"token-admin": {"sub": "boss", "email": "boss@x.com"},
	}}
	gate := auth.NewGate(ver, userSvc, nil, 0)

	r := gin.New()
	api := r.Group("/api", middleware.Authenticate(gate))
	NewTaskHandler(taskSvc, nil).Register(api.Group("/tasks"))
	NewUserHandler(userSvc).Register(api.Group("/users"))

	return &testEnv{router: r, userRepo: userRepo, userSvc: userSvc}
}

// do performs a request with an optional bearer token and JSON body.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}
