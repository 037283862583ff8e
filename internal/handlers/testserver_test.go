package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"socialite/internal/api"
	"socialite/internal/auth"
	"socialite/internal/media"
	"socialite/internal/middleware"
	"socialite/internal/scheduler"
	"socialite/internal/utils"
)

// testEnv wires a Server around in-memory fakes and exposes the full router,
// so requests pass through CORS, metrics and auth middleware like production
// traffic does.
type testEnv struct {
	server  *Server
	store   *fakeStore
	queue   *scheduler.MemoryQueue
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newFakeStore()
	queue := scheduler.NewMemoryQueue()
	authn := middleware.NewAuthenticator("test-secret", time.Hour, auth.NewMemoryDenylist())
	mediaStore := media.NewStore(t.TempDir(), 1<<20)
	server := NewServer(store, authn, mediaStore, queue, utils.NewMetricsCollector(), 1<<20)

	return &testEnv{
		server:  server,
		store:   store,
		queue:   queue,
		handler: server.Router(middleware.DefaultCORSConfig([]string{"*"})),
	}
}

// do sends a JSON request through the router. An empty token leaves the
// request unauthenticated.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doUpload(t *testing.T, path, token, field, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &value), "body: %s", w.Body.String())
	return value
}

// signup registers an account, logs in and returns the session token.
func (e *testEnv) signup(t *testing.T, username string) string {
	t.Helper()
	email := fmt.Sprintf("%s@example.com", username)
	w := e.do(t, "POST", "/register", "", RegisterRequest{
		Username: username,
		Email:    email,
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	w = e.do(t, "POST", "/login", "", LoginRequest{Email: email, Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	resp := decodeBody[api.LoginResponse](t, w)
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// signupWithProfile also creates the profile and returns its id.
func (e *testEnv) signupWithProfile(t *testing.T, nickname string) (string, uuid.UUID) {
	t.Helper()
	token := e.signup(t, nickname)
	w := e.do(t, "POST", "/profiles/", token, ProfileRequest{
		Nickname: nickname,
		Gender:   "O",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	view := decodeBody[api.ProfileSummaryView](t, w)
	return token, view.ID
}

// createPost makes a published post and returns its id.
func (e *testEnv) createPost(t *testing.T, token, title string) uuid.UUID {
	t.Helper()
	w := e.do(t, "POST", "/posts/", token, PostRequest{
		Title:   title,
		Content: "content of " + title,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	view := decodeBody[api.PostView](t, w)
	return view.ID
}
