package e2e

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

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileshare/internal/database"
	"fileshare/internal/middleware"
	"fileshare/internal/modules/events"
	"fileshare/internal/modules/file"
	"fileshare/internal/modules/user"
	jwtsvc "fileshare/internal/pkg/jwt"
	"fileshare/internal/storage"
)

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type suite struct {
	router    *gin.Engine
	uploadDir string
}

func setupSuite(t *testing.T) *suite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, database.Migrate(db))

	jwt := jwtsvc.New("e2e-test-secret", time.Hour)
	hub := events.NewHub()
	uploadDir := t.TempDir()

	userService := user.NewService(user.NewRepository(db), jwt)
	fileService := file.NewService(file.NewRepository(db), storage.NewDisk(uploadDir), 50<<20, hub)

	router := gin.New()
	api := router.Group("/api")
	userHandler := user.NewHandler(userService)
	userHandler.RegisterPublicRoutes(api)

	protected := api.Group("/")
	protected.Use(middleware.JWTAuth(jwt))
	userHandler.RegisterProtectedRoutes(protected)
	file.NewHandler(fileService).RegisterRoutes(protected)
	events.NewHandler(hub).RegisterRoutes(protected)

	return &suite{router: router, uploadDir: uploadDir}
}

func (s *suite) doJSON(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, TestResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
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

	var parsed TestResponse
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	}
	return w, parsed
}

func (s *suite) doUpload(t *testing.T, token, filename string, content []byte) (*httptest.ResponseRecorder, TestResponse) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var parsed TestResponse
	_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	return w, parsed
}

func (s *suite) register(t *testing.T, name, email, password string) (int64, string) {
	t.Helper()

	w, resp := s.doJSON(t, "POST", "/api/users/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.True(t, resp.Success)

	userData := resp.Data["user"].(map[string]interface{})
	return int64(userData["id"].(float64)), resp.Data["token"].(string)
}

func TestEndToEnd_RegisterUploadIsolation(t *testing.T) {
	s := setupSuite(t)

	// Alice registers and gets id 1 plus a token.
	aliceID, aliceToken := s.register(t, "Alice", "alice@example.com", "secret1")
	assert.Equal(t, int64(1), aliceID)

	// She uploads a 10-byte text file which becomes file 1.
	w, resp := s.doUpload(t, aliceToken, "notes.txt", []byte("0123456789"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	fileData := resp.Data["file"].(map[string]interface{})
	assert.Equal(t, float64(1), fileData["id"])
	assert.Equal(t, "notes.txt", fileData["original_name"])
	assert.Equal(t, float64(10), fileData["size"])

	// Her listing shows exactly that one file.
	w, resp = s.doJSON(t, "GET", "/api/files", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp.Data["count"])

	// Bob registers as id 2 and may not see Alice's file.
	bobID, bobToken := s.register(t, "Bob", "bob@example.com", "secret2")
	assert.Equal(t, int64(2), bobID)

	w, resp = s.doJSON(t, "GET", "/api/files/1", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	w, _ = s.doJSON(t, "GET", "/api/files/download/1", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.doJSON(t, "DELETE", "/api/files/1", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Alice downloads her own file and gets the original bytes back.
	w, _ = s.doJSON(t, "GET", "/api/files/download/1", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0123456789", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "notes.txt")

	// Deleting it removes the record.
	w, resp = s.doJSON(t, "DELETE", "/api/files/1", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp.Data["deleted_file_id"])

	w, resp = s.doJSON(t, "GET", "/api/files/1", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)

	// Deleting again reports the record as already gone.
	w, resp = s.doJSON(t, "DELETE", "/api/files/1", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestEndToEnd_RegistrationValidation(t *testing.T) {
	s := setupSuite(t)

	cases := []struct {
		name     string
		body     gin.H
		wantCode int
		wantErr  string
	}{
		{"missing fields", gin.H{"email": "a@b.co"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"bad email", gin.H{"name": "A", "email": "nope", "password": "secret1"}, http.StatusBadRequest, "INVALID_EMAIL"},
		{"weak password", gin.H{"name": "A", "email": "a@b.co", "password": "12345"}, http.StatusBadRequest, "WEAK_PASSWORD"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := s.doJSON(t, "POST", "/api/users/register", "", tc.body)
			assert.Equal(t, tc.wantCode, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantErr, resp.Error.Code)
		})
	}

	// Same email twice conflicts regardless of password.
	s.register(t, "Alice", "alice@example.com", "secret1")
	w, resp := s.doJSON(t, "POST", "/api/users/register", "", gin.H{
		"name": "Mallory", "email": "alice@example.com", "password": "different9",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_EXISTS", resp.Error.Code)
}

func TestEndToEnd_LoginAndProfile(t *testing.T) {
	s := setupSuite(t)
	s.register(t, "Alice", "alice@example.com", "secret1")

	// Wrong password and unknown email answer identically.
	w, resp := s.doJSON(t, "POST", "/api/users/login", "", gin.H{"email": "alice@example.com", "password": "wrong99"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)

	w, resp2 := s.doJSON(t, "POST", "/api/users/login", "", gin.H{"email": "ghost@example.com", "password": "wrong99"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, resp.Error.Message, resp2.Error.Message)

	// Correct credentials yield a token that opens the profile.
	w, resp = s.doJSON(t, "POST", "/api/users/login", "", gin.H{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	token := resp.Data["token"].(string)

	w, resp = s.doJSON(t, "GET", "/api/users/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	userData := resp.Data["user"].(map[string]interface{})
	assert.Equal(t, "alice@example.com", userData["email"])
	assert.NotEmpty(t, userData["created_at"])
	_, hasHash := userData["password_hash"]
	assert.False(t, hasHash)

	// Profile without a token is rejected.
	w, _ = s.doJSON(t, "GET", "/api/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The public user listing never includes hashes.
	w, _ = s.doJSON(t, "GET", "/api/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestEndToEnd_UploadRejections(t *testing.T) {
	s := setupSuite(t)
	_, token := s.register(t, "Alice", "alice@example.com", "secret1")

	// Executable extension is rejected and the error lists the allow-list.
	w, resp := s.doUpload(t, token, "malware.exe", []byte("MZ"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNSUPPORTED_TYPE", resp.Error.Code)
	assert.Contains(t, fmt.Sprint(resp.Error.Details), ".pdf")

	// No form file at all.
	req := httptest.NewRequest("POST", "/api/files/upload", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing was recorded for either rejection.
	w, resp = s.doJSON(t, "GET", "/api/files", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), resp.Data["count"])
}

func TestEndToEnd_TokenIsolation(t *testing.T) {
	s := setupSuite(t)
	s.register(t, "Alice", "alice@example.com", "secret1")
	_, bobToken := s.register(t, "Bob", "bob@example.com", "secret2")

	// Bob's token resolves to Bob's profile, never Alice's.
	w, resp := s.doJSON(t, "GET", "/api/users/profile", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	userData := resp.Data["user"].(map[string]interface{})
	assert.Equal(t, "bob@example.com", userData["email"])

	// A tampered token is rejected outright.
	tampered := bobToken[:len(bobToken)-2] + "xx"
	w, _ = s.doJSON(t, "GET", "/api/users/profile", tampered, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
