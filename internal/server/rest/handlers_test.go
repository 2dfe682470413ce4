package rest

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testEnv struct {
	users   *fakeUsers
	notes   *fakeNotes
	exports *fakeExports
	handler http.Handler
}

func newTestEnv() *testEnv {
	e := &testEnv{users: &fakeUsers{}, notes: &fakeNotes{}, exports: &fakeExports{}}
	e.handler = NewHTTPServer("", logging.Nop{}, e.users, e.notes, e.exports, testSecret).Handler()
	return e
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, []byte(testSecret), time.Minute)
	require.NoError(t, err)
	return token
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var m messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m.Message
}

func TestStatus(t *testing.T) {
	e := newTestEnv()
	rec := e.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	e := newTestEnv()
	rec := e.do(t, http.MethodOptions, "/api/notes", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"ok", `{"name":"A","email":"a@b.co","password":"secret1"}`, nil, http.StatusCreated, "User registered successfully"},
		{"duplicate", `{"name":"A","email":"a@b.co","password":"secret1"}`, common.ErrorAlreadyExists, http.StatusBadRequest, "Email already registered"},
		{"validation", `{"name":"A","email":"a@b.co","password":"x"}`, fmt.Errorf("%w: password too short", common.ErrorValidation), http.StatusBadRequest, "validation error: password too short"},
		{"internal", `{"name":"A","email":"a@b.co","password":"secret1"}`, assert.AnError, http.StatusInternalServerError, "Registration failed"},
		{"bad json", `{`, nil, http.StatusBadRequest, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv()
			e.users.registerFn = func(ctx context.Context, name, email, password string) (*models.User, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return &models.User{ID: "u1", Name: name, Email: email}, nil
			}
			rec := e.do(t, http.MethodPost, "/api/auth/register", tt.body, "")
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, message(t, rec))
		})
	}
}

func TestLogin(t *testing.T) {
	e := newTestEnv()
	key := []byte{0xde, 0xad, 0xbe, 0xef}
	e.users.loginFn = func(ctx context.Context, email, password string) (*services.LoginResult, error) {
		if password != "secret1" {
			return nil, common.ErrorUnauthorized
		}
		return &services.LoginResult{
			User:    &models.User{ID: "u1", Name: "Alice", Email: email},
			Tokens:  &services.TokenPair{AccessToken: "at", RefreshToken: "rt"},
			DataKey: append([]byte(nil), key...),
		}, nil
	}

	rec := e.do(t, http.MethodPost, "/api/auth/login", `{"email":"a@b.co","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "at", resp.Token)
	assert.Equal(t, "rt", resp.RefreshToken)
	assert.Equal(t, userResponse{ID: "u1", Name: "Alice", Email: "a@b.co"}, resp.User)
	assert.Equal(t, hex.EncodeToString(key), resp.EncryptionKey)

	rec = e.do(t, http.MethodPost, "/api/auth/login", `{"email":"a@b.co","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", message(t, rec))
}

func TestRefresh(t *testing.T) {
	e := newTestEnv()
	e.users.refreshFn = func(ctx context.Context, token string) (*services.TokenPair, error) {
		switch token {
		case "good":
			return &services.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil
		case "old":
			return nil, common.ErrRefreshTokenExpired
		case "reused":
			return nil, fmt.Errorf("error deleting refresh token: %w", common.ErrorNotFound)
		}
		return nil, common.ErrorNotFound
	}

	rec := e.do(t, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"good"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"a2","refreshToken":"r2"}`, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"old"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Refresh token expired", message(t, rec))

	rec = e.do(t, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"who"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid refresh token", message(t, rec))

	rec = e.do(t, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"reused"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid refresh token", message(t, rec))
}

func TestRequireAuth(t *testing.T) {
	e := newTestEnv()
	e.notes.listFn = func(ctx context.Context, userID string) ([]*models.Note, error) {
		return nil, nil
	}

	expired, err := auth.GenerateToken("u1", []byte(testSecret), -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantMsg string
	}{
		{"missing", "", "No token provided"},
		{"garbage", "abc", "Invalid token"},
		{"expired", expired, "Token expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodGet, "/api/notes", "", tt.token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.wantMsg, message(t, rec))
		})
	}
}

func TestAccountRoutes(t *testing.T) {
	e := newTestEnv()
	token := bearer(t, "u1")

	e.users.changePasswordFn = func(ctx context.Context, userID, oldPassword, newPassword string) error {
		assert.Equal(t, "u1", userID)
		if oldPassword != "old-secret" {
			return common.ErrorUnauthorized
		}
		return nil
	}
	rec := e.do(t, http.MethodPut, "/api/auth/password", `{"oldPassword":"old-secret","newPassword":"new-secret"}`, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Password updated", message(t, rec))

	rec = e.do(t, http.MethodPut, "/api/auth/password", `{"oldPassword":"wrong","newPassword":"new-secret"}`, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	e.users.deleteAccountFn = func(ctx context.Context, userID, password string) error {
		assert.Equal(t, userID, logging.UserID(ctx))
		assert.Equal(t, "u1", userID)
		return nil
	}
	rec = e.do(t, http.MethodDelete, "/api/auth/account", `{"password":"pw"}`, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Account deleted", message(t, rec))
}

func TestNoteRoutes(t *testing.T) {
	e := newTestEnv()
	token := bearer(t, "u1")
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	note := &models.Note{ID: "n1", UserID: "u1", Title: "t", Content: "c", CreatedAt: ts, UpdatedAt: ts}

	e.notes.listFn = func(ctx context.Context, userID string) ([]*models.Note, error) {
		assert.Equal(t, "u1", userID)
		return []*models.Note{note}, nil
	}
	rec := e.do(t, http.MethodGet, "/api/notes", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"_id":"n1","title":"t","content":"c","userId":"u1","createdAt":"2024-05-01T10:00:00Z","updatedAt":"2024-05-01T10:00:00Z"}]`, rec.Body.String())

	e.notes.listFn = func(ctx context.Context, userID string) ([]*models.Note, error) {
		return []*models.Note{}, nil
	}
	rec = e.do(t, http.MethodGet, "/api/notes", "", token)
	assert.JSONEq(t, `[]`, rec.Body.String())

	e.notes.createFn = func(ctx context.Context, userID, title, content string) (*models.Note, error) {
		assert.Equal(t, "t", title)
		assert.Equal(t, "c", content)
		return note, nil
	}
	rec = e.do(t, http.MethodPost, "/api/notes", `{"title":"t","content":"c"}`, token)
	assert.Equal(t, http.StatusCreated, rec.Code)

	e.notes.updateFn = func(ctx context.Context, userID, noteID, title, content string) (*models.Note, error) {
		if noteID != "n1" {
			return nil, common.ErrorNotFound
		}
		return note, nil
	}
	rec = e.do(t, http.MethodPut, "/api/notes/n1", `{"title":"t","content":"c"}`, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = e.do(t, http.MethodPut, "/api/notes/zzz", `{"title":"t","content":"c"}`, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Note not found", message(t, rec))

	e.notes.deleteFn = func(ctx context.Context, userID, noteID string) error {
		if noteID != "n1" {
			return common.ErrorNotFound
		}
		return nil
	}
	rec = e.do(t, http.MethodDelete, "/api/notes/n1", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Note deleted", message(t, rec))
	rec = e.do(t, http.MethodDelete, "/api/notes/zzz", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	e.notes.createFn = func(context.Context, string, string, string) (*models.Note, error) {
		return nil, assert.AnError
	}
	rec = e.do(t, http.MethodPost, "/api/notes", `{"title":"t","content":"c"}`, token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error", message(t, rec))
}

func TestExportRoutes(t *testing.T) {
	e := newTestEnv()
	token := bearer(t, "u1")

	e.exports.exportFn = func(ctx context.Context, userID string) (*services.ExportResult, error) {
		created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		return &services.ExportResult{
			ID: "e1", Key: "exports/u1/k.json", URL: "http://s3/k", NoteCount: 3,
			CreatedAt: created, ExpiresAt: created.Add(15 * time.Minute),
		}, nil
	}
	rec := e.do(t, http.MethodPost, "/api/notes/export", "", token)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"e1","key":"exports/u1/k.json","url":"http://s3/k","noteCount":3,`+
		`"createdAt":"2025-01-02T03:04:05Z","expiresAt":"2025-01-02T03:19:05Z"}`, rec.Body.String())

	e.exports.listFn = func(ctx context.Context, userID string) ([]*models.Export, error) {
		return []*models.Export{}, nil
	}
	rec = e.do(t, http.MethodGet, "/api/exports", "", token)
	assert.JSONEq(t, `[]`, rec.Body.String())

	e.exports.linkFn = func(ctx context.Context, userID, exportID string) (*services.ExportResult, error) {
		assert.Equal(t, "e9", exportID)
		return nil, common.ErrorNotFound
	}
	rec = e.do(t, http.MethodGet, "/api/exports/e9", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
