package rest

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	Token         string       `json:"token"`
	RefreshToken  string       `json:"refreshToken"`
	User          userResponse `json:"user"`
	EncryptionKey string       `json:"encryptionKey"`
}

type tokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type noteResponse struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type exportResponse struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	URL       string    `json:"url,omitempty"`
	NoteCount int       `json:"noteCount"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// writeError maps service errors to a status and a generic message.
// Anything unrecognised is logged and reported as "Server error".
func (s *HTTPServer) writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, "Not found")
	default:
		s.logger.Error(ctx, op+" failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
	}
}

func noteToResponse(n *models.Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		UserID:    n.UserID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func exportResultToResponse(r *services.ExportResult) exportResponse {
	return exportResponse{ID: r.ID, Key: r.Key, URL: r.URL, NoteCount: r.NoteCount, CreatedAt: r.CreatedAt, ExpiresAt: r.ExpiresAt}
}

func (s *HTTPServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorAlreadyExists):
		writeMessage(w, http.StatusBadRequest, "Email already registered")
		return
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	default:
		s.logger.Error(r.Context(), "Registration error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", user.ID)
	writeMessage(w, http.StatusCreated, "User registered successfully")
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(r.Context(), w, "login", err)
		return
	}
	defer common.WipeByteArray(result.DataKey)

	writeJSON(w, http.StatusOK, loginResponse{
		Token:         result.Tokens.AccessToken,
		RefreshToken:  result.Tokens.RefreshToken,
		User:          userResponse{ID: result.User.ID, Name: result.User.Name, Email: result.User.Email},
		EncryptionKey: hex.EncodeToString(result.DataKey),
	})
}

func (s *HTTPServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRefreshTokenExpired):
			writeMessage(w, http.StatusUnauthorized, "Refresh token expired")
		case errors.Is(err, common.ErrorNotFound):
			writeMessage(w, http.StatusUnauthorized, "Invalid refresh token")
		default:
			s.writeError(r.Context(), w, "refresh", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *HTTPServer) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.users.ChangePassword(r.Context(), userIDFromRequest(r), req.OldPassword, req.NewPassword); err != nil {
		s.writeError(r.Context(), w, "change password", err)
		return
	}
	writeMessage(w, http.StatusOK, "Password updated")
}

func (s *HTTPServer) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.users.DeleteAccount(r.Context(), userIDFromRequest(r), req.Password); err != nil {
		s.writeError(r.Context(), w, "delete account", err)
		return
	}
	writeMessage(w, http.StatusOK, "Account deleted")
}

func (s *HTTPServer) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.notes.List(r.Context(), userIDFromRequest(r))
	if err != nil {
		s.writeError(r.Context(), w, "list notes", err)
		return
	}

	resp := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, noteToResponse(n))
	}
	writeJSON(w, http.StatusOK, resp)
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *HTTPServer) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	note, err := s.notes.Create(r.Context(), userIDFromRequest(r), req.Title, req.Content)
	if err != nil {
		s.writeError(r.Context(), w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, noteToResponse(note))
}

func (s *HTTPServer) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	note, err := s.notes.Update(r.Context(), userIDFromRequest(r), r.PathValue("id"), req.Title, req.Content)
	if errors.Is(err, common.ErrorNotFound) {
		writeMessage(w, http.StatusNotFound, "Note not found")
		return
	}
	if err != nil {
		s.writeError(r.Context(), w, "update note", err)
		return
	}
	writeJSON(w, http.StatusOK, noteToResponse(note))
}

func (s *HTTPServer) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	err := s.notes.Delete(r.Context(), userIDFromRequest(r), r.PathValue("id"))
	if errors.Is(err, common.ErrorNotFound) {
		writeMessage(w, http.StatusNotFound, "Note not found")
		return
	}
	if err != nil {
		s.writeError(r.Context(), w, "delete note", err)
		return
	}
	writeMessage(w, http.StatusOK, "Note deleted")
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	res, err := s.exports.Export(r.Context(), userIDFromRequest(r))
	if err != nil {
		s.writeError(r.Context(), w, "export notes", err)
		return
	}
	writeJSON(w, http.StatusCreated, exportResultToResponse(res))
}

func (s *HTTPServer) handleListExports(w http.ResponseWriter, r *http.Request) {
	items, err := s.exports.List(r.Context(), userIDFromRequest(r))
	if err != nil {
		s.writeError(r.Context(), w, "list exports", err)
		return
	}

	resp := make([]exportResponse, 0, len(items))
	for _, e := range items {
		resp = append(resp, exportResponse{ID: e.ID, Key: e.StorageKey, NoteCount: e.NoteCount, CreatedAt: e.CreatedAt})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) handleExportLink(w http.ResponseWriter, r *http.Request) {
	res, err := s.exports.Link(r.Context(), userIDFromRequest(r), r.PathValue("id"))
	if err != nil {
		s.writeError(r.Context(), w, "export link", err)
		return
	}
	writeJSON(w, http.StatusOK, exportResultToResponse(res))
}
