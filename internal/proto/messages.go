package proto

import (
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"
)

// Timestamp converts t to its wire form. The zero time maps to nil so that
// optional fields are left out.
func Timestamp(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}
	return timestamppb.New(t)
}

// AsTime is the inverse of Timestamp.
func AsTime(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime()
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserId string `json:"user_id"`
}

type User struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the hex encoded data key. It is the only message
// that ever holds key material.
type LoginResponse struct {
	AccessToken   string `json:"access_token"`
	RefreshToken  string `json:"refresh_token"`
	User          *User  `json:"user"`
	EncryptionKey string `json:"encryption_key"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ChangePasswordResponse struct{}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type DeleteAccountResponse struct{}

type Note struct {
	Id        string    `json:"id"`
	UserId    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt *timestamppb.Timestamp `json:"created_at,omitempty"`
	UpdatedAt *timestamppb.Timestamp `json:"updated_at,omitempty"`
}

type ListNotesRequest struct{}

type ListNotesResponse struct {
	Notes []*Note `json:"notes"`
}

type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type CreateNoteResponse struct {
	Note *Note `json:"note"`
}

type UpdateNoteRequest struct {
	Id      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type UpdateNoteResponse struct {
	Note *Note `json:"note"`
}

type DeleteNoteRequest struct {
	Id string `json:"id"`
}

type DeleteNoteResponse struct{}

type Export struct {
	Id        string    `json:"id"`
	Key       string    `json:"key"`
	Url       string    `json:"url,omitempty"`
	NoteCount int       `json:"note_count"`
	CreatedAt *timestamppb.Timestamp `json:"created_at,omitempty"`
	ExpiresAt *timestamppb.Timestamp `json:"expires_at,omitempty"`
}

type ExportNotesRequest struct{}

type ExportNotesResponse struct {
	Export *Export `json:"export"`
}

type ListExportsRequest struct{}

type ListExportsResponse struct {
	Exports []*Export `json:"exports"`
}

type GetExportLinkRequest struct {
	Id string `json:"id"`
}

type GetExportLinkResponse struct {
	Export *Export `json:"export"`
}
