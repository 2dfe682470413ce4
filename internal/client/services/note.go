package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/cryptox"
)

// NoteService encrypts notes with the session data key before they leave
// the process and decrypts what the server returns.
type NoteService interface {
	List(ctx context.Context, key []byte) ([]*models.Note, error)
	Add(ctx context.Context, key []byte, title, content string) (*models.Note, error)
	Edit(ctx context.Context, key []byte, id, title, content string) (*models.Note, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context) (*models.Export, error)
	ListExports(ctx context.Context) ([]*models.Export, error)
	ExportLink(ctx context.Context, id string) (*models.Export, error)
}

type noteService struct {
	client client.Client
}

func NewNoteService(client client.Client) NoteService {
	return &noteService{client: client}
}

func decryptOrPlaceholder(ciphertext string, key []byte) string {
	plain, err := cryptox.DecryptText(ciphertext, key)
	if err != nil {
		return models.EncryptedPlaceholder
	}
	return plain
}

func decryptNote(n *models.EncryptedNote, key []byte) *models.Note {
	return &models.Note{
		ID:        n.ID,
		Title:     decryptOrPlaceholder(n.Title, key),
		Content:   decryptOrPlaceholder(n.Content, key),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func encryptPair(key []byte, title, content string) (string, string, error) {
	encTitle, err := cryptox.EncryptText(title, key)
	if err != nil {
		return "", "", fmt.Errorf("encrypt title: %w", err)
	}
	encContent, err := cryptox.EncryptText(content, key)
	if err != nil {
		return "", "", fmt.Errorf("encrypt content: %w", err)
	}
	return encTitle, encContent, nil
}

// List returns the user's notes, newest first. Fields the key cannot open
// are shown as models.EncryptedPlaceholder instead of failing the listing.
func (s *noteService) List(ctx context.Context, key []byte) ([]*models.Note, error) {
	encrypted, err := s.client.ListNotes(ctx)
	if err != nil {
		return nil, err
	}

	notes := make([]*models.Note, 0, len(encrypted))
	for _, n := range encrypted {
		notes = append(notes, decryptNote(n, key))
	}
	return notes, nil
}

func (s *noteService) Add(ctx context.Context, key []byte, title, content string) (*models.Note, error) {
	encTitle, encContent, err := encryptPair(key, title, content)
	if err != nil {
		return nil, err
	}

	n, err := s.client.CreateNote(ctx, encTitle, encContent)
	if err != nil {
		return nil, err
	}
	return decryptNote(n, key), nil
}

func (s *noteService) Edit(ctx context.Context, key []byte, id, title, content string) (*models.Note, error) {
	encTitle, encContent, err := encryptPair(key, title, content)
	if err != nil {
		return nil, err
	}

	n, err := s.client.UpdateNote(ctx, id, encTitle, encContent)
	if err != nil {
		return nil, err
	}
	return decryptNote(n, key), nil
}

func (s *noteService) Delete(ctx context.Context, id string) error {
	return s.client.DeleteNote(ctx, id)
}

func (s *noteService) Export(ctx context.Context) (*models.Export, error) {
	return s.client.ExportNotes(ctx)
}

func (s *noteService) ListExports(ctx context.Context) ([]*models.Export, error) {
	return s.client.ListExports(ctx)
}

func (s *noteService) ExportLink(ctx context.Context, id string) (*models.Export, error) {
	return s.client.GetExportLink(ctx, id)
}
