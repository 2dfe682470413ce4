package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// NoteService stores notes on behalf of their owner. Title and content are
// opaque to the server.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNoteService(db *sql.DB, repomanager repomanager.RepositoryManager) *NoteService {
	return &NoteService{db: db, repomanager: repomanager}
}

func validateNote(title, content string) error {
	if title == "" || content == "" {
		return fmt.Errorf("%w: title and content are required", common.ErrorValidation)
	}
	return nil
}

// parseNoteID treats anything that is not a UUID as an id that cannot exist.
func parseNoteID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", common.ErrorNotFound
	}
	return u.String(), nil
}

// List returns the user's notes, newest first.
func (s *NoteService) List(ctx context.Context, userID string) ([]*models.Note, error) {
	notes, err := s.repomanager.Notes(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) Create(ctx context.Context, userID, title, content string) (*models.Note, error) {
	if err := validateNote(title, content); err != nil {
		return nil, err
	}

	note := &models.Note{
		ID:      uuid.NewString(),
		UserID:  userID,
		Title:   title,
		Content: content,
	}
	n, err := s.repomanager.Notes(s.db).Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("error creating note: %w", err)
	}
	return n, nil
}

func (s *NoteService) Update(ctx context.Context, userID, noteID, title, content string) (*models.Note, error) {
	id, err := parseNoteID(noteID)
	if err != nil {
		return nil, err
	}
	if err := validateNote(title, content); err != nil {
		return nil, err
	}

	note := &models.Note{ID: id, UserID: userID, Title: title, Content: content}
	n, err := s.repomanager.Notes(s.db).Update(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("error updating note: %w", err)
	}
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	id, err := parseNoteID(noteID)
	if err != nil {
		return err
	}
	if err := s.repomanager.Notes(s.db).Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("error deleting note: %w", err)
	}
	return nil
}
