package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteService_CRUD(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewNoteService(db, rm)
	ctx := context.Background()

	first, err := s.Create(ctx, "u1", "t1", "c1")
	require.NoError(t, err)
	_, err = uuid.Parse(first.ID)
	require.NoError(t, err, "ids are uuids")
	assert.Equal(t, "u1", first.UserID)

	second, err := s.Create(ctx, "u1", "t2", "c2")
	require.NoError(t, err)
	_, err = s.Create(ctx, "u2", "other", "other")
	require.NoError(t, err)

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	updated, err := s.Update(ctx, "u1", first.ID, "t1b", "c1b")
	require.NoError(t, err)
	assert.Equal(t, "t1b", updated.Title)
	assert.True(t, updated.UpdatedAt.After(first.CreatedAt))

	require.NoError(t, s.Delete(ctx, "u1", first.ID))
	list, err = s.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNoteService_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewNoteService(db, newFakeRepoManager())

	_, err := s.Create(context.Background(), "u1", "", "c")
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = s.Create(context.Background(), "u1", "t", "")
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = s.Update(context.Background(), "u1", uuid.NewString(), "", "c")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestNoteService_OwnerScoping(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewNoteService(db, rm)
	ctx := context.Background()

	n, err := s.Create(ctx, "owner", "t", "c")
	require.NoError(t, err)

	_, err = s.Update(ctx, "intruder", n.ID, "x", "y")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "intruder", n.ID), common.ErrorNotFound)

	got, err := rm.n.Get(ctx, "owner", n.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
}

func TestNoteService_MalformedIDIsNotFound(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewNoteService(db, newFakeRepoManager())

	_, err := s.Update(context.Background(), "u1", "not-a-uuid", "t", "c")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, s.Delete(context.Background(), "u1", "507f1f77bcf86cd799439011"), common.ErrorNotFound)
}

func TestNoteService_RepoErrors(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.n.err = errBoom
	s := NewNoteService(db, rm)

	_, err := s.List(context.Background(), "u1")
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "error listing notes")

	_, err = s.Create(context.Background(), "u1", "t", "c")
	assert.ErrorIs(t, err, errBoom)
}
