package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/exports"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/users"
	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// fakeUsersRepo is an in-memory users.Repository.
type fakeUsersRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	getErr  error
	upErr   error
	delErr  error
	created int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func clone(u *models.User) *models.User {
	c := *u
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	c.KEKSalt = append([]byte(nil), u.KEKSalt...)
	return &c
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	f.byID[u.ID] = clone(u)
	f.created++
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (f *fakeUsersRepo) UpdateCredentials(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upErr != nil {
		return f.upErr
	}
	cur, ok := f.byID[u.ID]
	if !ok {
		return common.ErrorNotFound
	}
	cur.PasswordHash = u.PasswordHash
	cur.KEKSalt = u.KEKSalt
	cur.WrappedKey = u.WrappedKey
	return nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeRefreshRepo struct {
	mu        sync.Mutex
	tokens    map[string]*models.RefreshToken
	findErr   error
	delErr    error
	createErr error
	revoked   []string
	// lostRace drops the token right after Find hands it out, as if a
	// concurrent request had already rotated it.
	lostRace bool
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if f.lostRace {
		delete(f.tokens, token)
	}
	return t, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	if _, ok := f.tokens[token]; !ok {
		return common.ErrorNotFound
	}
	delete(f.tokens, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteByUser(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	for k, t := range f.tokens {
		if t.UserID == userID {
			delete(f.tokens, k)
		}
	}
	f.revoked = append(f.revoked, userID)
	return nil
}

type fakeNotesRepo struct {
	mu    sync.Mutex
	notes map[string]*models.Note
	err   error
}

func newFakeNotesRepo() *fakeNotesRepo {
	return &fakeNotesRepo{notes: map[string]*models.Note{}}
}

func (f *fakeNotesRepo) List(ctx context.Context, userID string) ([]*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Note, 0)
	for _, n := range f.notes {
		if n.UserID == userID {
			c := *n
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeNotesRepo) Get(ctx context.Context, userID, id string) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notes[id]
	if !ok || n.UserID != userID {
		return nil, common.ErrorNotFound
	}
	c := *n
	return &c, nil
}

func (f *fakeNotesRepo) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	note.CreatedAt = time.Now().Add(time.Duration(len(f.notes)) * time.Millisecond)
	note.UpdatedAt = note.CreatedAt
	c := *note
	f.notes[note.ID] = &c
	return note, nil
}

func (f *fakeNotesRepo) Update(ctx context.Context, note *models.Note) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cur, ok := f.notes[note.ID]
	if !ok || cur.UserID != note.UserID {
		return nil, common.ErrorNotFound
	}
	cur.Title, cur.Content = note.Title, note.Content
	cur.UpdatedAt = cur.UpdatedAt.Add(time.Second)
	c := *cur
	return &c, nil
}

func (f *fakeNotesRepo) Delete(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cur, ok := f.notes[id]
	if !ok || cur.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.notes, id)
	return nil
}

type fakeExportsRepo struct {
	mu        sync.Mutex
	items     map[string]*models.Export
	createErr error
	markErr   error
}

func newFakeExportsRepo() *fakeExportsRepo {
	return &fakeExportsRepo{items: map[string]*models.Export{}}
}

func (f *fakeExportsRepo) Create(ctx context.Context, e *models.Export) (*models.Export, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	e.ID = uuid.NewString()
	e.Status = models.ExportStatusPending
	e.CreatedAt = time.Now()
	c := *e
	f.items[e.ID] = &c
	return e, nil
}

func (f *fakeExportsRepo) MarkUploaded(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	e, ok := f.items[id]
	if !ok {
		return errors.New("wrong rows affected count: 0")
	}
	e.Status = models.ExportStatusCompleted
	return nil
}

func (f *fakeExportsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Export, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Export, 0)
	for _, e := range f.items {
		if e.UserID == userID && e.Status == models.ExportStatusCompleted {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeExportsRepo) GetByID(ctx context.Context, userID, id string) (*models.Export, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.items[id]
	if !ok || e.UserID != userID {
		return nil, common.ErrorNotFound
	}
	c := *e
	return &c, nil
}

// fakeRepoManager hands out the same fakes whatever DBTX it is given.
type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	n *fakeNotesRepo
	e *fakeExportsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		r: newFakeRefreshRepo(),
		n: newFakeNotesRepo(),
		e: newFakeExportsRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository { return m.r }
func (m *fakeRepoManager) Notes(db dbx.DBTX) notes.Repository                 { return m.n }
func (m *fakeRepoManager) Exports(db dbx.DBTX) exports.Repository             { return m.e }
