package services

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// fakeClient is an in-memory client.Client. Notes are stored exactly as
// sent, so tests can inspect what would go over the wire.
type fakeClient struct {
	notes   map[string]*models.EncryptedNote
	order   []string
	nextID  int
	err     error
	session *models.Session

	lastRegister   []string
	lastLogin      []string
	lastChange     []string
	lastDelete     string
	loggedOut      bool
	closed         bool
	exportResult   *models.Export
	exportsResult  []*models.Export
	lastExportLink string
}

func newFakeClient() *fakeClient {
	return &fakeClient{notes: map[string]*models.EncryptedNote{}}
}

func (f *fakeClient) Close() error {
	f.closed = true
	return f.err
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.err }

func (f *fakeClient) Register(ctx context.Context, name, email, password string) error {
	f.lastRegister = []string{name, email, password}
	return f.err
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	f.lastLogin = []string{email, password}
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakeClient) Logout() { f.loggedOut = true }

func (f *fakeClient) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	f.lastChange = []string{oldPassword, newPassword}
	return f.err
}

func (f *fakeClient) DeleteAccount(ctx context.Context, password string) error {
	f.lastDelete = password
	return f.err
}

func (f *fakeClient) ListNotes(ctx context.Context) ([]*models.EncryptedNote, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.EncryptedNote, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		out = append(out, f.notes[f.order[i]])
	}
	return out, nil
}

func (f *fakeClient) CreateNote(ctx context.Context, title, content string) (*models.EncryptedNote, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	n := &models.EncryptedNote{ID: string(rune('a' + f.nextID - 1)), Title: title, Content: content}
	f.notes[n.ID] = n
	f.order = append(f.order, n.ID)
	return n, nil
}

func (f *fakeClient) UpdateNote(ctx context.Context, id, title, content string) (*models.EncryptedNote, error) {
	if f.err != nil {
		return nil, f.err
	}
	n, ok := f.notes[id]
	if !ok {
		return nil, errNotFound
	}
	n.Title, n.Content = title, content
	return n, nil
}

func (f *fakeClient) DeleteNote(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.notes[id]; !ok {
		return errNotFound
	}
	delete(f.notes, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeClient) ExportNotes(ctx context.Context) (*models.Export, error) {
	return f.exportResult, f.err
}

func (f *fakeClient) ListExports(ctx context.Context) ([]*models.Export, error) {
	return f.exportsResult, f.err
}

func (f *fakeClient) GetExportLink(ctx context.Context, id string) (*models.Export, error) {
	f.lastExportLink = id
	return f.exportResult, f.err
}
