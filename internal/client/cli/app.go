package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/config"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/services"
	"github.com/dmitrijs2005/gophnotes/internal/common"
)

var errNotLoggedIn = errors.New("please log in first")

// getSimpleText, getPassword and getMultiline point to the interactive
// input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

type App struct {
	config      *config.Config
	authService services.AuthService
	noteService services.NoteService
	dataKey     []byte
	userName    string
	notes       []*models.Note
	reader      *bufio.Reader
	out         io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return &App{
		config:      c,
		authService: services.NewAuthService(apiClient),
		noteService: services.NewNoteService(apiClient),
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

// Run starts the REPL and blocks until the user exits. The session is
// cleared and the connection closed on return.
func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)
	defer a.clearSession()

	fmt.Fprintln(a.out, "Welcome to gophnotes (type 'help' for commands)")

	pingCtx, cancel := a.withTimeout(ctx)
	if err := a.authService.Ping(pingCtx); err != nil {
		fmt.Fprintln(a.out, describeError(err))
	}
	cancel()

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) isLoggedIn() bool {
	return a.dataKey != nil
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// clearSession wipes the data key and forgets everything derived from it.
func (a *App) clearSession() {
	common.WipeByteArray(a.dataKey)
	a.dataKey = nil
	a.userName = ""
	a.notes = nil
}

// resolveNoteID accepts either a position from the last listing or a note id.
func (a *App) resolveNoteID(ref string) (string, *models.Note) {
	if i, err := strconv.Atoi(ref); err == nil && i >= 1 && i <= len(a.notes) {
		return a.notes[i-1].ID, a.notes[i-1]
	}
	for _, n := range a.notes {
		if n.ID == ref {
			return n.ID, n
		}
	}
	return ref, nil
}

func describeError(err error) string {
	switch {
	case errors.Is(err, errNotLoggedIn):
		return "Please log in first"
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable"
	case errors.Is(err, client.ErrUnauthorized):
		return "Invalid credentials or session expired"
	case errors.Is(err, client.ErrAlreadyExists):
		return "Email already registered"
	case errors.Is(err, client.ErrNotFound):
		return "Not found"
	case errors.Is(err, client.ErrInvalidArgument):
		return err.Error()
	default:
		return "Error: " + err.Error()
	}
}
