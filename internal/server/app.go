// Package server wires configuration, storage and services together and
// runs the gRPC and HTTP transports until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophnotes/internal/keywrap"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/server/rest"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"

	gs "github.com/dmitrijs2005/gophnotes/internal/server/grpc"
)

var (
	sqlOpen              = sql.Open
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
	signalsToStop        = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	userService   *services.UserService
	noteService   *services.NoteService
	exportService *services.ExportService
}

// NewApp connects to the database, applies migrations and builds the
// services. The returned App owns the connection pool.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := sqlOpen("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	deriver := keywrap.NewDeriver(c.KDFParams(), c.KDFConcurrency)

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		userService:   services.NewUserService(db, rm, deriver, c),
		noteService:   services.NewNoteService(db, rm),
		exportService: services.NewExportService(db, rm, c),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, signalsToStop...)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) start(ctx context.Context, cancelFunc context.CancelFunc, name string, r runner) {
	if err := r.Run(ctx); err != nil {
		app.logger.Error(ctx, "server error", "server", name, "error", err)
		cancelFunc()
	}
}

// Run serves both transports until ctx is cancelled, a stop signal arrives
// or either server fails, then closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger,
		app.userService, app.noteService, app.exportService, app.config.SecretKey)
	httpServer := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger,
		app.userService, app.noteService, app.exportService, app.config.SecretKey)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "grpc", grpcServer)
	}()
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "http", httpServer)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(context.Background(), "App stopped")
}
