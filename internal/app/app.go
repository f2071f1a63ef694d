package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"AdvocateDirectory/internal/config"
	"AdvocateDirectory/internal/infrastructure/directory"
	"AdvocateDirectory/internal/infrastructure/httpapi"
	"AdvocateDirectory/internal/infrastructure/storage"
	"AdvocateDirectory/internal/ui"
	"AdvocateDirectory/internal/usecase"
)

// Application wires config to the store, the listing API and the browser.
type Application struct {
	cfg    config.Config
	logger *zap.Logger
}

// New builds an application; a nil logger discards output.
func New(cfg config.Config, logger *zap.Logger) *Application {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Application{cfg: cfg, logger: logger}
}

// Serve listens on the configured address until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Server.Addr, err)
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener serves the listing API, health check and directory page on
// ln and shuts down gracefully when ctx is cancelled.
func (a *Application) ServeListener(ctx context.Context, ln net.Listener) error {
	db, err := a.openStore(ctx)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer db.Close()

	repo := storage.NewRepository(db, a.cfg.Database.Driver)
	handler := httpapi.NewHandler(repo, a.cfg.Server.QueryTimeout, a.logger.Named("http"))

	server := &http.Server{
		Handler:           httpapi.Routes(handler),
		ReadHeaderTimeout: a.cfg.Server.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		a.logger.Info("shutting down")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Browse runs the interactive directory against the listing endpoint.
func (a *Application) Browse(ctx context.Context, opts ...tea.ProgramOption) error {
	client := directory.NewClient(a.cfg.Client.BaseURL, a.cfg.Client.RequestTimeout)

	ctrl := usecase.NewController(usecase.ControllerDeps{
		Source: client,
		Delay:  a.cfg.Client.Debounce,
		Logger: a.logger.Named("directory"),
	})
	defer ctrl.Dispose()

	if err := ctrl.Start(ctx); err != nil {
		return fmt.Errorf("start directory: %w", err)
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(ui.NewModel(ctrl), opts...)

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run directory: %w", err)
	}
	return nil
}

// Migrate creates the advocates table if it does not exist.
func (a *Application) Migrate(ctx context.Context) error {
	db, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.NewRepository(db, a.cfg.Database.Driver).EnsureSchema(ctx); err != nil {
		return err
	}
	a.logger.Info("schema ready", zap.String("driver", a.cfg.Database.Driver))
	return nil
}

// Seed creates the schema and inserts the sample advocates into an empty
// table. A table that already has rows is left alone and 0 is returned.
func (a *Application) Seed(ctx context.Context) (int, error) {
	db, err := a.openStore(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	repo := storage.NewRepository(db, a.cfg.Database.Driver)
	if err := repo.EnsureSchema(ctx); err != nil {
		return 0, err
	}

	existing, err := repo.CountAdvocates(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		a.logger.Info("advocates already present, skipping seed", zap.Int("existing", existing))
		return 0, nil
	}

	n, err := repo.InsertAdvocates(ctx, storage.SampleAdvocates())
	if err != nil {
		return 0, err
	}
	a.logger.Info("seeded advocates", zap.Int("count", n))
	return n, nil
}

func (a *Application) openStore(ctx context.Context) (*sql.DB, error) {
	db, err := storage.Open(ctx, a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return db, nil
}
