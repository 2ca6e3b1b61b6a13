package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/dmitrijs2005/fotogen/internal/client/client"
	"github.com/dmitrijs2005/fotogen/internal/client/config"
	"github.com/dmitrijs2005/fotogen/internal/client/identity"
	"github.com/dmitrijs2005/fotogen/internal/client/mirror"
	"github.com/dmitrijs2005/fotogen/internal/client/models"
	"github.com/dmitrijs2005/fotogen/internal/client/router"
	"github.com/dmitrijs2005/fotogen/internal/client/services"
	"github.com/dmitrijs2005/fotogen/internal/client/session"
	"github.com/dmitrijs2005/fotogen/internal/filex"
	"github.com/dmitrijs2005/fotogen/internal/logging"
)

const (
	dbFileName   = "fotogen.db"
	lockFileName = "fotogen.lock"
)

// ErrSessionActive is returned when another CLI session holds the state
// directory lock.
var ErrSessionActive = errors.New("another fotogen session is using this state directory")

type App struct {
	config *config.Config
	log    logging.Logger

	db       *sql.DB
	lock     *flock.Flock
	store    *session.Store
	nav      *router.MemoryNavigator
	resolver *router.Resolver
	api      client.Client

	authService       services.AuthService
	modelService      services.ModelService
	generationService services.GenerationService
	trainingService   services.TrainingService
	historyService    services.HistoryService

	// page is the route whose page was last mounted.
	page string
	// remount forces the next Settle to mount page again.
	remount bool
	// trainingFiles is the size of the batch handed to the running attempt.
	trainingFiles int

	reader *bufio.Reader
	out    io.Writer
	outMu  sync.Mutex
}

// wiring carries what differs between a production App and a test App.
type wiring struct {
	provider identity.Provider
	kv       session.KV
	// newClient builds the backend client around the app's token source.
	newClient func(tokens client.TokenSource) client.Client
	mirror    mirror.Mirror
	in        io.Reader
	out       io.Writer
}

// NewApp opens local state under cfg.StateDir, takes the session lock and
// wires the services. Close must be called to release the lock.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop{}
	}

	stateDir, err := filex.EnsureSubdDir(c.StateDir)
	if err != nil {
		return nil, err
	}

	lock, err := acquireLock(filepath.Join(stateDir, lockFileName))
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, filepath.Join(stateDir, dbFileName))
	if err != nil {
		_ = lock.Unlock()
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	repos := client.NewRepositories(db)
	out := os.Stdout

	mode, err := identity.ParseSignInMode(c.SignInMode)
	if err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	provider, err := identity.NewMSALProvider(identity.MSALConfig{
		ClientID:  c.ClientID,
		Authority: c.Authority,
		Scopes:    c.Scopes(),
		Mode:      mode,
	}, identity.NewTokenCache(repos.Metadata), func(msg string) {
		fmt.Fprintln(out, msg)
	}, log.With("component", "identity"))
	if err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	var m mirror.Mirror
	if c.Mirror.Enabled() {
		s3m, err := mirror.NewS3Mirror(ctx, c.Mirror, nil)
		if err != nil {
			log.Warn(ctx, "archive mirror disabled", "error", err)
		} else {
			m = s3m
		}
	}

	app := wire(c, log, db, repos, wiring{
		provider: provider,
		kv:       repos.SessionState,
		newClient: func(tokens client.TokenSource) client.Client {
			return client.NewHTTPClient(c.APIRoot, c.RequestTimeout, tokens, log.With("component", "api"))
		},
		mirror: m,
		in:     os.Stdin,
		out:    out,
	})
	app.lock = lock

	// Session storage does not outlive a session. A crashed run may have
	// left keys behind.
	if err := app.store.Clear(ctx); err != nil {
		log.Warn(ctx, "failed to reset session state", "error", err)
	}

	return app, nil
}

// wire assembles an App around already opened storage.
func wire(c *config.Config, log logging.Logger, db *sql.DB, repos *client.Repositories, w wiring) *App {
	store := session.NewStore(w.kv)
	nav := router.NewMemoryNavigator(router.RouteRoot)

	app := &App{
		config: c,
		log:    log,
		db:     db,
		store:  store,
		nav:    nav,
		reader: bufio.NewReader(w.in),
		out:    w.out,
	}

	app.authService = services.NewAuthService(w.provider, store, nav, log.With("component", "auth"))
	app.api = w.newClient(app.authService)
	app.resolver = router.NewResolver(app.authService, store, nav, log.With("component", "router"))
	app.modelService = services.NewModelService(app.api, app.authService, store, log.With("component", "models"))
	app.generationService = services.NewGenerationService(app.api, repos.Generations, c.OutputDir, log.With("component", "generation"))
	app.trainingService = services.NewTrainingService(app.api, repos.Trainings, services.TrainingOptions{
		MaxBatchBytes: c.MaxBatchBytes,
		Mirror:        w.mirror,
		Observer:      app.onTrainingStep,
	}, log.With("component", "training"))
	app.historyService = services.NewHistoryService(db)

	return app
}

// acquireLock takes the state directory lock without blocking.
func acquireLock(path string) (*flock.Flock, error) {
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrSessionActive
	}
	return lock, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)
	a.Root(ctx)
}

// Close clears session state and releases local resources.
func (a *App) Close(ctx context.Context) {
	if a.store != nil {
		if err := a.store.Clear(ctx); err != nil {
			a.log.Warn(ctx, "failed to clear session state", "error", err)
		}
	}
	if a.api != nil {
		_ = a.api.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.lock != nil {
		if err := a.lock.Unlock(); err != nil {
			a.log.Warn(ctx, "failed to release session lock", "error", err)
		}
	}
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

func (a *App) isLoggedIn() bool {
	id, err := a.authService.Current(context.Background())
	return err == nil && id != nil
}

func (a *App) onTrainingStep(step models.TrainingStep) {
	a.log.Debug(context.Background(), "training step", "step", string(step))
	switch step {
	case models.StepUploading:
		a.println("Uploading images...")
	case models.StepTraining:
		a.notice(noticeUploadSuccessful(a.trainingFiles))
	}
}
