package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/healthfirst/homecare/internal/config"
	"github.com/healthfirst/homecare/internal/core/diagnosis"
	"github.com/healthfirst/homecare/internal/core/ports"
	"github.com/healthfirst/homecare/internal/core/triage"
	"github.com/healthfirst/homecare/internal/core/usecase"
	"github.com/healthfirst/homecare/internal/infrastructure/docstore"
	"github.com/healthfirst/homecare/internal/infrastructure/queue/nats"
	"github.com/healthfirst/homecare/internal/infrastructure/refdata"
	"github.com/healthfirst/homecare/internal/infrastructure/report/xlsx"
	"github.com/healthfirst/homecare/internal/infrastructure/repository/sqlstore"
	"github.com/healthfirst/homecare/internal/infrastructure/resilience"
	"github.com/healthfirst/homecare/internal/infrastructure/security"
	"github.com/healthfirst/homecare/internal/infrastructure/settingsstore"
	"github.com/healthfirst/homecare/internal/infrastructure/storage/gcs"
	"github.com/healthfirst/homecare/internal/infrastructure/storage/localfs"
)

// Options carry process-specific telemetry hooks into the wiring.
type Options struct {
	ResilienceObserver resilience.Observer
	TriageObserver     ports.TriageObserver
}

type App struct {
	Config config.Config

	DB        *sqlstore.DB
	Queue     ports.SyncQueue
	Publisher ports.SyncPublisher
	Executor  *resilience.Executor

	Engine    *triage.Engine
	Predictor *diagnosis.Predictor
	AIReport  diagnosis.InitReport

	AuthUC    *usecase.AuthUseCase
	AssessUC  *usecase.AssessUseCase
	CatalogUC *usecase.CatalogUseCase
	ProfileUC *usecase.ProfileUseCase
	ContactUC *usecase.ContactUseCase
	AdminUC   *usecase.AdminUseCase
	AIInitUC  *usecase.AIInitUseCase
	// SyncUC is nil when SYNC_BACKEND=none.
	SyncUC   *usecase.SyncUseCase
	Exporter *xlsx.Exporter

	closeFns []func()
}

func New(ctx context.Context, cfg config.Config, opts Options) (app *App, err error) {
	app = &App{Config: cfg}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	if err := ensureSQLiteDir(cfg.DatabaseDSN); err != nil {
		return nil, err
	}
	db, err := sqlstore.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	app.DB = db
	app.onClose(func() { _ = db.Close() })
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	objects, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	app.Executor = resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: cfg.ResilienceRetries,
		BreakerEnabled:   cfg.ResilienceBreaker,
	})
	if opts.ResilienceObserver != nil {
		app.Executor.WithObserver(opts.ResilienceObserver)
	}

	docBackend, err := app.documentBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var syncReader ports.SyncReader
	if docBackend != nil {
		app.SyncUC = usecase.NewSyncUseCase(docstore.New(docBackend, app.Executor))
		syncReader = app.SyncUC
	}

	if strings.TrimSpace(cfg.NATSURL) != "" {
		queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: app.Executor,
		})
		if err != nil {
			return nil, fmt.Errorf("init message queue: %w", err)
		}
		app.onClose(queue.Close)
		app.Queue = queue
		app.Publisher = queue
	} else if app.SyncUC != nil {
		app.Publisher = usecase.NewDirectPublisher(app.SyncUC)
	}

	ref := refdata.NewDirLoader(cfg.AIDataDir, cfg.DataDir)
	app.Engine = usecase.BuildTriageEngine(ctx, ref)
	app.AIInitUC = usecase.NewAIInitUseCase(ref, objects, cfg.ModelPath, cfg.ModelRetrain)

	loader := app.AIInitUC.Loader(ctx)
	app.Predictor, err = loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("init predictor: %w", err)
	}
	app.AIReport = loader.Report()
	slog.Info("predictor_ready",
		"source", app.AIReport.Source,
		"saved", app.AIReport.Saved,
		"reason", app.AIReport.Reason,
	)

	users := sqlstore.NewUserRepository(db)
	sessions := sqlstore.NewSessionRepository(db)
	assessments := sqlstore.NewAssessmentRepository(db)
	contacts := sqlstore.NewContactRepository(db)
	settings := settingsstore.New(objects, cfg.SettingsPath)
	hasher := security.NewArgon2Hasher(security.DefaultArgon2Params())

	mode := usecase.ParseTriageMode(cfg.TriageMode)
	app.AuthUC = usecase.NewAuthUseCase(users, sessions, hasher, settings, app.Publisher, cfg.SessionTTL)
	app.AssessUC = usecase.NewAssessUseCase(app.Engine, app.Predictor, mode, assessments, app.Publisher, opts.TriageObserver)
	app.CatalogUC = usecase.NewCatalogUseCase(app.Engine, app.Predictor)
	app.ProfileUC = usecase.NewProfileUseCase(users, app.Publisher)
	app.ContactUC = usecase.NewContactUseCase(contacts, app.Publisher)
	app.AdminUC = usecase.NewAdminUseCase(users, sessions, assessments, contacts, settings, syncReader, app.Publisher)
	app.Exporter = xlsx.NewExporter()

	return app, nil
}

// documentBackend returns the object storage behind the document mirror, or
// nil when mirroring is disabled.
func (a *App) documentBackend(ctx context.Context, cfg config.Config) (ports.ObjectStorage, error) {
	switch cfg.SyncBackend {
	case config.SyncBackendNone:
		slog.Info("document_sync_disabled")
		return nil, nil
	case config.SyncBackendGCS:
		store, err := gcs.New(ctx, gcs.Options{
			Bucket:          cfg.GCSBucket,
			Prefix:          cfg.GCSPrefix,
			CredentialsFile: cfg.GCSCredentials,
			Endpoint:        cfg.GCSEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("init gcs document store: %w", err)
		}
		a.onClose(func() { _ = store.Close() })
		return store, nil
	case config.SyncBackendLocal, "":
		store, err := localfs.New(cfg.SyncLocalPath)
		if err != nil {
			return nil, fmt.Errorf("init local document store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown SYNC_BACKEND %q", cfg.SyncBackend)
	}
}

// SyncReader returns the document mirror reader, or nil when disabled.
func (a *App) SyncReader() ports.SyncReader {
	if a.SyncUC == nil {
		return nil
	}
	return a.SyncUC
}

func (a *App) onClose(fn func()) {
	a.closeFns = append(a.closeFns, fn)
}

func (a *App) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
	a.closeFns = nil
}

// ensureSQLiteDir creates the parent directory of a file-backed SQLite DSN.
func ensureSQLiteDir(dsn string) error {
	dialect, source := sqlstore.DialectFor(dsn)
	if dialect != sqlstore.DialectSQLite || strings.HasPrefix(source, ":memory:") || strings.HasPrefix(source, "file:") {
		return nil
	}
	path := source
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database dir: %w", err)
	}
	return nil
}
