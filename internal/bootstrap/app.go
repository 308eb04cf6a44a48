package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"docspeech-backend/internal/audio"
	"docspeech-backend/internal/conversion"
	"docspeech-backend/internal/documents"
	"docspeech-backend/internal/extract"
	"docspeech-backend/internal/services/health"
	"docspeech-backend/internal/shared/config"
	"docspeech-backend/internal/shared/server"
	"docspeech-backend/internal/shared/server/middleware"
	"docspeech-backend/internal/shared/storage/db"
	"docspeech-backend/internal/shared/storage/mongodb"
	"docspeech-backend/internal/shared/telemetry"
	"docspeech-backend/internal/speech"
	"docspeech-backend/internal/speech/gtts"
	openaitts "docspeech-backend/internal/speech/openai"
	"docspeech-backend/internal/web"
)

// App holds shared dependencies and the router.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Mongo             *mongo.Client
	DocumentsRepo     documents.Repo
	Extractor         extract.Extractor
	Synthesizer       speech.Synthesizer
	ConversionService *conversion.Service
	ConvertHandler    *conversion.Handler
	AudioHandler      *audio.Handler
	Health            *health.Service
}

// Option overrides a dependency, mainly for tests.
type Option func(*App)

// WithSynthesizer replaces the configured speech provider.
func WithSynthesizer(s speech.Synthesizer) Option {
	return func(a *App) { a.Synthesizer = s }
}

// WithExtractor replaces the docx extractor.
func WithExtractor(e extract.Extractor) Option {
	return func(a *App) { a.Extractor = e }
}

// WithDocumentsRepo replaces the configured document store.
func WithDocumentsRepo(r documents.Repo) Option {
	return func(a *App) { a.DocumentsRepo = r }
}

// Build prepares directories, stores and providers, then wires the router.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	ctx := context.Background()
	app := &App{Config: cfg}
	for _, opt := range opts {
		opt(app)
	}

	for _, dir := range []string{cfg.UploadDir, cfg.AudioDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	if app.DocumentsRepo == nil {
		if err := buildRepo(ctx, app); err != nil {
			return nil, err
		}
	}
	if app.Extractor == nil {
		app.Extractor = extract.DocxExtractor{}
	}
	if app.Synthesizer == nil {
		synth, err := buildSynthesizer(cfg)
		if err != nil {
			return nil, err
		}
		app.Synthesizer = synth
	}

	lib, err := audio.NewLibrary(cfg.AudioDir)
	if err != nil {
		return nil, err
	}
	pages, err := web.NewPages()
	if err != nil {
		return nil, fmt.Errorf("load pages: %w", err)
	}

	app.ConversionService = &conversion.Service{
		Extractor:    app.Extractor,
		Synth:        app.Synthesizer,
		Repo:         app.DocumentsRepo,
		AudioDir:     cfg.AudioDir,
		Language:     cfg.TTSLanguage,
		SynthTimeout: cfg.SynthTimeout,
	}
	app.ConvertHandler = conversion.NewHandler(app.ConversionService, cfg.UploadDir, cfg.MaxUploadBytes)
	app.AudioHandler = audio.NewHandler(lib)
	app.Health = health.NewService(app.Config.DocStore, app.storeChecker())

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		ConvertHandler: app.ConvertHandler,
		AudioHandler:   app.AudioHandler,
		Pages:          pages,
		RateLimiter:    middleware.NewRateLimiter(nil),
		Health:         app.Health,
	})

	return app, nil
}

// Close releases database connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Mongo != nil {
		errs = append(errs, a.Mongo.Disconnect(ctx))
	}
	return errors.Join(errs...)
}

func (a *App) storeChecker() health.Checker {
	switch {
	case a.DB != nil:
		return a.DB.PingContext
	case a.Mongo != nil:
		return func(ctx context.Context) error { return a.Mongo.Ping(ctx, readpref.Primary()) }
	default:
		return nil
	}
}

func buildRepo(ctx context.Context, app *App) error {
	cfg := app.Config
	switch cfg.DocStore {
	case config.StorePostgres:
		sqlDB, err := connectPostgres(ctx, cfg)
		if err != nil {
			return fallbackOrFail(app, "postgres", err)
		}
		app.DB = sqlDB
		app.DocumentsRepo = &documents.PGRepo{DB: sqlDB}
	case config.StoreSQLite:
		sqlDB, err := db.ConnectSQLite(ctx, cfg.SQLitePath)
		if err == nil {
			err = db.RunMigrations(ctx, sqlDB, db.SQLite)
			if err != nil {
				_ = sqlDB.Close()
			}
		}
		if err != nil {
			return fallbackOrFail(app, "sqlite", err)
		}
		app.DB = sqlDB
		app.DocumentsRepo = documents.NewSQLiteRepo(sqlDB)
	case config.StoreMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return fallbackOrFail(app, "mongo", err)
		}
		app.Mongo = client
		coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		app.DocumentsRepo = documents.NewMongoRepo(coll)
	default:
		app.DocumentsRepo = documents.NewMemoryRepo()
	}
	telemetry.Info("bootstrap.store", map[string]any{"store": app.Config.DocStore})
	return nil
}

func connectPostgres(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB, db.Postgres); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

// fallbackOrFail swaps in the memory store for dev-like environments.
func fallbackOrFail(app *App, store string, err error) error {
	if !config.IsDevLike(app.Config.Env) {
		return fmt.Errorf("connect %s document store: %w", store, err)
	}
	telemetry.Warn("bootstrap.store_fallback", map[string]any{
		"store": store,
		"err":   err,
	})
	app.Config.DocStore = config.StoreMemory
	app.DocumentsRepo = documents.NewMemoryRepo()
	return nil
}

func buildSynthesizer(cfg config.Config) (speech.Synthesizer, error) {
	switch cfg.TTSProvider {
	case config.TTSOpenAI:
		synth, err := openaitts.New(openaitts.Options{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAITTSModel,
			Voice:      cfg.OpenAITTSVoice,
			MaxRetries: 2,
		})
		if err != nil {
			return nil, err
		}
		return synth, nil
	default:
		return gtts.New(cfg.GTTSBaseURL, nil), nil
	}
}
