package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"tender-backend/internal/ai"
	openaiclient "tender-backend/internal/ai/openai"
	"tender-backend/internal/chunks"
	"tender-backend/internal/doctypes"
	"tender-backend/internal/documents"
	"tender-backend/internal/ingest"
	"tender-backend/internal/shared/config"
	"tender-backend/internal/shared/server"
	"tender-backend/internal/shared/storage/db"
	"tender-backend/internal/shared/storage/object"
	localstore "tender-backend/internal/shared/storage/object/local"
	s3store "tender-backend/internal/shared/storage/object/s3"
	"tender-backend/internal/tables"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	DocumentsRepo documents.DocumentsRepo
	TablesRepo    tables.Repo
	ChunksRepo    chunks.Repo

	DocumentsService *documents.Service
	IngestService    *ingest.Service

	DocumentsHandler *documents.Handler
	DocTypesHandler  *doctypes.Handler
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		DocumentsHandler: app.DocumentsHandler,
		DocTypesHandler:  app.DocTypesHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	if db.IsLambdaRuntime() {
		opts = db.OptionsFromEnv(db.DefaultLambdaOptions())
		return db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildAI(cfg config.Config) (ai.LanguageDetector, ai.Embedder, error) {
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: OPENAI_API_KEY empty; language detection and embeddings disabled")
			return nil, nil, nil
		}
		return ai.PlaceholderDetector{}, ai.PlaceholderEmbedder{}, nil
	}

	client, err := openaiclient.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIChatModel, cfg.OpenAIEmbedModel, cfg.OpenAITimeout)
	if err != nil {
		return nil, nil, err
	}
	return client, client, nil
}

func buildServices(app *App) error {
	var docRepo documents.DocumentsRepo
	var tablesRepo tables.Repo
	var chunksRepo chunks.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		tablesRepo = &tables.PGRepo{DB: app.DB}
		chunksRepo = &chunks.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		tablesRepo = tables.NewMemoryRepo()
		chunksRepo = chunks.NewMemoryRepo()
	}

	detector, embedder, err := buildAI(app.Config)
	if err != nil {
		return err
	}

	ingestSvc := &ingest.Service{
		Docs:            docRepo,
		Tables:          tablesRepo,
		Chunks:          chunksRepo,
		Store:           app.Store,
		Language:        detector,
		Embedder:        embedder,
		ChunkWords:      app.Config.ChunkWords,
		EmbedWorkers:    app.Config.EmbedWorkers,
		LanguageTimeout: app.Config.LanguageTimeout,
	}

	docSvc := &documents.Service{
		Store:     app.Store,
		Repo:      docRepo,
		Tables:    tablesRepo,
		Chunks:    chunksRepo,
		Processor: ingestSvc,
	}

	app.DocumentsRepo = docRepo
	app.TablesRepo = tablesRepo
	app.ChunksRepo = chunksRepo
	app.DocumentsService = docSvc
	app.IngestService = ingestSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.DocTypesHandler = doctypes.NewHandler()

	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
