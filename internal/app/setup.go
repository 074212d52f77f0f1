package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adbkb/adbkb/db"
	"github.com/adbkb/adbkb/internal/agent"
	"github.com/adbkb/adbkb/internal/api"
	"github.com/adbkb/adbkb/internal/config"
	"github.com/adbkb/adbkb/internal/ingest"
	"github.com/adbkb/adbkb/internal/knowledge"
	"github.com/adbkb/adbkb/internal/log"
	"github.com/adbkb/adbkb/internal/retrieval"
	"github.com/adbkb/adbkb/internal/sqlc"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup — call Close() to release.
func Setup(ctx context.Context, cfg *config.Config) (_ *App, retErr error) {
	logger := log.New(log.Config{
		Level: cfg.LogLevelSlog(),
		JSON:  cfg.LogJSON,
	})

	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized.
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	pool, err := provideDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.DBPool = pool

	g, err := provideGenkit(ctx)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}
	a.Embedder = embedder

	queries := sqlc.New(pool)
	a.VectorIndex = knowledge.NewVectorIndex(queries, logger)
	a.KeywordIndex = knowledge.NewKeywordIndex(queries, logger)

	a.Retriever = retrieval.New(embedder, a.VectorIndex, a.KeywordIndex, cfg.TopK, cfg.HybridSearch, logger)
	a.Retriever.Define(g, "knowledge")

	a.Graph = provideGraph(g, cfg, logger)

	a.Ingestor = ingest.NewIngestor(
		ingest.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder,
		a.VectorIndex,
		logger,
	)

	server, err := api.NewServer(api.ServerConfig{
		Logger:      logger,
		Retriever:   a.Retriever,
		Graph:       a.Graph,
		Ingestor:    a.Ingestor,
		Stats:       a.VectorIndex,
		Deleter:     a.VectorIndex,
		Pinger:      pool,
		CORSOrigins: cfg.CORSOrigins,
		RateRPS:     cfg.RateRPS,
		RateBurst:   cfg.RateBurst,
	})
	if err != nil {
		return nil, fmt.Errorf("creating API server: %w", err)
	}
	a.Server = server

	_, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	return a, nil
}

// provideDBPool creates a PostgreSQL connection pool and runs migrations.
// Pool is configured with sensible defaults for connection management.
func provideDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// provideGenkit initializes Genkit with the Google AI plugin.
// Requires GEMINI_API_KEY (or GOOGLE_API_KEY) in the environment.
func provideGenkit(ctx context.Context) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit with googleai plugin")
	}
	return g, nil
}

// provideGraph wires the router, specialists, and synthesizer into the
// orchestration graph. Classification runs on the cheap router tier;
// specialists and synthesis share the full answer tier.
func provideGraph(g *genkit.Genkit, cfg *config.Config, logger log.Logger) *agent.Graph {
	routerGen := agent.NewModelGenerator(g, cfg.RouterModelName, cfg.RouterTemperature, int32(cfg.RouterMaxTokens)) //nolint:gosec // bounded by config validation
	answerGen := agent.NewModelGenerator(g, cfg.ModelName, cfg.Temperature, int32(cfg.MaxTokens))                   //nolint:gosec // bounded by config validation

	return agent.NewGraph(
		agent.NewRouter(routerGen, logger),
		agent.GraphSpecialists{
			CommandExpert:       agent.NewCommandExpert(answerGen, logger),
			Troubleshooter:      agent.NewTroubleshooter(answerGen, logger),
			CodeAssistant:       agent.NewCodeAssistant(answerGen, logger),
			ConceptualExplainer: agent.NewConceptualExplainer(answerGen, logger),
		},
		agent.NewSynthesizer(answerGen, logger),
		logger,
	)
}
