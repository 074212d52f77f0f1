// Package app provides application initialization and dependency wiring.
//
// App is the container that holds every long-lived component: the
// database pool, Genkit runtime, knowledge indices, retriever, agent
// graph, ingestor, and HTTP server. Setup builds them in dependency
// order; Close releases them.
package app

import (
	"context"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adbkb/adbkb/internal/agent"
	"github.com/adbkb/adbkb/internal/api"
	"github.com/adbkb/adbkb/internal/config"
	"github.com/adbkb/adbkb/internal/ingest"
	"github.com/adbkb/adbkb/internal/knowledge"
	"github.com/adbkb/adbkb/internal/log"
	"github.com/adbkb/adbkb/internal/retrieval"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger log.Logger

	// Core services
	DBPool   *pgxpool.Pool
	Genkit   *genkit.Genkit
	Embedder ai.Embedder

	// Knowledge pipeline
	VectorIndex  *knowledge.VectorIndex
	KeywordIndex *knowledge.KeywordIndex
	Retriever    *retrieval.Retriever
	Graph        *agent.Graph
	Ingestor     *ingest.Ingestor

	// HTTP surface
	Server *api.Server

	cancel context.CancelFunc
}

// Close gracefully shuts down all resources.
func (a *App) Close() error {
	if a.Logger != nil {
		a.Logger.Info("shutting down application")
	}

	if a.cancel != nil {
		a.cancel()
	}

	if a.DBPool != nil {
		a.DBPool.Close()
		if a.Logger != nil {
			a.Logger.Info("database pool closed")
		}
	}

	return nil
}
