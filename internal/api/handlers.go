package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/adbkb/adbkb/internal/agent"
	"github.com/adbkb/adbkb/internal/ingest"
	"github.com/adbkb/adbkb/internal/knowledge"
	"github.com/adbkb/adbkb/internal/retrieval"
)

// Retriever finds knowledge relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, opts ...retrieval.SearchOption) ([]knowledge.Result, error)
}

// Graph answers a query given retrieved evidence.
type Graph interface {
	Run(ctx context.Context, query string, evidence []knowledge.Result) (agent.State, error)
}

// Ingestor loads knowledge files into the knowledge base.
type Ingestor interface {
	IngestFile(ctx context.Context, path string) (ingest.FileResult, error)
	IngestDirectory(ctx context.Context, dir string) (ingest.DirectoryResult, error)
}

// StatsProvider reports knowledge base counts.
type StatsProvider interface {
	Count(ctx context.Context) (int64, error)
	TypeDistribution(ctx context.Context) (map[string]int64, error)
}

// Deleter removes documents from the knowledge base.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// Pinger checks storage connectivity. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type queryRequest struct {
	Query   string            `json:"query"`
	TopK    int               `json:"top_k,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
}

type retrievedDoc struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
	Score    float32           `json:"score"`
}

type queryResponse struct {
	Query         string         `json:"query"`
	Answer        string         `json:"answer"`
	RetrievedDocs []retrievedDoc `json:"retrieved_docs"`
	QueryType     string         `json:"query_type"`
}

type ingestRequest struct {
	Path string `json:"path"`
}

type statsResponse struct {
	TotalDocuments   int64            `json:"total_documents"`
	TypeDistribution map[string]int64 `json:"type_distribution"`
}

// handleQuery answers a question: retrieve evidence, run the graph,
// return the final answer with the evidence that grounded it.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, s.logger, http.StatusBadRequest, "query is required")
		return
	}

	opts := []retrieval.SearchOption{}
	if req.TopK > 0 {
		opts = append(opts, retrieval.WithTopK(req.TopK))
	}
	for key, value := range req.Filters {
		opts = append(opts, retrieval.WithFilter(key, value))
	}

	evidence, err := s.retriever.Retrieve(r.Context(), req.Query, opts...)
	if err != nil {
		s.internalError(w, r, "retrieval failed", err)
		return
	}

	state, err := s.graph.Run(r.Context(), req.Query, evidence)
	if err != nil {
		s.internalError(w, r, "answering failed", err)
		return
	}

	docs := make([]retrievedDoc, len(evidence))
	for i, res := range evidence {
		docs[i] = retrievedDoc{
			ID:       res.Record.ID,
			Content:  res.Record.Content,
			Metadata: res.Record.Metadata,
			Score:    res.Score,
		}
	}

	writeJSON(w, s.logger, http.StatusOK, queryResponse{
		Query:         req.Query,
		Answer:        state.FinalAnswer,
		RetrievedDocs: docs,
		QueryType:     string(state.Category),
	})
}

// handleIngest loads a knowledge file or directory from the server's
// filesystem.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		writeError(w, s.logger, http.StatusBadRequest, "path is required")
		return
	}

	info, err := os.Stat(req.Path)
	if err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "path not accessible")
		return
	}

	if info.IsDir() {
		result, err := s.ingestor.IngestDirectory(r.Context(), req.Path)
		if err != nil {
			s.internalError(w, r, "ingestion failed", err)
			return
		}
		writeJSON(w, s.logger, http.StatusOK, result)
		return
	}

	result, err := s.ingestor.IngestFile(r.Context(), req.Path)
	if err != nil {
		s.internalError(w, r, "ingestion failed", err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	total, err := s.stats.Count(r.Context())
	if err != nil {
		s.internalError(w, r, "stats unavailable", err)
		return
	}
	dist, err := s.stats.TypeDistribution(r.Context())
	if err != nil {
		s.internalError(w, r, "stats unavailable", err)
		return
	}

	writeJSON(w, s.logger, http.StatusOK, statsResponse{
		TotalDocuments:   total,
		TypeDistribution: dist,
	})
}

// handleDeleteDocument removes one document by ID. Deleting an absent
// document is a no-op, not an error.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, s.logger, http.StatusBadRequest, "document id is required")
		return
	}
	if err := s.deleter.Delete(r.Context(), id); err != nil {
		s.internalError(w, r, "deletion failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.pinger.Ping(r.Context()); err != nil {
		s.logger.Warn("readiness check failed", "error", err)
		writeError(w, s.logger, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ready"})
}

// internalError logs the cause and answers with a coarse category the
// client can distinguish, never with internal detail or evidence.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	requestID, _ := GetRequestID(r.Context())
	s.logger.Error(message, "error", err, "path", r.URL.Path, "request_id", requestID)

	switch {
	case errors.Is(err, knowledge.ErrStorageUnavailable):
		writeError(w, s.logger, http.StatusInternalServerError, "knowledge storage unavailable")
	case errors.Is(err, agent.ErrGenerationUnavailable):
		writeError(w, s.logger, http.StatusInternalServerError, "generation unavailable")
	default:
		writeError(w, s.logger, http.StatusInternalServerError, "internal server error")
	}
}
