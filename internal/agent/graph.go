package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adbkb/adbkb/internal/knowledge"
)

// State carries the query through the pipeline. Each stage receives a
// State by value and returns an extended copy; stages never mutate
// their input.
type State struct {
	Query             string
	Category          Category
	Evidence          []knowledge.Result
	SpecialistOutputs map[Category]string
	FinalAnswer       string
}

// Graph is the fixed three-stage pipeline: route, dispatch to a
// specialist, synthesize. The dispatch table is built once at
// construction; workflow queries go to the command expert and
// conceptual queries to the conceptual explainer.
type Graph struct {
	router      *Router
	dispatch    map[Category]*Specialist
	synthesizer *Synthesizer
	logger      *slog.Logger
}

// GraphSpecialists groups the four responders the graph dispatches to.
type GraphSpecialists struct {
	CommandExpert       *Specialist
	Troubleshooter      *Specialist
	CodeAssistant       *Specialist
	ConceptualExplainer *Specialist
}

// NewGraph builds the pipeline.
func NewGraph(router *Router, specialists GraphSpecialists, synthesizer *Synthesizer, logger *slog.Logger) *Graph {
	if logger == nil {
		logger = slog.Default()
	}
	return &Graph{
		router: router,
		dispatch: map[Category]*Specialist{
			CategoryCommandLookup:   specialists.CommandExpert,
			CategoryTroubleshooting: specialists.Troubleshooter,
			CategoryCodeGeneration:  specialists.CodeAssistant,
			CategoryConceptual:      specialists.ConceptualExplainer,
			CategoryWorkflow:        specialists.CommandExpert,
		},
		synthesizer: synthesizer,
		logger:      logger.With("component", "graph"),
	}
}

// Run processes a query through route, dispatch, and synthesize.
// evidence is the retrieval result for the query; the graph itself
// performs no retrieval. The returned State has a non-empty FinalAnswer
// exactly when err is nil.
func (g *Graph) Run(ctx context.Context, query string, evidence []knowledge.Result) (State, error) {
	state := State{
		Query:    query,
		Evidence: evidence,
	}

	state, err := g.route(ctx, state)
	if err != nil {
		return state, err
	}

	state, err = g.dispatchStage(ctx, state)
	if err != nil {
		return state, err
	}

	return g.synthesize(ctx, state)
}

func (g *Graph) route(ctx context.Context, state State) (State, error) {
	category, err := g.router.Classify(ctx, state.Query)
	if err != nil {
		return state, err
	}
	g.logger.Info("routed query", "category", category)

	next := state
	next.Category = category
	return next, nil
}

func (g *Graph) dispatchStage(ctx context.Context, state State) (State, error) {
	specialist, ok := g.dispatch[state.Category]
	if !ok {
		return state, fmt.Errorf("no specialist for category %q", state.Category)
	}

	output, err := specialist.Process(ctx, state.Query, state.Evidence)
	if err != nil {
		return state, err
	}

	next := state
	next.SpecialistOutputs = map[Category]string{state.Category: output}
	return next, nil
}

func (g *Graph) synthesize(ctx context.Context, state State) (State, error) {
	answer, err := g.synthesizer.Synthesize(ctx, state.Query, state.Category,
		state.SpecialistOutputs[state.Category], state.Evidence)
	if err != nil {
		return state, err
	}

	next := state
	next.FinalAnswer = answer
	return next, nil
}
