// Package agent implements the query-answering pipeline: a router that
// classifies the question, specialist responders grounded on retrieved
// knowledge, and a synthesizer that produces the final answer.
package agent

// Category is the query class the router assigns. It selects which
// specialist handles the question.
type Category string

const (
	CategoryCommandLookup   Category = "command_lookup"
	CategoryTroubleshooting Category = "troubleshooting"
	CategoryCodeGeneration  Category = "code_generation"
	CategoryConceptual      Category = "conceptual"
	CategoryWorkflow        Category = "workflow"
)

// Categories returns all categories in canonical order. The router
// scans classification output in this order, so it doubles as the
// tie-break when a response mentions more than one category.
func Categories() []Category {
	return []Category{
		CategoryCommandLookup,
		CategoryTroubleshooting,
		CategoryCodeGeneration,
		CategoryConceptual,
		CategoryWorkflow,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryCommandLookup, CategoryTroubleshooting, CategoryCodeGeneration, CategoryConceptual, CategoryWorkflow:
		return true
	}
	return false
}
