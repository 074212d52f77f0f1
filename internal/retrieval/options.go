package retrieval

// SearchOption configures retrieval behavior using the functional
// options pattern.
type SearchOption func(*searchConfig)

type searchConfig struct {
	topK   int
	filter map[string]string
	hybrid bool
}

// WithTopK sets the maximum number of results to return.
func WithTopK(k int) SearchOption {
	return func(cfg *searchConfig) {
		cfg.topK = k
	}
}

// WithFilter adds a metadata filter restricting the embedding scan.
// Multiple calls add additional filters (AND logic).
// Example: WithFilter("type", "error_pattern")
func WithFilter(key, value string) SearchOption {
	return func(cfg *searchConfig) {
		if cfg.filter == nil {
			cfg.filter = make(map[string]string)
		}
		cfg.filter[key] = value
	}
}

// WithHybrid toggles the keyword supplement. When disabled, results
// come from the embedding scan alone.
func WithHybrid(enabled bool) SearchOption {
	return func(cfg *searchConfig) {
		cfg.hybrid = enabled
	}
}

func buildSearchConfig(defaultTopK int, defaultHybrid bool, opts []SearchOption) *searchConfig {
	cfg := &searchConfig{
		topK:   defaultTopK,
		hybrid: defaultHybrid,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
