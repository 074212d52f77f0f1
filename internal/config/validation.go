package config

import "fmt"

// Validate checks all configuration values and returns the first
// violation found, wrapped around its sentinel error for errors.Is().
func (c *Config) Validate() error {
	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name must not be empty", ErrInvalidModelName)
	}
	if c.RouterModelName == "" {
		return fmt.Errorf("%w: router_model_name must not be empty", ErrInvalidModelName)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: %v (must be 0.0-2.0)", ErrInvalidTemperature, c.Temperature)
	}
	if c.RouterTemperature < 0 || c.RouterTemperature > 2 {
		return fmt.Errorf("%w: %v (must be 0.0-2.0)", ErrInvalidTemperature, c.RouterTemperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidMaxTokens, c.MaxTokens)
	}
	if c.RouterMaxTokens <= 0 {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidMaxTokens, c.RouterMaxTokens)
	}

	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder_model must not be empty", ErrInvalidEmbedderModel)
	}
	// The documents table stores vector(768); a different dimensionality
	// needs a paired schema migration, not just a config change.
	if c.Dimensions != 768 {
		return fmt.Errorf("%w: %d (must be 768 to match the documents schema)", ErrInvalidDimensions, c.Dimensions)
	}

	if c.TopK <= 0 {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidTopK, c.TopK)
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size %d must be positive", ErrInvalidChunking, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk_overlap %d cannot be negative", ErrInvalidChunking, c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap %d must be less than chunk_size %d",
			ErrInvalidChunking, c.ChunkOverlap, c.ChunkSize)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d (must be 1-65535)", ErrInvalidPort, c.Port)
	}

	if c.RateRPS < 0 {
		return fmt.Errorf("%w: rate_rps %v cannot be negative", ErrInvalidRateLimit, c.RateRPS)
	}
	if c.RateBurst < 0 {
		return fmt.Errorf("%w: rate_burst %d cannot be negative", ErrInvalidRateLimit, c.RateBurst)
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("%w: postgres_host must not be empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: %d (must be 1-65535)", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: postgres_db_name must not be empty", ErrInvalidPostgresDBName)
	}

	return nil
}
