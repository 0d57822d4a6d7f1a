package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Tracking.validate(); err != nil {
		return fmt.Errorf("tracking: %w", err)
	}

	return nil
}

func (t *TrackingConfig) validate() error {
	if t.BarcodeRetries < 1 {
		return fmt.Errorf("barcode_retries must be >= 1 (got %d)", t.BarcodeRetries)
	}
	if t.MaxOffspringPerBatch < 1 {
		return fmt.Errorf("max_offspring_per_batch must be >= 1 (got %d)", t.MaxOffspringPerBatch)
	}
	if t.MaxListLimit < 1 {
		return fmt.Errorf("max_list_limit must be >= 1 (got %d)", t.MaxListLimit)
	}
	return nil
}
