package container

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a zap logger. "json" selects the production encoder, anything else
// the human-readable development one.
func NewLogger(format, level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if format == "json" {
		cfg = zap.NewProductionConfig()
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}

		cfg.Level = lvl
	}

	return cfg.Build()
}
