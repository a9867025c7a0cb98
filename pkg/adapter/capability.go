package adapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/snipsql/pkg/core"
	"github.com/leapstack-labs/snipsql/pkg/dialect"
	"github.com/leapstack-labs/snipsql/pkg/snippet"
)

// Capability returns the quoting capability of the dialect a connected adapter
// speaks. The result can be passed straight to snippet.Registry.Render.
func Capability(a Adapter) (snippet.Quoting, error) {
	d, err := dialect.Lookup(a.DialectName())
	if err != nil {
		return nil, fmt.Errorf("adapter dialect: %w", err)
	}
	return d, nil
}

// Connect creates the adapter for cfg, connects it and returns its quoting
// capability. The caller must Close the adapter.
func Connect(ctx context.Context, cfg core.AdapterConfig, logger *slog.Logger) (Adapter, snippet.Quoting, error) {
	a, err := NewAdapter(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := a.Connect(ctx, cfg); err != nil {
		return nil, nil, fmt.Errorf("connect to %s target: %w", cfg.Type, err)
	}
	q, err := Capability(a)
	if err != nil {
		_ = a.Close()
		return nil, nil, err
	}
	return a, q, nil
}
