package miner

import (
	"context"

	"go.uber.org/zap"

	"github.com/rayansc80-source/cbminer/internal/metrics"
	"github.com/rayansc80-source/cbminer/internal/pool"
	"github.com/rayansc80-source/cbminer/pkg/keyutil"
)

// KeySupplier produces candidate keys for an assignment.
type KeySupplier interface {
	ObtainKeys(ctx context.Context, a *pool.Assignment) []string
}

// Supplier prefers the external miner and falls back to placeholder keys
// when no miner is configured, the miner fails, or it produces nothing.
type Supplier struct {
	runner *Runner
	logger *zap.Logger
}

// NewSupplier creates a supplier. runner may be nil, in which case every
// call returns the placeholder batch.
func NewSupplier(runner *Runner, logger *zap.Logger) *Supplier {
	return &Supplier{runner: runner, logger: logger}
}

// ObtainKeys returns candidate keys for the assignment. The external miner's
// output is returned as-is, possibly shorter than a full batch; the
// placeholder path always returns a full batch. Never errors: every failure
// degrades to placeholders.
func (s *Supplier) ObtainKeys(ctx context.Context, a *pool.Assignment) []string {
	if s.runner != nil {
		keys, err := s.runner.Run(ctx, a.Range)
		switch {
		case err != nil:
			s.logger.Warn("external miner failed, using placeholder keys", zap.Error(err))
			metrics.MinerRuns.WithLabelValues("error").Inc()
		case len(keys) == 0:
			s.logger.Warn("external miner produced no keys, using placeholder keys")
			metrics.MinerRuns.WithLabelValues("empty").Inc()
		default:
			metrics.MinerRuns.WithLabelValues("keys").Inc()
			return keys
		}
	}

	metrics.PlaceholderBatches.Inc()
	return PlaceholderBatch(pool.SubmitBatchSize)
}

// PlaceholderBatch returns n deterministic placeholder keys, indexed from 1.
// Two calls in the same process produce identical batches.
func PlaceholderBatch(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = keyutil.Placeholder(i + 1)
	}
	return keys
}
