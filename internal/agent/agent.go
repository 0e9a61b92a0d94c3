// Package agent runs the fetch → mine → submit cycle against the pool.
package agent

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rayansc80-source/cbminer/internal/config"
	"github.com/rayansc80-source/cbminer/internal/metrics"
	"github.com/rayansc80-source/cbminer/internal/miner"
	"github.com/rayansc80-source/cbminer/internal/pool"
	"github.com/rayansc80-source/cbminer/pkg/keyutil"
)

// DefaultDelay is the pause between cycles in loop mode.
const DefaultDelay = 5 * time.Second

// checkworkSample caps how many checkwork addresses are echoed into logs.
const checkworkSample = 5

// Options control how the agent runs.
type Options struct {
	// Big selects the big_block endpoint with its larger ranges.
	Big bool

	// Loop keeps the agent cycling until the context is canceled.
	Loop bool

	// Delay is the pause between loop iterations.
	Delay time.Duration
}

// Agent coordinates one pool work cycle: fetch an assignment, obtain keys
// for its range, and submit a full batch back.
type Agent struct {
	cfg      *config.Config
	pool     pool.Service
	supplier miner.KeySupplier
	opts     Options
	logger   *zap.Logger
}

// New creates an agent. A non-positive delay falls back to DefaultDelay.
func New(cfg *config.Config, svc pool.Service, supplier miner.KeySupplier, opts Options, logger *zap.Logger) *Agent {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	return &Agent{
		cfg:      cfg,
		pool:     svc,
		supplier: supplier,
		opts:     opts,
		logger:   logger,
	}
}

// Run executes a single cycle, or cycles until ctx is canceled when loop
// mode is on. In loop mode cycle errors are contained: they are logged,
// counted, and the loop carries on. Returns nil on a clean interrupt.
func (a *Agent) Run(ctx context.Context) error {
	if !a.opts.Loop {
		return a.RunOnce(ctx)
	}

	a.logger.Info("starting continuous mode", zap.Duration("delay", a.opts.Delay))

	var consecutiveFailures int
	for {
		err := a.RunOnce(ctx)
		if ctx.Err() != nil {
			a.logger.Info("interrupt received, exiting loop")
			return nil
		}
		if err != nil {
			consecutiveFailures++
			a.logger.Warn("cycle failed",
				zap.Error(err),
				zap.Int("consecutive_failures", consecutiveFailures),
			)
		} else if consecutiveFailures > 0 {
			a.logger.Info("cycles recovered", zap.Int("after_failures", consecutiveFailures))
			consecutiveFailures = 0
		}

		a.logger.Info("waiting before next cycle", zap.Duration("delay", a.opts.Delay))
		timer := time.NewTimer(a.opts.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			a.logger.Info("interrupt received, exiting loop")
			return nil
		case <-timer.C:
		}
	}
}

// RunOnce executes one fetch → mine → submit cycle. Every failure is logged
// at its site and returned; none of them is fatal to a surrounding loop.
func (a *Agent) RunOnce(ctx context.Context) error {
	log := a.logger.With(zap.String("cycle_id", uuid.NewString()))

	if !a.cfg.HasToken() {
		log.Error("no pool token configured, skipping cycle")
		metrics.Cycles.WithLabelValues("no_token").Inc()
		return config.ErrMissingToken
	}

	assignment, err := a.pool.FetchAssignment(ctx, a.opts.Big)
	if err != nil {
		log.Error("failed to fetch assignment", zap.Error(err))
		metrics.Cycles.WithLabelValues("fetch_error").Inc()
		return err
	}

	log.Info("assignment received",
		zap.String("id", assignment.ID),
		zap.String("status", assignment.Status),
	)
	if !assignment.Range.Valid() {
		log.Error("assignment has no usable range", zap.String("id", assignment.ID))
		metrics.Cycles.WithLabelValues("no_range").Inc()
		return miner.ErrMissingRange
	}
	log.Info("assignment range",
		zap.String("start", assignment.Range.Start),
		zap.String("end", assignment.Range.End),
	)
	if n := len(assignment.CheckworkAddresses); n > 0 {
		sample := assignment.CheckworkAddresses
		if len(sample) > checkworkSample {
			sample = sample[:checkworkSample]
		}
		log.Info("checkwork addresses", zap.Int("total", n), zap.Strings("sample", sample))
	}

	keys := a.supplier.ObtainKeys(ctx, assignment)
	if err := ctx.Err(); err != nil {
		// Interrupted mid-mine: do not submit a partial cycle.
		log.Info("cycle interrupted before submission")
		metrics.Cycles.WithLabelValues("interrupted").Inc()
		return err
	}
	keys = normalize(keys, log)

	ack, err := a.pool.SubmitKeys(ctx, keys, a.opts.Big)
	if err != nil {
		log.Error("failed to submit keys", zap.Error(err))
		metrics.Cycles.WithLabelValues("submit_error").Inc()
		return err
	}

	metrics.Cycles.WithLabelValues("ok").Inc()
	metrics.KeysSubmitted.Add(float64(len(keys)))
	log.Info("pool acknowledged submission",
		zap.Int("keys", len(keys)),
		zap.ByteString("response", ack),
	)
	return nil
}

// normalize pads a short batch with random filler and truncates a long one,
// so exactly SubmitBatchSize keys go out.
func normalize(keys []string, log *zap.Logger) []string {
	if short := pool.SubmitBatchSize - len(keys); short > 0 {
		log.Warn("padding short batch with filler keys",
			zap.Int("have", len(keys)),
			zap.Int("filler", short),
		)
		for i := 0; i < short; i++ {
			keys = append(keys, keyutil.RandomFiller())
		}
		metrics.FillerKeys.Add(float64(short))
	}
	return keys[:pool.SubmitBatchSize]
}
