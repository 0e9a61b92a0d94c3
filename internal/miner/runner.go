// Package miner obtains candidate private keys for an assignment, either by
// driving an external search executable or by generating placeholder keys.
package miner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rayansc80-source/cbminer/internal/metrics"
	"github.com/rayansc80-source/cbminer/internal/pool"
)

const (
	// DefaultMaxKeys is how many candidate keys a run collects before the
	// miner is told to stop.
	DefaultMaxKeys = pool.SubmitBatchSize

	// DefaultTimeout bounds a single miner run.
	DefaultTimeout = 600 * time.Second

	// defaultGrace is how long a signaled miner gets to exit on its own
	// before it is killed outright.
	defaultGrace = 5 * time.Second

	// maxLineSize is the maximum length of a single output line.
	// Prevents memory exhaustion from a miner emitting an endless line
	// without a newline terminator.
	maxLineSize = 16 * 1024

	// maxStderr caps how much miner stderr is retained for logging.
	maxStderr = 8 * 1024
)

// ErrMissingRange means the assignment lacks one or both range bounds.
// Nothing is spawned without a complete interval.
var ErrMissingRange = errors.New("miner: assignment range is missing start or end")

// Runner drives an external key-search executable: it spawns the binary with
// the range bounds, collects stdout lines as candidate keys, stops at the
// key cap or the deadline, and reaps the child on every path.
type Runner struct {
	path    string
	maxKeys int
	timeout time.Duration
	grace   time.Duration
	logger  *zap.Logger
}

// NewRunner creates a runner for the executable at path. Non-positive
// maxKeys or timeout fall back to the defaults.
func NewRunner(path string, maxKeys int, timeout time.Duration, logger *zap.Logger) *Runner {
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{
		path:    path,
		maxKeys: maxKeys,
		timeout: timeout,
		grace:   defaultGrace,
		logger:  logger,
	}
}

// Run executes the miner over the given range and returns the candidate keys
// it printed, at most maxKeys. An empty result is valid. Failures after the
// process has started are logged rather than returned; the error path is
// reserved for refusing to start.
func (r *Runner) Run(ctx context.Context, rng *pool.Range) ([]string, error) {
	if !rng.Valid() {
		return nil, ErrMissingRange
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.path, "--start", rng.Start, "--end", rng.End)
	// SIGTERM first so the miner can flush and exit; WaitDelay escalates to
	// SIGKILL and force-closes the pipes for miners that ignore it.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = r.grace

	stderr := &truncWriter{max: maxStderr}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("miner stdout pipe: %w", err)
	}

	r.logger.Info("starting external miner",
		zap.String("path", r.path),
		zap.String("start", rng.Start),
		zap.String("end", rng.End),
	)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start miner: %w", err)
	}

	keys := r.collect(runCtx, stdout, cancel)

	// Reap unconditionally. cancel has fired (cap reached or deadline) or
	// fires on return; WaitDelay bounds how long a stuck child can hold us.
	if err := cmd.Wait(); err != nil && runCtx.Err() == nil {
		// Exit status is not part of the miner contract.
		r.logger.Debug("miner exited with error", zap.Error(err))
	}
	if out := stderr.String(); out != "" {
		r.logger.Debug("miner stderr", zap.String("output", out))
	}

	r.logger.Info("external miner finished",
		zap.Int("keys", len(keys)),
		zap.Bool("timed_out", errors.Is(runCtx.Err(), context.DeadlineExceeded)),
	)

	if len(keys) > r.maxKeys {
		keys = keys[:r.maxKeys]
	}
	return keys, nil
}

// collect reads stdout line by line until the key cap, the deadline, or end
// of stream. Each non-empty trimmed line counts as one candidate key.
func (r *Runner) collect(ctx context.Context, stdout io.Reader, stop context.CancelFunc) []string {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 4096), maxLineSize)

	var keys []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		keys = append(keys, line)
		metrics.MinerKeysCollected.Inc()
		r.logger.Debug("miner output key", zap.String("key", line))

		if len(keys) >= r.maxKeys {
			r.logger.Info("key cap reached, stopping miner", zap.Int("max_keys", r.maxKeys))
			stop()
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		// The child may still be running with nobody reading its pipe;
		// stop the run so Wait is not held until the deadline.
		r.logger.Warn("reading miner output failed", zap.Error(err))
		stop()
	}
	return keys
}

// truncWriter keeps the first max bytes written and drops the rest.
type truncWriter struct {
	max int
	buf []byte
}

func (w *truncWriter) Write(p []byte) (int, error) {
	if room := w.max - len(w.buf); room > 0 {
		if room > len(p) {
			room = len(p)
		}
		w.buf = append(w.buf, p[:room]...)
	}
	return len(p), nil
}

func (w *truncWriter) String() string {
	return strings.TrimSpace(string(w.buf))
}
