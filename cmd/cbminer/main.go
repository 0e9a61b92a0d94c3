package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rayansc80-source/cbminer/internal/agent"
	"github.com/rayansc80-source/cbminer/internal/config"
	"github.com/rayansc80-source/cbminer/internal/metrics"
	"github.com/rayansc80-source/cbminer/internal/miner"
	"github.com/rayansc80-source/cbminer/internal/pool"
)

var version = "dev"

type flags struct {
	big          bool
	loop         bool
	delaySec     int
	minerPath    string
	minerTimeout int
	metricsAddr  string
	verbose      bool
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "cbminer",
		Short: "Client for the BitcoinPuzzles mining pool",
		Long: `cbminer fetches key-range assignments from the BitcoinPuzzles pool,
searches them with an external miner (or a built-in placeholder generator
when none is configured), and submits batches of candidate keys back.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), &f)
		},
	}

	cmd.Flags().BoolVar(&f.big, "big", false, "request big_block assignments with larger ranges")
	cmd.Flags().BoolVar(&f.loop, "loop", false, "run continuously instead of a single cycle")
	cmd.Flags().IntVar(&f.delaySec, "delay", 5, "seconds to wait between cycles in loop mode")
	cmd.Flags().StringVar(&f.minerPath, "miner-path", "", "path to an external miner executable")
	cmd.Flags().IntVar(&f.minerTimeout, "miner-timeout", 600, "seconds an external miner run may take")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "listen address for Prometheus metrics, empty to disable")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f *flags) error {
	logger, err := newLogger(f.verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting cbminer",
		zap.String("version", version),
		zap.Bool("big", f.big),
		zap.Bool("loop", f.loop),
		zap.String("miner_path", f.minerPath),
	)

	cfg := config.Load(logger)

	if f.metricsAddr != "" {
		go serveMetrics(f.metricsAddr, logger)
	}

	svc := pool.NewClient(cfg.BaseURL, cfg.Token, logger)

	var runner *miner.Runner
	if f.minerPath != "" {
		timeout := time.Duration(f.minerTimeout) * time.Second
		runner = miner.NewRunner(f.minerPath, miner.DefaultMaxKeys, timeout, logger)
	}
	supplier := miner.NewSupplier(runner, logger)

	a := agent.New(cfg, svc, supplier, agent.Options{
		Big:   f.big,
		Loop:  f.loop,
		Delay: time.Duration(f.delaySec) * time.Second,
	}, logger)

	err = a.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("shutdown complete")
		return nil
	}
	return err
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	logger.Info("serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server failed", zap.Error(err))
	}
}
