package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Cycles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cbminer",
		Name:      "cycles_total",
		Help:      "Completed assignment cycles by result.",
	}, []string{"result"})

	KeysSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cbminer",
		Name:      "keys_submitted_total",
		Help:      "Total private keys submitted to the pool.",
	})

	MinerRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cbminer",
		Name:      "miner_runs_total",
		Help:      "External miner invocations by outcome.",
	}, []string{"outcome"})

	PlaceholderBatches = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cbminer",
		Name:      "placeholder_batches_total",
		Help:      "Cycles served by the placeholder generator.",
	})

	FillerKeys = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cbminer",
		Name:      "filler_keys_total",
		Help:      "Random filler keys added to pad short batches.",
	})

	MinerKeysCollected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cbminer",
		Name:      "miner_keys_collected_total",
		Help:      "Candidate keys read from external miner output.",
	})
)

func init() {
	prometheus.MustRegister(
		Cycles,
		KeysSubmitted,
		MinerRuns,
		PlaceholderBatches,
		FillerKeys,
		MinerKeysCollected,
	)
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
