package link

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// decisionsTotal counts link decisions by producing step and outcome
	decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "corefer_link_decisions_total",
		Help: "Total link decisions by cascade step and outcome",
	}, []string{"step", "outcome"})

	// linkErrors counts internal-consistency failures raised while linking
	linkErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corefer_link_errors_total",
		Help: "Total internal-consistency failures raised while linking",
	})
)

func record(d Decision) {
	decisionsTotal.WithLabelValues(d.Step, d.Outcome()).Inc()
}
