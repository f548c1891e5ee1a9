package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricProofsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "casevault",
		Subsystem: "privacy",
		Name:      "proofs_generated_total",
		Help:      "Proofs generated, by circuit type.",
	}, []string{"circuit"})

	metricCompressions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "casevault",
		Subsystem: "privacy",
		Name:      "compressions_total",
		Help:      "Records run through the compression accountant.",
	})

	metricBytesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "casevault",
		Subsystem: "privacy",
		Name:      "compression_bytes_saved_total",
		Help:      "Total bytes saved by compression accounting.",
	})

	metricAccessRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "casevault",
		Subsystem: "access",
		Name:      "requests_total",
		Help:      "Disclosure access requests created.",
	})

	metricApprovals = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "casevault",
		Subsystem: "access",
		Name:      "approvals_total",
		Help:      "Committee approvals recorded.",
	})

	metricDecryptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "casevault",
		Subsystem: "access",
		Name:      "decryptions_total",
		Help:      "Decryption attempts, by outcome.",
	}, []string{"outcome"})
)
