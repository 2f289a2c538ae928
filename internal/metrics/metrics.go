package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LinesRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presenced_lines_total",
		Help: "Total number of complete lines decoded from the device.",
	})

	EventOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "presenced_events_total",
		Help: "Total number of processed events, labelled by outcome.",
	}, []string{"outcome"})

	Reconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presenced_reconnects_total",
		Help: "Total number of successful device (re)connections.",
	})

	TransportErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presenced_transport_errors_total",
		Help: "Total number of device open/read failures.",
	})

	StoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presenced_store_errors_total",
		Help: "Total number of roster store operations that failed.",
	})

	RosterSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "presenced_roster_size",
		Help: "Number of identities currently present.",
	})
)

// Outcome labels for EventOutcomes. One is recorded per event so that
// no device line passes through unaccounted.
const (
	OutcomeLogin        = "login"
	OutcomeDuplicate    = "duplicate"
	OutcomeLogout       = "logout"
	OutcomeNotFound     = "not_found"
	OutcomeReset        = "reset"
	OutcomeUnrecognized = "unrecognized"
)
