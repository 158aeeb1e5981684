package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for roster state transitions and their remote write outcomes.
var (
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nursery_roster_transitions_total",
		Help: "Roster state transitions by kind (check_in, check_out, sickness, vacation, toggle).",
	}, []string{"kind"})

	RemoteWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nursery_remote_write_failures_total",
		Help: "Per-child remote writes that failed during a transition.",
	}, []string{"kind"})

	RosterLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nursery_roster_loads_total",
		Help: "Roster loads and refreshes by outcome.",
	}, []string{"outcome"})
)
