// Package metrics exposes prometheus collectors for the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokerlog_transitions_total",
		Help: "Conversation state transitions.",
	}, []string{"from", "to"})

	GamesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokerlog_games_recorded_total",
		Help: "Games committed by the add flow.",
	})

	GamesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokerlog_games_deleted_total",
		Help: "Games removed by the delete flow.",
	})

	HandlerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokerlog_handler_errors_total",
		Help: "Errors returned by state handlers, by kind.",
	}, []string{"kind"})

	Inflight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pokerlog_dispatch_inflight",
		Help: "Messages currently being processed.",
	})
)
