package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mastermind_sessions_created_total",
		Help: "Sessions created, by difficulty tier.",
	}, []string{"difficulty"})

	guessesSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mastermind_guesses_submitted_total",
		Help: "Guesses accepted by the session state machine.",
	}, []string{"difficulty"})

	gamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mastermind_games_finished_total",
		Help: "Games reaching a terminal state.",
	}, []string{"difficulty", "outcome"})

	hintRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mastermind_hint_requests_total",
		Help: "Hint and analysis computations accepted.",
	})

	hintDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mastermind_hint_duration_seconds",
		Help:    "Wall time of minimax hint computation.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})
)
