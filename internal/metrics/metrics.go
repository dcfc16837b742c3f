package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the quiz engine collectors.
type Metrics struct {
	GamesStarted    prometheus.Counter
	GamesCancelled  prometheus.Counter
	GamesFinished   prometheus.Counter
	ActiveGames     prometheus.Gauge
	Rounds          *prometheus.CounterVec
	AnswersRejected *prometheus.CounterVec
}

// New registers the collectors on reg. Tests pass a fresh prometheus.NewRegistry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		GamesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "quiz_games_started_total",
			Help: "Lobbies opened.",
		}),
		GamesCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "quiz_games_cancelled_total",
			Help: "Lobbies closed with no players.",
		}),
		GamesFinished: factory.NewCounter(prometheus.CounterOpts{
			Name: "quiz_games_finished_total",
			Help: "Games that played through their question order.",
		}),
		ActiveGames: factory.NewGauge(prometheus.GaugeOpts{
			Name: "quiz_active_games",
			Help: "Games currently held by the registry.",
		}),
		Rounds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_rounds_total",
			Help: "Resolved rounds by outcome.",
		}, []string{"outcome"}),
		AnswersRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_answers_rejected_total",
			Help: "Answers refused by the game, by error code.",
		}, []string{"reason"}),
	}
}

// Handler serves the collectors registered on gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
