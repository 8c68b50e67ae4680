package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the game service.
type Metrics struct {
	ActiveRooms     prometheus.Gauge
	ActiveViewers   prometheus.Gauge
	ActionsTotal    *prometheus.CounterVec
	GamesStarted    prometheus.Counter
	GamesFinished   *prometheus.CounterVec
	GuessesTotal    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wordspy_active_rooms",
			Help: "Number of rooms currently held in the session registry",
		}),
		ActiveViewers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wordspy_active_viewers",
			Help: "Number of connected websocket viewers",
		}),
		ActionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wordspy_actions_total",
			Help: "Total number of game actions processed",
		}, []string{"action", "result"}),
		GamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wordspy_games_started_total",
			Help: "Total number of games started",
		}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wordspy_games_finished_total",
			Help: "Total number of games finished",
		}, []string{"reason"}),
		GuessesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wordspy_guesses_total",
			Help: "Total number of card guesses by outcome",
		}, []string{"outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wordspy_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),
	}

	reg.MustRegister(
		m.ActiveRooms,
		m.ActiveViewers,
		m.ActionsTotal,
		m.GamesStarted,
		m.GamesFinished,
		m.GuessesTotal,
		m.RequestDuration,
	)

	return m
}

// NewDefault registers against the default Prometheus registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
