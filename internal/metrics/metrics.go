// Package metrics exposes Prometheus counters for requests and game activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can create as many as they like
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	sessionsCreatedTotal       prometheus.Counter
	gamesStartedTotal          prometheus.Counter
	guessesTotal               prometheus.Counter
	gameOutcomesTotal          *prometheus.CounterVec
	resultsRecordedTotal       prometheus.Counter
}

// New registers every collector, including the Go runtime and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"route", "method"},
		),
		sessionsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guessgame_sessions_created_total",
			Help: "Sessions issued to players without a valid token",
		}),
		gamesStartedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guessgame_games_started_total",
			Help: "Rounds started",
		}),
		guessesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guessgame_guesses_total",
			Help: "Numeric guesses counted against a round",
		}),
		gameOutcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guessgame_guess_outcomes_total",
				Help: "Evaluated guesses by outcome",
			},
			[]string{"outcome"},
		),
		resultsRecordedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guessgame_results_recorded_total",
			Help: "Won rounds written to the leaderboard",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDurationSeconds,
		m.sessionsCreatedTotal,
		m.gamesStartedTotal,
		m.guessesTotal,
		m.gameOutcomesTotal,
		m.resultsRecordedTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one finished HTTP request. route is the mux pattern,
// not the raw path, so label cardinality stays bounded.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDurationSeconds.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) SessionCreated() {
	if m != nil {
		m.sessionsCreatedTotal.Inc()
	}
}

func (m *Metrics) GameStarted() {
	if m != nil {
		m.gamesStartedTotal.Inc()
	}
}

func (m *Metrics) GuessCounted() {
	if m != nil {
		m.guessesTotal.Inc()
	}
}

// GuessEvaluated counts an outcome by its String form (won, continue, exhausted)
func (m *Metrics) GuessEvaluated(outcome string) {
	if m != nil {
		m.gameOutcomesTotal.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ResultRecorded() {
	if m != nil {
		m.resultsRecordedTotal.Inc()
	}
}
