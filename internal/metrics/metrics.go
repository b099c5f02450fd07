// internal/metrics/metrics.go
//
// Prometheus instrumentation for the game surface.
//   - client diagnostics (absorbed game service failures)
//   - guess results
//   - live browser sessions

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/robalobadob/guesscity/internal/game"
	"github.com/robalobadob/guesscity/internal/gameclient"
)

var (
	// ClientDiagnostics counts game service calls that yielded no result.
	ClientDiagnostics = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guesscity",
		Name:      "client_diagnostics_total",
		Help:      "Game service calls absorbed as no-result, by operation and kind",
	}, []string{"op", "kind"})

	// Guesses counts submitted guesses by result.
	Guesses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guesscity",
		Name:      "guesses_total",
		Help:      "Submitted guesses by result (correct|incorrect|empty|unreachable)",
	}, []string{"result"})

	// SessionsActive tracks browser sessions held in memory.
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "guesscity",
		Name:      "sessions_active",
		Help:      "Browser sessions currently held in memory",
	})
)

// DiagnosticObserver feeds ClientDiagnostics.
type DiagnosticObserver struct{}

func (DiagnosticObserver) Observe(d gameclient.Diagnostic) {
	ClientDiagnostics.WithLabelValues(d.Op, string(d.Kind)).Inc()
}

// ObserveGuess records a guess result.
func ObserveGuess(r game.GuessResult) {
	Guesses.WithLabelValues(string(r)).Inc()
}

// SetSessions records the current session count.
func SetSessions(n int) {
	SessionsActive.Set(float64(n))
}
