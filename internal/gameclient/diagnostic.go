// internal/gameclient/diagnostic.go
//
// Structured diagnostics for absorbed client failures.
// The client never returns errors to its caller; instead each failure is
// reported once to the configured Observer and the operation yields nil.

package gameclient

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Kind classifies a diagnostic. There is a single kind at this boundary.
type Kind string

const (
	// KindUnreachable covers network failures, non-2xx statuses and malformed payloads alike.
	KindUnreachable Kind = "unreachable_or_invalid_response"
)

// Operation names reported in Diagnostic.Op.
const (
	OpFetchHint   = "fetch_hint"
	OpSubmitGuess = "submit_guess"
)

var (
	// ErrStatus wraps non-2xx responses.
	ErrStatus = errors.New("unexpected status")
	// ErrMalformed wraps bodies that do not decode into the expected shape.
	ErrMalformed = errors.New("malformed response")
)

// Diagnostic describes one absorbed failure.
type Diagnostic struct {
	Kind   Kind
	Op     string
	Err    error
	Status int // HTTP status if a response was received, else 0
}

// Observer receives diagnostics. Implementations must be safe for concurrent use.
type Observer interface {
	Observe(d Diagnostic)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(d Diagnostic)

func (f ObserverFunc) Observe(d Diagnostic) { f(d) }

// Observers fans a diagnostic out to every non-nil observer in order.
type Observers []Observer

func (obs Observers) Observe(d Diagnostic) {
	for _, o := range obs {
		if o != nil {
			o.Observe(d)
		}
	}
}

// LogObserver writes diagnostics as zerolog warnings.
// A nil Logger falls back to the global logger.
type LogObserver struct {
	Logger *zerolog.Logger
}

func (l LogObserver) Observe(d Diagnostic) {
	lg := l.Logger
	if lg == nil {
		lg = &log.Logger
	}
	ev := lg.Warn().Err(d.Err).Str("kind", string(d.Kind)).Str("op", d.Op)
	if d.Status != 0 {
		ev = ev.Int("status", d.Status)
	}
	ev.Msg("game service call failed")
}
