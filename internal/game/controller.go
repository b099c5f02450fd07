// internal/game/controller.go
//
// Game session controller: the sole mutator of a Session.
// Responsibilities:
//   - Start a session (score reset) and fetch the first hint.
//   - Accept free-form guess edits and submit them to the game service.
//   - On a correct guess: bump the score, clear the input, fetch the next hint.
//   - Notify the Renderer after every mutation.
//
// State transitions:
//   idle --Start--> awaiting_hint --hint--> active
//   active --Submit(correct)--> awaiting_hint --hint--> active (score kept)
//   active --Submit(incorrect | blank | unreachable)--> active
//
// Concurrency:
//   - mu guards the Session and is never held across a network call, so a
//     second action is not blocked by an in-flight one.
//   - Overlapping submits both reach the service; whichever response
//     resolves last is the one left on screen.

package game

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	// ErrStarted is returned by Start when the session is already running.
	ErrStarted = errors.New("game already started")
	// ErrNoHint is returned by Submit when there is no hint to answer.
	ErrNoHint = errors.New("no hint to answer")
	// ErrNotRetryable is returned by Retry unless the session is started
	// without a hint and no hint fetch is in flight.
	ErrNotRetryable = errors.New("nothing to retry")
)

// GuessResult classifies the outcome of a Submit for observers.
type GuessResult string

const (
	GuessCorrect     GuessResult = "correct"
	GuessIncorrect   GuessResult = "incorrect"
	GuessEmpty       GuessResult = "empty"
	GuessUnreachable GuessResult = "unreachable"
)

// Option configures a Controller.
type Option func(*Controller)

// WithRenderer installs r to be called after every mutation.
// r is called with the controller lock held and must not call back into it.
func WithRenderer(r Renderer) Option {
	return func(c *Controller) { c.render = r }
}

// WithUnreachableMessage sets the message shown when the game service yields
// no result. The empty string keeps the message area unchanged on failure.
func WithUnreachableMessage(msg string) Option {
	return func(c *Controller) { c.unreachable = msg }
}

// WithGuessHook installs fn to be called once per Submit with its result.
func WithGuessHook(fn func(GuessResult)) Option {
	return func(c *Controller) { c.onGuess = fn }
}

// Controller drives one Session against a remote Client.
type Controller struct {
	client      Client
	render      Renderer
	unreachable string
	onGuess     func(GuessResult)

	mu       sync.Mutex
	s        Session
	fetching int // hint fetches in flight
}

// NewController returns an idle controller.
func NewController(client Client, opts ...Option) *Controller {
	c := &Controller{client: client}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}

// Phase reports the current state-machine position.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phaseLocked()
}

// View returns the rendered view of the session and phase, read atomically.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ViewOf(c.s, c.phaseLocked())
}

func (c *Controller) phaseLocked() Phase {
	switch {
	case !c.s.Started:
		return PhaseIdle
	case c.fetching > 0:
		return PhaseAwaitingHint
	default:
		return PhaseActive
	}
}

// Start begins a new game: the score is reset and the first hint fetched.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.s.Started {
		c.mu.Unlock()
		return ErrStarted
	}
	c.s.Score = 0
	c.s.Started = true
	c.fetching++
	c.emitLocked()
	c.mu.Unlock()

	c.fetchHint(ctx)
	return nil
}

// Retry fetches a hint for a started session that has none, for example
// after the service was unreachable. The score is kept.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	if !c.s.Started || c.s.Hint != "" || c.fetching > 0 {
		c.mu.Unlock()
		return ErrNotRetryable
	}
	c.fetching++
	c.emitLocked()
	c.mu.Unlock()

	c.fetchHint(ctx)
	return nil
}

// SetGuess replaces the input text. No validation happens while typing.
func (c *Controller) SetGuess(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Guess = text
	c.emitLocked()
}

// Submit checks the current guess with the service.
//
// Blank input (after trimming) never reaches the service and sets the
// prompt message. Otherwise the service's message is shown verbatim; a
// correct answer bumps the score, clears the input and fetches the next hint.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	guess := c.s.Guess
	if strings.TrimSpace(guess) == "" {
		c.s.Message = PromptEmptyGuess
		c.emitLocked()
		c.mu.Unlock()
		c.observe(GuessEmpty)
		return nil
	}
	if !c.s.Started || c.s.Hint == "" {
		c.mu.Unlock()
		return ErrNoHint
	}
	c.mu.Unlock()

	out := c.client.SubmitGuess(ctx, guess)

	c.mu.Lock()
	if out == nil {
		if c.unreachable != "" {
			c.s.Message = c.unreachable
			c.emitLocked()
		}
		c.mu.Unlock()
		c.observe(GuessUnreachable)
		return nil
	}
	c.s.Message = out.Message
	if out.Correct {
		c.s.Score++
		c.s.Guess = ""
		c.fetching++
	}
	c.emitLocked()
	c.mu.Unlock()

	if !out.Correct {
		c.observe(GuessIncorrect)
		return nil
	}
	c.observe(GuessCorrect)
	c.fetchHint(ctx)
	return nil
}

// fetchHint performs the awaiting_hint step. The caller has already
// incremented c.fetching.
func (c *Controller) fetchHint(ctx context.Context) {
	h := c.client.FetchHint(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetching--
	switch {
	case h != nil:
		c.s.Hint = h.Text
		c.s.Message = ""
	case c.unreachable != "":
		c.s.Message = c.unreachable
	}
	c.emitLocked()
}

func (c *Controller) emitLocked() {
	if c.render != nil {
		c.render.Render(c.s)
	}
}

func (c *Controller) observe(r GuessResult) {
	if c.onGuess != nil {
		c.onGuess(r)
	}
}
