// internal/game/types.go
//
// Core type definitions for a Guess-the-City session.
// Defines:
//   - Session: the in-memory state of one continuous play sequence.
//   - Phase:   coarse state-machine position derived from a Session.
//   - Client:  the remote calls the controller depends on.
//   - Renderer: receives a snapshot after every mutation.

package game

import (
	"context"

	"github.com/robalobadob/guesscity/internal/gameclient"
)

// PromptEmptyGuess is shown when the player submits blank input.
const PromptEmptyGuess = "Please enter a guess!"

// Session holds the state of one browser session.
// Hint is only meaningful once Started; an empty Hint means none is shown.
type Session struct {
	Started bool   // True after the first Start.
	Score   int    // Correct guesses since the last Start. Never decreases while started.
	Hint    string // Current hint text, empty if absent.
	Guess   string // Text currently in the input box.
	Message string // Feedback area contents.
}

// Phase represents where a session sits in the state machine.
//   - "idle":          not started; only the start affordance is offered.
//   - "awaiting_hint": a hint fetch is in flight.
//   - "active":        a hint is displayed and guesses are accepted.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseAwaitingHint Phase = "awaiting_hint"
	PhaseActive       Phase = "active"
)

// Client is the subset of the remote game client used by the controller.
// *gameclient.Client satisfies it.
type Client interface {
	FetchHint(ctx context.Context) *gameclient.Hint
	SubmitGuess(ctx context.Context, guess string) *gameclient.GuessOutcome
}

// Renderer is notified with a copy of the session after every mutation.
type Renderer interface {
	Render(s Session)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(s Session)

func (f RenderFunc) Render(s Session) { f(s) }
