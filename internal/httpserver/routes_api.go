// internal/httpserver/routes_api.go
//
// JSON routes for script-driven clients. Each mirrors a page action and
// answers with the resulting view:
//   - GET  /api/session → current view
//   - POST /api/start   → start the game (409 if already started)
//   - POST /api/input   → replace the guess text, {"guess": "..."}
//   - POST /api/guess   → submit, {"guess": "..."} optional (409 without a hint)
//   - POST /api/retry   → refetch a hint after a failed fetch (409 otherwise)

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/guesscity/internal/game"
)

// sessionRes is the body of every /api response.
type sessionRes struct {
	Phase game.Phase `json:"phase"`
	View  game.View  `json:"view"`
}

// guessReq carries guess text for /api/input and /api/guess.
// A nil Guess on /api/guess submits the text already held by the session.
type guessReq struct {
	Guess *string `json:"guess"`
}

// mountAPI registers all /api routes.
func (s *Server) mountAPI() {
	s.r.Route("/api", func(r chi.Router) {
		r.Get("/session", func(w http.ResponseWriter, r *http.Request) {
			c, _, ok := s.ensureSession(w, r)
			if !ok {
				return
			}
			writeSession(w, http.StatusOK, c)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.actions)
			r.Post("/start", s.apiAction(func(ctx context.Context, c *game.Controller, _ *http.Request) error {
				return c.Start(ctx)
			}))
			r.Post("/input", s.apiAction(func(_ context.Context, c *game.Controller, r *http.Request) error {
				req, err := decodeGuess(r)
				if err != nil {
					return err
				}
				if req.Guess != nil {
					c.SetGuess(*req.Guess)
				}
				return nil
			}))
			r.Post("/guess", s.apiAction(func(ctx context.Context, c *game.Controller, r *http.Request) error {
				req, err := decodeGuess(r)
				if err != nil {
					return err
				}
				if req.Guess != nil {
					c.SetGuess(*req.Guess)
				}
				return c.Submit(ctx)
			}))
			r.Post("/retry", s.apiAction(func(ctx context.Context, c *game.Controller, _ *http.Request) error {
				return c.Retry(ctx)
			}))
		})
	})
}

// errBadJSON marks an undecodable request body.
var errBadJSON = errors.New("bad_json")

// apiAction runs fn and answers with the session view, or an error body.
func (s *Server) apiAction(fn action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, _, ok := s.ensureSession(w, r)
		if !ok {
			return
		}
		if err := fn(context.WithoutCancel(r.Context()), c, r); err != nil {
			status := transitionStatus(err)
			if errors.Is(err, errBadJSON) {
				status = http.StatusBadRequest
			}
			writeJSON(w, status, map[string]any{
				"error": err.Error(),
				"phase": c.Phase(),
				"view":  c.View(),
			})
			return
		}
		writeSession(w, http.StatusOK, c)
	}
}

// decodeGuess reads an optional guessReq; an empty body is allowed.
func decodeGuess(r *http.Request) (guessReq, error) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, errBadJSON
	}
	return req, nil
}

func writeSession(w http.ResponseWriter, status int, c *game.Controller) {
	writeJSON(w, status, sessionRes{Phase: c.Phase(), View: c.View()})
}
