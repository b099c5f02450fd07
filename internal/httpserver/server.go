// internal/httpserver/server.go
//
// HTTP server wiring for the Guess-the-City browser surface.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts, access log).
//   - Page routes: GET / renders the session; POST /start, /guess, /retry act and redirect.
//   - JSON routes under /api mirroring the page actions.
//   - Diagnostics: /health, /metrics.
//   - Session cookie: one game.Controller per browser session.
//
// Notes:
//   - Actions are rate limited per stored session (falling back to client IP),
//     and new sessions are rate limited per client IP.
//   - Controller calls run on a context detached from the request so that a
//     browser navigating away does not abort a half-finished transition.

package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guesscity/assets"
	"github.com/robalobadob/guesscity/internal/game"
	"github.com/robalobadob/guesscity/internal/metrics"
	"github.com/robalobadob/guesscity/internal/store"
)

// SessionCookie names the browser session cookie.
const SessionCookie = "guesscity_session"

// Options configures a Server.
type Options struct {
	Client             game.Client   // remote game client shared by all sessions
	ControllerOptions  []game.Option // applied to every new controller
	RateLimitPerMinute int           // per-session action limit; 0 disables
	SessionsPerMinute  int           // new sessions per client IP; 0 disables
	CookieSecure       bool          // mark the session cookie Secure
}

// Server bundles router, session store and page template.
type Server struct {
	r        *chi.Mux
	store    store.Store
	opts     Options
	tmpl     *template.Template
	actions  func(http.Handler) http.Handler // shared by page and API actions
	sessions *httprate.RateLimiter           // nil when session creation is unlimited
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, opts Options) *Server {
	s := &Server{r: chi.NewRouter(), store: st, opts: opts, tmpl: assets.Templates()}
	s.actions = s.rateLimit()
	if opts.SessionsPerMinute > 0 {
		s.sessions = httprate.NewRateLimiter(opts.SessionsPerMinute, time.Minute)
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // zerolog access line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(30 * time.Second)) // bound handler time

	// --- diagnostics ---
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Handle("/metrics", promhttp.Handler())
	s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(assets.Static())))

	// --- page ---
	s.r.Get("/", s.handlePage)
	s.r.Group(func(r chi.Router) {
		r.Use(s.actions)
		r.Post("/start", s.pageAction(func(ctx context.Context, c *game.Controller, _ *http.Request) error {
			return c.Start(ctx)
		}))
		r.Post("/guess", s.pageAction(func(ctx context.Context, c *game.Controller, r *http.Request) error {
			c.SetGuess(r.PostFormValue("guess"))
			return c.Submit(ctx)
		}))
		r.Post("/retry", s.pageAction(func(ctx context.Context, c *game.Controller, _ *http.Request) error {
			return c.Retry(ctx)
		}))
	})

	// --- JSON API ---
	s.mountAPI()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ------------------------------ page ---------------------------------------

// handlePage renders the caller's session as HTML.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	c, _, ok := s.ensureSession(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", c.View()); err != nil {
		log.Error().Err(err).Msg("render page")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// action runs one controller transition.
type action func(ctx context.Context, c *game.Controller, r *http.Request) error

// pageAction runs fn and redirects back to the page (POST/redirect/GET).
// Transition errors only mean the button was stale; the page shows the truth.
func (s *Server) pageAction(fn action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, id, ok := s.ensureSession(w, r)
		if !ok {
			return
		}
		if err := fn(context.WithoutCancel(r.Context()), c, r); err != nil {
			log.Debug().Err(err).Str("session", id).Str("path", r.URL.Path).Msg("ignored action")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// ----------------------------- sessions ------------------------------------

// ensureSession returns the caller's controller, creating a session (and
// cookie) if the cookie is missing or no longer known. Creation is limited
// per client IP; when the limit is hit a 429 is written and ok is false.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) (c *game.Controller, id string, ok bool) {
	if known, knownID, found := s.knownSession(r); found {
		return known, knownID, true
	}

	if s.sessions != nil {
		ip, _ := httprate.KeyByIP(r)
		if s.sessions.OnLimit(w, r, ip) {
			log.Warn().Str("ip", ip).Msg("session creation rate limited")
			tooManyRequests(w, r)
			return nil, "", false
		}
	}

	id = uuid.NewString()
	c = s.newController(id)
	if err := s.store.Save(r.Context(), id, c); err != nil {
		log.Error().Err(err).Str("session", id).Msg("save session")
	}
	metrics.SetSessions(s.store.Len())
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	log.Debug().Str("session", id).Msg("new session")
	return c, id, true
}

// knownSession resolves the session cookie against the store.
func (s *Server) knownSession(r *http.Request) (*game.Controller, string, bool) {
	ck, err := r.Cookie(SessionCookie)
	if err != nil || ck.Value == "" {
		return nil, "", false
	}
	c, err := s.store.Get(r.Context(), ck.Value)
	if err != nil {
		return nil, "", false
	}
	return c, ck.Value, true
}

// newController builds a controller for session id with logging renderer and metrics hook.
func (s *Server) newController(id string) *game.Controller {
	opts := []game.Option{
		game.WithRenderer(game.RenderFunc(func(ss game.Session) {
			log.Trace().Str("session", id).
				Bool("started", ss.Started).
				Int("score", ss.Score).
				Bool("hint", ss.Hint != "").
				Str("message", ss.Message).
				Msg("session changed")
		})),
		game.WithGuessHook(metrics.ObserveGuess),
	}
	opts = append(opts, s.opts.ControllerOptions...)
	return game.NewController(s.opts.Client, opts...)
}

// Sweep evicts idle sessions and refreshes the session gauge.
func (s *Server) Sweep(idle time.Duration) int {
	n := s.store.Sweep(idle)
	metrics.SetSessions(s.store.Len())
	return n
}

// ---------------------------- middleware -----------------------------------

// rateLimit bounds actions per live session, or per IP when the cookie is
// missing or names no stored session, so made-up cookies share one bucket.
func (s *Server) rateLimit() func(http.Handler) http.Handler {
	if s.opts.RateLimitPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		s.opts.RateLimitPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if _, id, ok := s.knownSession(r); ok {
				return "session:" + id, nil
			}
			ip, err := httprate.KeyByIP(r)
			return "ip:" + ip, err
		}),
		httprate.WithLimitHandler(tooManyRequests),
	)
}

// tooManyRequests is the 429 body for every limiter.
func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate_limit_exceeded"})
}

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("dur", time.Since(start)).
			Str("req_id", chimw.GetReqID(r.Context())).
			Msg("http")
	})
}

// ------------------------------- util --------------------------------------

// writeJSON encodes v with status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// transitionStatus maps controller errors to HTTP statuses.
func transitionStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrStarted),
		errors.Is(err, game.ErrNoHint),
		errors.Is(err, game.ErrNotRetryable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
