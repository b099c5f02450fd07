// internal/gameclient/client.go
//
// HTTP client for the external game service.
// Responsibilities:
//   - GET  {base}/random-city → Hint
//   - POST {base}/guess       → GuessOutcome
//   - Collapse every transport failure (network error, non-2xx, malformed body)
//     into a nil result, reporting a Diagnostic to the Observer.
//
// Notes:
//   - No retries or de-duplication; the service is the only source of truth.
//   - The guess string is sent as-is. Normalisation is the service's concern.

package gameclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxBody bounds how much of a response body is decoded.
const maxBody = 1 << 20

// Options configures a Client. Zero values select defaults.
type Options struct {
	BaseURL    string       // defaults to DefaultBaseURL
	HTTPClient *http.Client // defaults to a client with a 10s timeout
	Observer   Observer     // defaults to LogObserver on the global logger
}

// Client talks to the game service.
type Client struct {
	base string
	http *http.Client
	obs  Observer
}

// New constructs a Client from opts.
func New(opts Options) *Client {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	obs := opts.Observer
	if obs == nil {
		obs = LogObserver{}
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: hc,
		obs:  obs,
	}
}

// BaseURL reports the endpoint the client was configured with.
func (c *Client) BaseURL() string { return c.base }

// FetchHint asks the service for a random city hint.
// Returns nil if the service could not be reached or answered badly.
func (c *Client) FetchHint(ctx context.Context) *Hint {
	var w hintWire
	status, err := c.do(ctx, http.MethodGet, "/random-city", nil, &w)
	if err == nil && w.Hint == nil {
		err = fmt.Errorf("%w: missing hint", ErrMalformed)
	}
	if err != nil {
		c.report(OpFetchHint, status, err)
		return nil
	}
	return &Hint{Text: *w.Hint, CityName: w.CityName}
}

// SubmitGuess sends guess to the service for checking.
// Returns nil if the service could not be reached or answered badly.
func (c *Client) SubmitGuess(ctx context.Context, guess string) *GuessOutcome {
	var w outcomeWire
	status, err := c.do(ctx, http.MethodPost, "/guess", guessReq{Guess: guess}, &w)
	if err == nil && w.Correct == nil {
		err = fmt.Errorf("%w: missing correct", ErrMalformed)
	}
	if err != nil {
		c.report(OpSubmitGuess, status, err)
		return nil
	}
	return &GuessOutcome{Correct: *w.Correct, Message: w.Message}
}

// do performs one JSON round trip. The returned status is 0 when no
// response was received.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxBody))
		return res.StatusCode, fmt.Errorf("%w: %d", ErrStatus, res.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, maxBody)).Decode(out); err != nil {
		return res.StatusCode, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return res.StatusCode, nil
}

func (c *Client) report(op string, status int, err error) {
	c.obs.Observe(Diagnostic{Kind: KindUnreachable, Op: op, Err: err, Status: status})
}
