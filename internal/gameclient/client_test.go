package gameclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects diagnostics for assertions.
type recorder struct {
	mu   sync.Mutex
	seen []Diagnostic
}

func (r *recorder) Observe(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, d)
}

func (r *recorder) all() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Diagnostic(nil), r.seen...)
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *recorder) {
	t.Helper()
	s := httptest.NewServer(h)
	t.Cleanup(s.Close)
	rec := &recorder{}
	c := New(Options{
		BaseURL:    s.URL + "/game/",
		HTTPClient: &http.Client{Timeout: 500 * time.Millisecond},
		Observer:   rec,
	})
	return c, rec
}

func TestNewDefaults(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.NotNil(t, c.http)
	assert.IsType(t, LogObserver{}, c.obs)
}

func TestFetchHint(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/game/random-city", r.URL.Path)
		_, _ = w.Write([]byte(`{"hint":"Famous for the Eiffel Tower","cityName":"Paris"}`))
	})

	h := c.FetchHint(context.Background())
	require.NotNil(t, h)
	assert.Equal(t, "Famous for the Eiffel Tower", h.Text)
	assert.Equal(t, "Paris", h.CityName)
	assert.Empty(t, rec.all())
}

func TestFetchHintWithoutCityName(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hint":"Home of the Colosseum"}`))
	})

	h := c.FetchHint(context.Background())
	require.NotNil(t, h)
	assert.Equal(t, "Home of the Colosseum", h.Text)
	assert.Empty(t, h.CityName)
}

func TestFetchHintFailures(t *testing.T) {
	cases := []struct {
		name   string
		h      http.HandlerFunc
		status int
		is     error
	}{
		{
			name: "5xx",
			h: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "fail", http.StatusBadGateway)
			},
			status: http.StatusBadGateway,
			is:     ErrStatus,
		},
		{
			name: "404",
			h: func(w http.ResponseWriter, _ *http.Request) {
				http.NotFound(w, nil)
			},
			status: http.StatusNotFound,
			is:     ErrStatus,
		},
		{
			name: "invalid json",
			h: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("{not-json"))
			},
			status: http.StatusOK,
			is:     ErrMalformed,
		},
		{
			name: "missing hint",
			h: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"cityName":"Paris"}`))
			},
			status: http.StatusOK,
			is:     ErrMalformed,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestClient(t, tc.h)
			assert.Nil(t, c.FetchHint(context.Background()))

			seen := rec.all()
			require.Len(t, seen, 1)
			assert.Equal(t, KindUnreachable, seen[0].Kind)
			assert.Equal(t, OpFetchHint, seen[0].Op)
			assert.Equal(t, tc.status, seen[0].Status)
			assert.True(t, errors.Is(seen[0].Err, tc.is), "got %v", seen[0].Err)
		})
	}
}

func TestFetchHintUnreachable(t *testing.T) {
	s := httptest.NewServer(http.NotFoundHandler())
	base := s.URL
	s.Close()

	rec := &recorder{}
	c := New(Options{BaseURL: base, Observer: rec})
	assert.Nil(t, c.FetchHint(context.Background()))

	seen := rec.all()
	require.Len(t, seen, 1)
	assert.Equal(t, 0, seen[0].Status)
	assert.Error(t, seen[0].Err)
}

func TestFetchHintTimeout(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	assert.Nil(t, c.FetchHint(context.Background()))
	assert.Len(t, rec.all(), 1)
}

func TestSubmitGuess(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/game/guess", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// The raw text is forwarded untouched.
		assert.Equal(t, map[string]string{"guess": "  paris "}, body)
		_, _ = w.Write([]byte(`{"correct":true,"message":"Correct!"}`))
	})

	out := c.SubmitGuess(context.Background(), "  paris ")
	require.NotNil(t, out)
	assert.True(t, out.Correct)
	assert.Equal(t, "Correct!", out.Message)
	assert.Empty(t, rec.all())
}

func TestSubmitGuessIncorrect(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"correct":false,"message":"Wrong guess! Try again."}`))
	})

	out := c.SubmitGuess(context.Background(), "London")
	require.NotNil(t, out)
	assert.False(t, out.Correct)
	assert.Equal(t, "Wrong guess! Try again.", out.Message)
}

func TestSubmitGuessFailures(t *testing.T) {
	cases := []struct {
		name string
		h    http.HandlerFunc
		is   error
	}{
		{
			name: "500",
			h: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			is: ErrStatus,
		},
		{
			name: "missing correct",
			h: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"message":"??"}`))
			},
			is: ErrMalformed,
		},
		{
			name: "wrong type",
			h: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"correct":"yes","message":"??"}`))
			},
			is: ErrMalformed,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestClient(t, tc.h)
			assert.Nil(t, c.SubmitGuess(context.Background(), "Paris"))

			seen := rec.all()
			require.Len(t, seen, 1)
			assert.Equal(t, OpSubmitGuess, seen[0].Op)
			assert.ErrorIs(t, seen[0].Err, tc.is)
		})
	}
}

func TestObserversFanOut(t *testing.T) {
	var a, b int
	obs := Observers{
		ObserverFunc(func(Diagnostic) { a++ }),
		nil,
		ObserverFunc(func(Diagnostic) { b++ }),
	}
	obs.Observe(Diagnostic{Kind: KindUnreachable, Op: OpFetchHint})
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}
