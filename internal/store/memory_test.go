package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/guesscity/internal/game"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestSaveGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	c := game.NewController(nil)

	require.NoError(t, m.Save(ctx, "abc", c))
	got, err := m.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Same(t, c, got)
	assert.Equal(t, 1, m.Len())

	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, m.Save(ctx, "", c))
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newMemory(clk.now)

	require.NoError(t, m.Save(ctx, "old", game.NewController(nil)))
	require.NoError(t, m.Save(ctx, "fresh", game.NewController(nil)))

	clk.t = clk.t.Add(90 * time.Minute)
	_, err := m.Get(ctx, "fresh")
	require.NoError(t, err)

	clk.t = clk.t.Add(45 * time.Minute)
	assert.Equal(t, 1, m.Sweep(time.Hour))
	assert.Equal(t, 1, m.Len())

	_, err = m.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(ctx, "fresh")
	assert.NoError(t, err)
}
