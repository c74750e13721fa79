package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_ReservaCompletaLibera(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryIdempotencyStore(time.Minute)

	id, ok, err := s.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, id)

	id, ok, err = s.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok, "llave en curso")
	assert.Empty(t, id)

	require.NoError(t, s.Complete(ctx, "k1", "orden-1"))
	id, ok, _ = s.Reserve(ctx, "k1")
	assert.False(t, ok)
	assert.Equal(t, "orden-1", id)

	_, ok, _ = s.Reserve(ctx, "k2")
	require.True(t, ok)
	require.NoError(t, s.Release(ctx, "k2"))
	_, ok, _ = s.Reserve(ctx, "k2")
	assert.True(t, ok, "una llave liberada se puede volver a tomar")
}

func TestInMemoryIdempotencyStore_Expira(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewInMemoryIdempotencyStore(time.Minute)
	s.now = func() time.Time { return now }

	_, ok, _ := s.Reserve(ctx, "k")
	require.True(t, ok)
	require.NoError(t, s.Complete(ctx, "k", "o"))

	now = now.Add(2 * time.Minute)
	_, ok, _ = s.Reserve(ctx, "k")
	assert.True(t, ok)
}
