package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMissingIsNil(t *testing.T) {
	store := NewMemoryStore(10)

	s, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestMemoryStore_PutGet(t *testing.T) {
	store := NewMemoryStore(10)
	ctx := context.Background()

	s := New("conv-1")
	s.Pending = &PendingQuote{TokenInSymbol: "USDC", TokenOutSymbol: "SUI", CreatedAt: time.Now()}
	require.NoError(t, store.Put(ctx, s))

	got, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "USDC", got.Pending.TokenInSymbol)
}

func TestMemoryStore_OverwriteKeepsOneEntry(t *testing.T) {
	store := NewMemoryStore(10)
	ctx := context.Background()

	s := New("conv-1")
	require.NoError(t, store.Put(ctx, s))
	s.Pending = &PendingQuote{TokenInSymbol: "NEAR"}
	require.NoError(t, store.Put(ctx, s))

	assert.Equal(t, 1, store.Len())
	got, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "NEAR", got.Pending.TokenInSymbol)
}

func TestMemoryStore_EvictsOldestAtCapacity(t *testing.T) {
	store := NewMemoryStore(3)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		require.NoError(t, store.Put(ctx, New(fmt.Sprintf("conv-%d", i))))
	}

	assert.Equal(t, 3, store.Len())

	evicted, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Nil(t, evicted, "oldest session should be evicted")

	kept, err := store.Get(ctx, "conv-4")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(10)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, New("conv-1")))
	require.NoError(t, store.Delete(ctx, "conv-1"))
	require.NoError(t, store.Delete(ctx, "conv-1"), "deleting twice is fine")

	got, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, store.Len())
}
