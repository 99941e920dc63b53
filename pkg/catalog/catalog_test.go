package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	calls  atomic.Int32
	tokens []Token
	err    error
}

func (f *fakeSource) SupportedTokens(_ context.Context) ([]Token, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.tokens, nil
}

func TestCache_ServesWithinTTL(t *testing.T) {
	src := &fakeSource{tokens: []Token{{Symbol: "USDC", Blockchain: "near"}}}
	cache := NewCache(src, time.Minute)

	first, err := cache.Tokens(context.Background())
	require.NoError(t, err)
	second, err := cache.Tokens(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), src.calls.Load(), "second read must come from cache")
}

func TestCache_RefreshErrorServesStale(t *testing.T) {
	src := &fakeSource{tokens: []Token{{Symbol: "SUI", Blockchain: "sui"}}}
	cache := NewCache(src, time.Nanosecond)

	fresh, err := cache.Tokens(context.Background())
	require.NoError(t, err)
	require.Len(t, fresh, 1)

	src.err = errors.New("upstream down")
	time.Sleep(time.Millisecond)

	stale, err := cache.Tokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fresh, stale)
}

func TestCache_ErrorWithNoCacheFails(t *testing.T) {
	src := &fakeSource{err: errors.New("upstream down")}
	cache := NewCache(src, time.Minute)

	_, err := cache.Tokens(context.Background())
	assert.Error(t, err)
}

func TestCache_Chains(t *testing.T) {
	src := &fakeSource{tokens: []Token{
		{Symbol: "USDC", Blockchain: "near"},
		{Symbol: "USDC", Blockchain: "eth"},
		{Symbol: "SUI", Blockchain: "sui"},
		{Symbol: "WNEAR", Blockchain: "near"},
	}}
	cache := NewCache(src, time.Minute)

	chains, err := cache.Chains(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"eth", "near", "sui"}, chains)
}
