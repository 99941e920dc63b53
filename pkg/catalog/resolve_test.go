package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resolveEntries = []Token{
	{Symbol: "USDC", Blockchain: "eth", AssetID: "nep141:eth-usdc", Decimals: 6},
	{Symbol: "USDC", Blockchain: "near", AssetID: "nep141:near-usdc", Decimals: 6},
	{Symbol: "USDC", Blockchain: "sui", AssetID: "nep141:sui-usdc", Decimals: 6},
	{Symbol: "WNEAR", Blockchain: "near", AssetID: "nep141:wrap.near", Decimals: 24, ContractAddress: "wrap.near"},
	{Symbol: "SUI", Blockchain: "sui", AssetID: "nep141:sui", Decimals: 9},
	{Symbol: "WBTC", Blockchain: "eth", AssetID: "nep141:wbtc", Decimals: 8},
}

func TestFindBestToken(t *testing.T) {
	t.Run("preferred chain wins", func(t *testing.T) {
		tok := FindBestToken(resolveEntries, "USDC", "sui")
		require.NotNil(t, tok)
		assert.Equal(t, "nep141:sui-usdc", tok.AssetID)
	})

	t.Run("falls back to first match", func(t *testing.T) {
		tok := FindBestToken(resolveEntries, "USDC", "sol")
		require.NotNil(t, tok)
		assert.Equal(t, "nep141:eth-usdc", tok.AssetID)
	})

	t.Run("no preference takes catalog order", func(t *testing.T) {
		tok := FindBestToken(resolveEntries, "USDC", "")
		require.NotNil(t, tok)
		assert.Equal(t, "nep141:eth-usdc", tok.AssetID)
	})

	t.Run("wrapped variant satisfies the plain symbol", func(t *testing.T) {
		tok := FindBestToken(resolveEntries, "NEAR", "near")
		require.NotNil(t, tok)
		assert.Equal(t, "WNEAR", tok.Symbol)

		tok = FindBestToken(resolveEntries, "BTC", "")
		require.NotNil(t, tok)
		assert.Equal(t, "WBTC", tok.Symbol)
	})

	t.Run("chain alias in preference", func(t *testing.T) {
		tok := FindBestToken(resolveEntries, "USDC", "ethereum")
		require.NotNil(t, tok)
		assert.Equal(t, "nep141:eth-usdc", tok.AssetID)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		assert.Nil(t, FindBestToken(resolveEntries, "NOPE", ""))
	})

	t.Run("idempotent", func(t *testing.T) {
		first := FindBestToken(resolveEntries, "usdc", "sui")
		second := FindBestToken(resolveEntries, "usdc", "sui")
		require.NotNil(t, first)
		require.NotNil(t, second)
		assert.Equal(t, first.AssetID, second.AssetID)
	})
}

func TestCanonicalSymbol(t *testing.T) {
	assert.Equal(t, "BTC", CanonicalSymbol("bitcoin"))
	assert.Equal(t, "ETH", CanonicalSymbol(" Ether "))
	assert.Equal(t, "USDT", CanonicalSymbol("tether"))
	assert.Equal(t, "SUI", CanonicalSymbol("sui"))
}

func TestCanonicalChain(t *testing.T) {
	assert.Equal(t, "arb", CanonicalChain("Arbitrum"))
	assert.Equal(t, "pol", CanonicalChain("matic"))
	assert.Equal(t, "", CanonicalChain("atlantis"))
}

func TestDefaultChainFor(t *testing.T) {
	assert.Equal(t, "near", DefaultChainFor("NEAR"))
	assert.Equal(t, "sui", DefaultChainFor("sui"))
	assert.Equal(t, "", DefaultChainFor("USDC"))
}

func TestDecimals(t *testing.T) {
	assert.Equal(t, int32(6), Decimals(&Token{Symbol: "USDC", Decimals: 6}))
	// Missing decimals fall back to the conventional value.
	assert.Equal(t, int32(24), Decimals(&Token{Symbol: "NEAR"}))
	assert.Equal(t, int32(18), Decimals(&Token{Symbol: "SOMETHING"}))
}
