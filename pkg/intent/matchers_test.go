package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SwapShapes(t *testing.T) {
	cases := []struct {
		text     string
		action   Action
		amount   string
		tokenIn  string
		tokenOut string
	}{
		{"swap 100 USDC for SUI", ActionSwap, "100", "USDC", "SUI"},
		{"Swap 0.5 ETH to BTC", ActionSwap, "0.5", "ETH", "BTC"},
		{"exchange 1,000 USDT into NEAR", ActionSwap, "1000", "USDT", "NEAR"},
		{"trade 2 SOL for USDC", ActionSwap, "2", "SOL", "USDC"},
		{"buy SUI with 50 USDC", ActionSwap, "50", "USDC", "SUI"},
		{"sell 10 NEAR for USDT", ActionSwap, "10", "NEAR", "USDT"},
		{"quote 50 USDT to BTC", ActionQuote, "50", "USDT", "BTC"},
		{"how much SUI for 100 USDC", ActionQuote, "100", "USDC", "SUI"},
		{"how much SUI can i get for 100 USDC", ActionQuote, "100", "USDC", "SUI"},
		{"100 USDC to SUI", ActionSwap, "100", "USDC", "SUI"},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			p := Parse(tc.text)
			require.Equal(t, tc.action, p.Action)
			assert.Equal(t, tc.amount, p.AmountIn)
			assert.Equal(t, tc.tokenIn, p.TokenIn)
			assert.Equal(t, tc.tokenOut, p.TokenOut)
		})
	}
}

func TestParse_SymbolNormalization(t *testing.T) {
	p := Parse("swap 1 bitcoin for ether")
	require.Equal(t, ActionSwap, p.Action)
	assert.Equal(t, "BTC", p.TokenIn)
	assert.Equal(t, "ETH", p.TokenOut)
}

func TestParse_ChainHints(t *testing.T) {
	t.Run("on chain", func(t *testing.T) {
		p := Parse("swap 100 USDC for SUI on arbitrum")
		require.Equal(t, ActionSwap, p.Action)
		assert.Equal(t, "arb", p.ChainIn)
	})

	t.Run("from and to chains", func(t *testing.T) {
		p := Parse("swap 0.5 ETH for USDC from base to near chain")
		require.Equal(t, ActionSwap, p.Action)
		assert.Equal(t, "base", p.ChainIn)
		assert.Equal(t, "near", p.ChainOut)
	})
}

func TestParse_PartialDegradesToQuote(t *testing.T) {
	t.Run("buy side only", func(t *testing.T) {
		p := Parse("buy SUI")
		require.Equal(t, ActionQuote, p.Action)
		assert.Equal(t, "SUI", p.TokenOut)
		assert.Empty(t, p.TokenIn)
	})

	t.Run("sell side only", func(t *testing.T) {
		p := Parse("sell 25 USDC")
		require.Equal(t, ActionQuote, p.Action)
		assert.Equal(t, "USDC", p.TokenIn)
		assert.Equal(t, "25", p.AmountIn)
		assert.Empty(t, p.TokenOut)
	})
}

func TestParse_ControlActions(t *testing.T) {
	cases := []struct {
		text   string
		action Action
	}{
		{"yes", ActionConfirm},
		{"YES", ActionConfirm},
		{"go ahead", ActionConfirm},
		{"ok", ActionConfirm},
		{"cancel", ActionCancel},
		{"never mind", ActionCancel},
		{"no", ActionCancel},
		{"help", ActionHelp},
		{"what can you do", ActionHelp},
		{"balance", ActionBalance},
		{"fund", ActionFund},
		{"list chains", ActionListChains},
		{"what networks are supported", ActionListChains},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.action, Parse(tc.text).Action)
		})
	}
}

func TestParse_Status(t *testing.T) {
	t.Run("bare status", func(t *testing.T) {
		p := Parse("status")
		require.Equal(t, ActionStatus, p.Action)
		assert.Empty(t, p.DepositAddress)
	})

	t.Run("status with address", func(t *testing.T) {
		p := Parse("status 0xabc123")
		require.Equal(t, ActionStatus, p.Action)
		assert.Equal(t, "0xabc123", p.DepositAddress)
	})
}

func TestParse_ListTokens(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		p := Parse("list tokens")
		assert.Equal(t, ActionListTokens, p.Action)
	})

	t.Run("narrowed by chain", func(t *testing.T) {
		p := Parse("show tokens on solana")
		require.Equal(t, ActionListTokens, p.Action)
		assert.Equal(t, "sol", p.ChainIn)
	})
}

func TestParse_UnknownNeverErrors(t *testing.T) {
	for _, text := range []string{"", "   ", "asdf qwerty", "the weather is nice"} {
		p := Parse(text)
		require.NotNil(t, p)
		assert.Equal(t, ActionUnknown, p.Action)
	}
}

func TestParse_AmountKeepsDecimalString(t *testing.T) {
	p := Parse("swap 1,234.567 USDC for SUI")
	require.Equal(t, ActionSwap, p.Action)
	assert.Equal(t, "1234.567", p.AmountIn)
}
