package catalog

import "strings"

// canonicalSymbols maps common user spellings to catalog symbols.
var canonicalSymbols = map[string]string{
	"BITCOIN":  "BTC",
	"XBT":      "BTC",
	"ETHER":    "ETH",
	"ETHEREUM": "ETH",
	"SOLANA":   "SOL",
	"TETHER":   "USDT",
	"DOGECOIN": "DOGE",
	"RIPPLE":   "XRP",
}

// symbolMatches lists the catalog symbols a canonical symbol may resolve to.
// Wrapped variants settle as the same asset through the intents protocol.
var symbolMatches = map[string][]string{
	"NEAR": {"NEAR", "WNEAR"},
	"BTC":  {"BTC", "WBTC"},
	"ETH":  {"ETH", "WETH"},
	"SOL":  {"SOL", "WSOL"},
}

// defaultChains maps symbols to the chain they imply when the user gives no
// chain hint.
var defaultChains = map[string]string{
	"NEAR": "near",
	"SUI":  "sui",
	"SOL":  "sol",
	"BTC":  "btc",
	"ETH":  "eth",
	"XRP":  "xrp",
	"DOGE": "doge",
}

// chainAliases maps user spellings to the chain names the catalog uses.
var chainAliases = map[string]string{
	"near":      "near",
	"sui":       "sui",
	"eth":       "eth",
	"ethereum":  "eth",
	"sol":       "sol",
	"solana":    "sol",
	"btc":       "btc",
	"bitcoin":   "btc",
	"arb":       "arb",
	"arbitrum":  "arb",
	"base":      "base",
	"op":        "op",
	"optimism":  "op",
	"pol":       "pol",
	"polygon":   "pol",
	"matic":     "pol",
	"bsc":       "bsc",
	"bnb":       "bsc",
	"avax":      "avax",
	"avalanche": "avax",
	"xrp":       "xrp",
	"doge":      "doge",
	"dogecoin":  "doge",
	"tron":      "tron",
	"ton":       "ton",
	"zec":       "zec",
	"zcash":     "zec",
	"gnosis":    "gnosis",
}

// CanonicalSymbol normalizes a user-typed token name to its catalog symbol.
func CanonicalSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if canonical, ok := canonicalSymbols[s]; ok {
		return canonical
	}
	return s
}

// CanonicalChain normalizes a user-typed chain name. Returns "" when the name
// is not a known chain.
func CanonicalChain(chain string) string {
	return chainAliases[strings.ToLower(strings.TrimSpace(chain))]
}

// KnownChainIn scans text for any known chain alias appearing as a word and
// returns its canonical name, or "".
func KnownChainIn(text string) string {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?()")
		if canonical, ok := chainAliases[word]; ok {
			return canonical
		}
	}
	return ""
}

// DefaultChainFor returns the chain a symbol implies absent any hint, or "".
func DefaultChainFor(symbol string) string {
	return defaultChains[CanonicalSymbol(symbol)]
}

// FindBestToken resolves a user-typed symbol against the catalog. When a
// preferred chain is given and an alias match exists there, that entry wins;
// otherwise the first alias match is returned (catalog order is assumed
// most-liquid-first). Returns nil when nothing matches.
func FindBestToken(entries []Token, symbol, preferredChain string) *Token {
	canonical := CanonicalSymbol(symbol)

	accepted := map[string]bool{canonical: true}
	for _, alias := range symbolMatches[canonical] {
		accepted[strings.ToUpper(alias)] = true
	}

	var matches []Token
	for _, t := range entries {
		if accepted[strings.ToUpper(t.Symbol)] {
			matches = append(matches, t)
		}
	}
	if len(matches) == 0 {
		return nil
	}

	if preferredChain != "" {
		want := CanonicalChain(preferredChain)
		if want == "" {
			want = strings.ToLower(preferredChain)
		}
		for i := range matches {
			if strings.ToLower(matches[i].Blockchain) == want {
				return &matches[i]
			}
		}
	}

	return &matches[0]
}

// fallbackDecimals is consulted only when a catalog entry omits decimals.
var fallbackDecimals = map[string]int32{
	"BTC":  8,
	"ETH":  18,
	"SOL":  9,
	"NEAR": 24,
	"SUI":  9,
	"USDC": 6,
	"USDT": 6,
	"XRP":  6,
	"DOGE": 8,
	"TRX":  6,
	"TON":  9,
	"ZEC":  8,
}

// GuessDecimals returns the conventional decimal places for a symbol when the
// catalog entry does not carry them.
func GuessDecimals(symbol string) int32 {
	if d, ok := fallbackDecimals[CanonicalSymbol(symbol)]; ok {
		return d
	}
	return 18
}

// Decimals returns the token's decimals, falling back to the static table
// when the catalog entry omits them.
func Decimals(t *Token) int32 {
	if t.Decimals > 0 {
		return t.Decimals
	}
	return GuessDecimals(t.Symbol)
}
