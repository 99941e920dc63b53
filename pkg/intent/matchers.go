package intent

import (
	"regexp"
	"strings"

	"intents-agent/pkg/catalog"
)

// A matcher tries to recognize one message shape. Matchers run in a fixed
// priority order because the patterns overlap by design; the first match wins.
type matcher struct {
	name string
	try  func(text string) *Parsed
}

const (
	amountPat = `([0-9][0-9,]*(?:\.[0-9]+)?)`
	symbolPat = `([a-zA-Z][a-zA-Z0-9]{1,14})`
)

var (
	helpRe    = regexp.MustCompile(`(?i)^\s*(help|commands|what can you do|how does this work)\b`)
	cancelRe  = regexp.MustCompile(`(?i)^\s*(cancel|abort|stop|no|never\s?mind)[.!]?\s*$`)
	confirmRe = regexp.MustCompile(`(?i)^\s*(yes|y|yep|yeah|sure|ok|okay|confirm|proceed|go ahead|do it|execute|send it)[.!]?\s*$`)
	statusRe  = regexp.MustCompile(`(?i)^\s*(?:check\s+)?status(?:\s+of)?\s*(\S+)?\s*$`)
	statusOf  = regexp.MustCompile(`(?i)\b(?:swap\s+status|status\s+of\s+my\s+swap)\b(?:\s+(\S+))?`)
	tokensRe  = regexp.MustCompile(`(?i)\b(?:list|show|what|which|supported)\b.*\btokens?\b|^\s*tokens\s*$`)
	chainsRe  = regexp.MustCompile(`(?i)\b(?:list|show|what|which|supported)\b.*\b(?:chains?|networks?)\b|^\s*chains\s*$`)
	balanceRe = regexp.MustCompile(`(?i)\bbalance\b`)
	fundRe    = regexp.MustCompile(`(?i)^\s*fund\b|\btop\s?up\b|\bdeposit funds\b`)

	swapRe     = regexp.MustCompile(`(?i)\b(?:swap|exchange|convert|trade)\s+` + amountPat + `\s+` + symbolPat + `\s+(?:for|to|into)\s+` + symbolPat)
	buyRe      = regexp.MustCompile(`(?i)\bbuy\s+` + symbolPat + `\s+with\s+` + amountPat + `\s+` + symbolPat)
	sellRe     = regexp.MustCompile(`(?i)\bsell\s+` + amountPat + `\s+` + symbolPat + `\s+for\s+` + symbolPat)
	howMuchRe  = regexp.MustCompile(`(?i)\bhow\s+much\s+` + symbolPat + `\s+(?:can\s+i\s+get\s+)?for\s+` + amountPat + `\s+` + symbolPat)
	quoteRe    = regexp.MustCompile(`(?i)\bquote\s+` + amountPat + `\s+` + symbolPat + `\s+(?:for|to|into)\s+` + symbolPat)
	bareRe     = regexp.MustCompile(`(?i)^\s*` + amountPat + `\s+` + symbolPat + `\s+(?:to|for|into)\s+` + symbolPat)
	buyOnlyRe  = regexp.MustCompile(`(?i)^\s*buy\s+` + symbolPat + `\s*$`)
	sellOnlyRe = regexp.MustCompile(`(?i)^\s*sell\s+(?:` + amountPat + `\s+)?` + symbolPat + `\s*$`)

	fromChainRe = regexp.MustCompile(`(?i)\bfrom\s+([a-zA-Z]+)(?:\s+chain|\s+network|\s+to)\b`)
	toChainRe   = regexp.MustCompile(`(?i)\bto\s+([a-zA-Z]+)\s+(?:chain|network)\b`)
	onChainRe   = regexp.MustCompile(`(?i)\bon\s+([a-zA-Z]+)\b`)
)

// matchers is the full cascade in priority order.
var matchers = []matcher{
	{"help", func(text string) *Parsed {
		if helpRe.MatchString(text) {
			return &Parsed{Action: ActionHelp}
		}
		return nil
	}},
	{"cancel", func(text string) *Parsed {
		if cancelRe.MatchString(text) {
			return &Parsed{Action: ActionCancel}
		}
		return nil
	}},
	{"confirm", func(text string) *Parsed {
		if confirmRe.MatchString(text) {
			return &Parsed{Action: ActionConfirm}
		}
		return nil
	}},
	{"status", func(text string) *Parsed {
		if m := statusRe.FindStringSubmatch(text); m != nil {
			return &Parsed{Action: ActionStatus, DepositAddress: m[1]}
		}
		if m := statusOf.FindStringSubmatch(text); m != nil {
			return &Parsed{Action: ActionStatus, DepositAddress: m[1]}
		}
		return nil
	}},
	{"list-tokens", func(text string) *Parsed {
		if tokensRe.MatchString(text) && !chainsRe.MatchString(text) {
			// A chain named anywhere in the text narrows the listing.
			return &Parsed{Action: ActionListTokens, ChainIn: catalog.KnownChainIn(text)}
		}
		return nil
	}},
	{"list-chains", func(text string) *Parsed {
		if chainsRe.MatchString(text) {
			return &Parsed{Action: ActionListChains}
		}
		return nil
	}},
	{"balance", func(text string) *Parsed {
		if balanceRe.MatchString(text) {
			return &Parsed{Action: ActionBalance}
		}
		return nil
	}},
	{"fund", func(text string) *Parsed {
		if fundRe.MatchString(text) {
			return &Parsed{Action: ActionFund}
		}
		return nil
	}},
	{"swap", swapShape(swapRe, ActionSwap, 1, 2, 3)},
	{"buy-with", swapShape(buyRe, ActionSwap, 2, 3, 1)},
	{"sell-for", swapShape(sellRe, ActionSwap, 1, 2, 3)},
	{"how-much", swapShape(howMuchRe, ActionQuote, 2, 3, 1)},
	{"quote", swapShape(quoteRe, ActionQuote, 1, 2, 3)},
	{"bare", swapShape(bareRe, ActionSwap, 1, 2, 3)},
	{"buy-partial", func(text string) *Parsed {
		if m := buyOnlyRe.FindStringSubmatch(text); m != nil {
			return &Parsed{Action: ActionQuote, TokenOut: catalog.CanonicalSymbol(m[1])}
		}
		return nil
	}},
	{"sell-partial", func(text string) *Parsed {
		if m := sellOnlyRe.FindStringSubmatch(text); m != nil {
			return &Parsed{Action: ActionQuote, AmountIn: normalizeAmount(m[1]), TokenIn: catalog.CanonicalSymbol(m[2])}
		}
		return nil
	}},
}

// swapShape builds a matcher for one swap-shaped pattern. amtIdx/inIdx/outIdx
// give the capture-group positions of the amount and the two tokens.
func swapShape(re *regexp.Regexp, action Action, amtIdx, inIdx, outIdx int) func(string) *Parsed {
	return func(text string) *Parsed {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return nil
		}
		return &Parsed{
			Action:   action,
			AmountIn: normalizeAmount(m[amtIdx]),
			TokenIn:  catalog.CanonicalSymbol(m[inIdx]),
			TokenOut: catalog.CanonicalSymbol(m[outIdx]),
		}
	}
}

// Parse runs the matcher cascade over one message.
func Parse(text string) *Parsed {
	raw := strings.TrimSpace(text)

	for _, m := range matchers {
		parsed := m.try(raw)
		if parsed == nil {
			continue
		}
		parsed.RawText = raw

		if parsed.Action == ActionSwap || parsed.Action == ActionQuote {
			extractChainHints(raw, parsed)

			// A one-sided parse degrades to a quote request instead of being
			// discarded; the agent asks for the missing side.
			if (parsed.TokenIn == "") != (parsed.TokenOut == "") {
				parsed.Action = ActionQuote
			}
		}

		return parsed
	}

	return &Parsed{Action: ActionUnknown, RawText: raw}
}

// extractChainHints pulls "on X" / "from X" / "to X chain" fragments out of
// the message, independently of which swap pattern matched.
func extractChainHints(text string, p *Parsed) {
	if m := fromChainRe.FindStringSubmatch(text); m != nil {
		if chain := catalog.CanonicalChain(m[1]); chain != "" {
			p.ChainIn = chain
		}
	}
	if m := toChainRe.FindStringSubmatch(text); m != nil {
		if chain := catalog.CanonicalChain(m[1]); chain != "" {
			p.ChainOut = chain
		}
	}
	if m := onChainRe.FindStringSubmatch(text); m != nil {
		if chain := catalog.CanonicalChain(m[1]); chain != "" {
			if p.ChainIn == "" {
				p.ChainIn = chain
			} else if p.ChainOut == "" {
				p.ChainOut = chain
			}
		}
	}
}

// normalizeAmount strips thousands separators, keeping the amount a decimal
// string so no precision is lost before unit conversion.
func normalizeAmount(amount string) string {
	return strings.ReplaceAll(amount, ",", "")
}
