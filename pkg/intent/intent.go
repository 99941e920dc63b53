// Package intent turns free-form chat text into a structured trading intent.
// Parsing is pure and deterministic: malformed input yields ActionUnknown,
// never an error.
package intent

// Action is what the user wants the agent to do.
type Action string

const (
	ActionSwap       Action = "swap"
	ActionQuote      Action = "quote"
	ActionListTokens Action = "list_tokens"
	ActionListChains Action = "list_chains"
	ActionStatus     Action = "status"
	ActionHelp       Action = "help"
	ActionBalance    Action = "balance"
	ActionFund       Action = "fund"
	ActionConfirm    Action = "confirm"
	ActionCancel     Action = "cancel"
	ActionUnknown    Action = "unknown"
)

// Parsed is the structured form of one user message. It is produced fresh per
// message and never persisted.
type Parsed struct {
	Action   Action
	TokenIn  string
	TokenOut string
	AmountIn string // decimal string, never a float
	ChainIn  string
	ChainOut string
	// DepositAddress is the free-text reference captured by a status request.
	DepositAddress string
	RawText        string
}

// QuoteOnly reports whether the intent asks for a price preview rather than a
// committed swap.
func (p *Parsed) QuoteOnly() bool {
	return p.Action == ActionQuote
}
