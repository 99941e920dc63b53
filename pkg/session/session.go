// Package session holds the only state the agent keeps across conversation
// turns: at most one pending quote and the last execution result.
package session

import "time"

// PendingQuote is the mutable state carried between a quote turn and its
// confirmation. A session holds at most one; a new quote request overwrites
// it, confirm consumes it, cancel clears it.
type PendingQuote struct {
	OriginAsset      string `json:"origin_asset"`
	DestinationAsset string `json:"destination_asset"`
	// AmountRaw is the input amount in smallest units.
	AmountRaw        string `json:"amount_raw"`
	RefundAddress    string `json:"refund_address"`
	RecipientAddress string `json:"recipient_address"`
	TokenInSymbol    string `json:"token_in_symbol"`
	TokenOutSymbol   string `json:"token_out_symbol"`
	AmountInHuman    string `json:"amount_in_human"`
	OriginChain      string `json:"origin_chain"`
	DestChain        string `json:"dest_chain"`
	// OriginContract is the origin token's contract address, empty for the
	// chain's native unit.
	OriginContract string    `json:"origin_contract,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ExecutionResult is the retained outcome of the last confirmed swap. It is
// kept for the status command only and never drives control flow.
type ExecutionResult struct {
	Success        bool      `json:"success"`
	DepositAddress string    `json:"deposit_address,omitempty"`
	TxHash         string    `json:"tx_hash,omitempty"`
	Error          string    `json:"error,omitempty"`
	ExplorerURL    string    `json:"explorer_url,omitempty"`
	NearBlocksURL  string    `json:"near_blocks_url,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Session is the per-conversation unit of state. All mutation goes through
// the agent's quote/confirm/cancel operations; no other component touches a
// session's fields.
type Session struct {
	ID         string           `json:"id"`
	Pending    *PendingQuote    `json:"pending,omitempty"`
	LastResult *ExecutionResult `json:"last_result,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// New creates an empty session for a conversation.
func New(id string) *Session {
	now := time.Now()
	return &Session{ID: id, CreatedAt: now, UpdatedAt: now}
}
