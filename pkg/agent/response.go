package agent

// ResponseType categorizes a reply so front ends can render it richly while
// chat bots fall back to the plain message.
type ResponseType string

const (
	TypeQuote         ResponseType = "quote"
	TypeExecution     ResponseType = "execution"
	TypeDepositNeeded ResponseType = "deposit_needed"
	TypeStatus        ResponseType = "status"
	TypeError         ResponseType = "error"
	TypeInfo          ResponseType = "info"
	TypeHelp          ResponseType = "help"
)

// Response is the structured reply for one processed message. Every response
// carries both a human-readable message and machine-readable type/data.
type Response struct {
	Message          string                 `json:"message"`
	Type             ResponseType           `json:"type"`
	Data             map[string]interface{} `json:"data,omitempty"`
	SuggestedActions []string               `json:"suggested_actions,omitempty"`
}

// UserContext carries the caller's identities and credential material for one
// message. Front ends populate it from their own auth/session layer.
type UserContext struct {
	// ConversationID keys the session; one pending quote exists per
	// conversation.
	ConversationID string
	// WalletAddress is the connected wallet on the settlement chain (SUI).
	WalletAddress string
	// NearAccountID is the caller's own NEAR account, when known.
	NearAccountID string
	// ImportedAccountID/ImportedPrivateKey are an explicit keypair the user
	// supplied for server-side signing.
	ImportedAccountID  string
	ImportedPrivateKey string
	// DelegatedWalletID/DelegatedSignerID select a managed wallet on the
	// key-custody service.
	DelegatedWalletID string
	DelegatedSignerID string
	// ClientSign requests deposit instructions instead of server-side
	// execution; the client signs on its own and reports back through the
	// deposit_sent side channel.
	ClientSign bool
}

func errorResponse(message string, data map[string]interface{}) *Response {
	return &Response{Message: message, Type: TypeError, Data: data}
}

func infoResponse(message string, actions ...string) *Response {
	return &Response{Message: message, Type: TypeInfo, SuggestedActions: actions}
}

const helpText = `I can swap tokens across chains for you. Try:
  - "swap 100 USDC for SUI"
  - "quote 50 USDT to BTC" for a price preview
  - "list tokens on near" / "list chains"
  - "status" to check your last swap
  - "balance" / "fund" for account info
Reply "yes" to execute a quoted swap, or "cancel" to drop it.`
