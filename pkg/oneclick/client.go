// Package oneclick wraps the NEAR Intents 1Click SDK behind plain request and
// result types so the rest of the agent never touches generated API models.
package oneclick

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	oneclick "github.com/defuse-protocol/one-click-sdk-go"
	"go.uber.org/zap"

	"intents-agent/pkg/catalog"
)

// DefaultQuoteDeadline is how long a quote (and its deposit address) stays
// valid. Enforced by the service, not re-checked locally.
const DefaultQuoteDeadline = 3 * time.Minute

// DefaultSlippageBps is the default slippage tolerance (1%).
const DefaultSlippageBps int32 = 100

// Client wraps the 1Click API client.
type Client struct {
	api      *oneclick.APIClient
	authCtx  context.Context
	referral string
	log      *zap.Logger
}

// NewClient creates an authenticated 1Click API client.
func NewClient(jwtToken, baseURL, referral string, log *zap.Logger) *Client {
	config := oneclick.NewConfiguration()
	if baseURL != "" {
		config.Servers = oneclick.ServerConfigurations{{URL: baseURL}}
	}
	if log == nil {
		log = zap.NewNop()
	}

	authCtx := context.WithValue(context.Background(), oneclick.ContextAccessToken, jwtToken)

	return &Client{
		api:      oneclick.NewAPIClient(config),
		authCtx:  authCtx,
		referral: referral,
		log:      log,
	}
}

// QuoteParams is everything needed for a quote request. Amount is in smallest
// units. Dry requests return an estimate without a deposit address.
type QuoteParams struct {
	Dry              bool
	OriginAsset      string
	DestinationAsset string
	Amount           string
	RefundTo         string
	Recipient        string
	SlippageBps      int32
	Deadline         time.Time
}

// Quote is the priced result of a quote request. DepositAddress is empty for
// dry-run quotes.
type Quote struct {
	AmountIn           string
	AmountInFormatted  string
	AmountInUsd        string
	AmountOut          string
	AmountOutFormatted string
	AmountOutUsd       string
	DepositAddress     string
	Deadline           time.Time
	TimeEstimate       float32
}

// RequestQuote asks the 1Click service for a quote.
func (c *Client) RequestQuote(ctx context.Context, p QuoteParams) (*Quote, error) {
	slippage := p.SlippageBps
	if slippage <= 0 {
		slippage = DefaultSlippageBps
	}
	deadline := p.Deadline
	if deadline.IsZero() {
		deadline = time.Now().Add(DefaultQuoteDeadline)
	}

	req := oneclick.NewQuoteRequest(
		p.Dry,
		"EXACT_INPUT",
		float32(slippage),
		p.OriginAsset,
		"ORIGIN_CHAIN",
		p.DestinationAsset,
		p.Amount,
		p.RefundTo,
		"ORIGIN_CHAIN",
		p.Recipient,
		"DESTINATION_CHAIN",
		deadline,
	)
	if c.referral != "" {
		req.SetReferral(c.referral)
	}

	resp, httpResp, err := c.api.OneClickAPI.GetQuote(c.auth(ctx)).QuoteRequest(*req).Execute()
	if err != nil {
		return nil, quoteError(httpResp, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("quote API returned status code %d", httpResp.StatusCode)
	}
	if resp == nil {
		return nil, fmt.Errorf("empty quote response")
	}

	q := resp.GetQuote()
	return &Quote{
		AmountIn:           q.GetAmountIn(),
		AmountInFormatted:  q.GetAmountInFormatted(),
		AmountInUsd:        q.GetAmountInUsd(),
		AmountOut:          q.GetAmountOut(),
		AmountOutFormatted: q.GetAmountOutFormatted(),
		AmountOutUsd:       q.GetAmountOutUsd(),
		DepositAddress:     q.GetDepositAddress(),
		Deadline:           q.GetDeadline(),
		TimeEstimate:       float32(q.GetTimeEstimate()),
	}, nil
}

// quoteError digs the service's own message out of a failed quote response so
// it can be surfaced verbatim to the user.
func quoteError(httpResp *http.Response, err error) error {
	if httpResp == nil {
		return fmt.Errorf("failed to get quote: %w", err)
	}
	defer httpResp.Body.Close()

	if msg := serviceMessage(httpResp.Body); msg != "" {
		return fmt.Errorf("quote service error (status %d): %s", httpResp.StatusCode, msg)
	}
	return fmt.Errorf("failed to get quote (status %d): %w", httpResp.StatusCode, err)
}

// SupportedTokens retrieves the tradable-asset list. It satisfies
// catalog.Source.
func (c *Client) SupportedTokens(ctx context.Context) ([]catalog.Token, error) {
	resp, httpResp, err := c.api.OneClickAPI.GetTokens(c.auth(ctx)).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != 200 {
		return nil, fmt.Errorf("tokens API returned status code %d", httpResp.StatusCode)
	}

	tokens := make([]catalog.Token, 0, len(resp))
	for _, t := range resp {
		tokens = append(tokens, catalog.Token{
			Symbol:          t.GetSymbol(),
			Blockchain:      t.GetBlockchain(),
			AssetID:         t.GetAssetId(),
			Decimals:        int32(t.GetDecimals()),
			ContractAddress: t.GetContractAddress(),
		})
	}

	return tokens, nil
}

// ExecutionStatus checks the settlement status of a swap by deposit address.
func (c *Client) ExecutionStatus(ctx context.Context, depositAddress string) (*SwapStatus, error) {
	resp, httpResp, err := c.api.OneClickAPI.GetExecutionStatus(c.auth(ctx)).DepositAddress(depositAddress).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != 200 {
		return nil, fmt.Errorf("status API returned status code %d", httpResp.StatusCode)
	}

	details := resp.GetSwapDetails()
	status := &SwapStatus{
		Status:    resp.GetStatus(),
		UpdatedAt: resp.GetUpdatedAt(),
	}
	if details.HasAmountInFormatted() {
		status.AmountInFormatted = details.GetAmountInFormatted()
	}
	if details.HasAmountOutFormatted() {
		status.AmountOutFormatted = details.GetAmountOutFormatted()
	}
	for _, tx := range details.GetOriginChainTxHashes() {
		if tx.GetHash() != "" {
			status.OriginTxHashes = append(status.OriginTxHashes, tx.GetHash())
		}
	}
	for _, tx := range details.GetDestinationChainTxHashes() {
		if tx.GetHash() != "" {
			status.DestinationTxHashes = append(status.DestinationTxHashes, tx.GetHash())
		}
	}

	return status, nil
}

// NonCritical is the outcome of a best-effort call. The contract is
// log-and-discard: a non-nil Err must never fail the surrounding operation.
type NonCritical struct {
	Op  string
	Err error
}

// Log records the failure, if any, and drops it.
func (n NonCritical) Log(log *zap.Logger) {
	if n.Err != nil {
		log.Warn("non-critical operation failed", zap.String("op", n.Op), zap.Error(n.Err))
	}
}

// SubmitDepositTx notifies the service of a deposit transaction. The service
// detects on-chain deposits on its own, so this is an optimization only.
func (c *Client) SubmitDepositTx(ctx context.Context, txHash, depositAddress string) NonCritical {
	req := oneclick.NewSubmitDepositTxRequest(txHash, depositAddress)

	_, httpResp, err := c.api.OneClickAPI.SubmitDepositTx(c.auth(ctx)).SubmitDepositTxRequest(*req).Execute()
	if err != nil {
		return NonCritical{Op: "submit deposit tx", Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != 200 && httpResp.StatusCode != 201 {
		return NonCritical{Op: "submit deposit tx", Err: fmt.Errorf("API returned status code %d", httpResp.StatusCode)}
	}

	return NonCritical{Op: "submit deposit tx"}
}

// auth attaches the JWT to the caller's context, preserving its deadline.
func (c *Client) auth(ctx context.Context) context.Context {
	return context.WithValue(ctx, oneclick.ContextAccessToken, c.authCtx.Value(oneclick.ContextAccessToken))
}

// serviceMessage tries to extract the human error message from a raw response
// body; it returns "" when the body is not a recognizable error payload.
func serviceMessage(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return ""
	}
	var parsed map[string]interface{}
	if json.Unmarshal(data, &parsed) == nil {
		if msg, ok := parsed["message"].(string); ok {
			return msg
		}
	}
	return string(data)
}
