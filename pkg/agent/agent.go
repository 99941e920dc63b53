// Package agent is the conversation orchestrator: it turns one chat message
// into parsing, catalog resolution, routing, quoting, execution, or status
// lookups, and keeps the per-conversation session state consistent.
package agent

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"intents-agent/config"
	"intents-agent/pkg/catalog"
	"intents-agent/pkg/deposit"
	"intents-agent/pkg/intent"
	"intents-agent/pkg/oneclick"
	"intents-agent/pkg/routing"
	"intents-agent/pkg/session"
	"intents-agent/pkg/strategy"
)

// QuoteService is the slice of the 1Click client the agent depends on.
type QuoteService interface {
	RequestQuote(ctx context.Context, p oneclick.QuoteParams) (*oneclick.Quote, error)
	SubmitDepositTx(ctx context.Context, txHash, depositAddress string) oneclick.NonCritical
	ExecutionStatus(ctx context.Context, depositAddress string) (*oneclick.SwapStatus, error)
}

// Catalog provides the cached token and chain listings.
type Catalog interface {
	Tokens(ctx context.Context) ([]catalog.Token, error)
	Chains(ctx context.Context) ([]string, error)
}

// DepositRouter executes service-account deposits on whichever chains are
// configured.
type DepositRouter interface {
	Supports(chain string) bool
	Addresses() map[string]string
	SendDeposit(ctx context.Context, req deposit.Request) (string, error)
}

// explorerTxURLs maps origin chains to their transaction explorer prefix.
var explorerTxURLs = map[string]string{
	"near": "https://nearblocks.io/txns/",
	"eth":  "https://etherscan.io/tx/",
	"arb":  "https://arbiscan.io/tx/",
	"base": "https://basescan.org/tx/",
	"sol":  "https://solscan.io/tx/",
	"sui":  "https://suivision.xyz/txblock/",
}

// Agent wires the pipeline together. One Agent serves many conversations;
// messages within a conversation are handled sequentially.
type Agent struct {
	cfg      *config.Config
	quotes   QuoteService
	catalog  Catalog
	sessions session.Store
	deposits DepositRouter
	log      *zap.Logger

	// Factories, replaceable in tests. Imported and delegated execution are
	// NEAR-only: those credential kinds identify NEAR signers.
	nearDepositor      func(accountID, privateKey string) (deposit.Depositor, error)
	delegatedDepositor func(walletID, signerID string) (deposit.Depositor, error)
	nearBalance        func(ctx context.Context, accountID string) (string, error)

	// locks serializes turns per conversation. Conversations hash onto a
	// fixed set of mutexes so the table never grows with conversation count.
	locks [64]sync.Mutex
}

// New creates an agent over the given collaborators.
func New(cfg *config.Config, quotes QuoteService, cat Catalog, store session.Store, deposits DepositRouter, log *zap.Logger) *Agent {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Agent{
		cfg:      cfg,
		quotes:   quotes,
		catalog:  cat,
		sessions: store,
		deposits: deposits,
		log:      log,
	}
	a.nearDepositor = func(accountID, privateKey string) (deposit.Depositor, error) {
		return deposit.NewNearDepositor(cfg.Near.RPCUrl, accountID, privateKey, log)
	}
	a.delegatedDepositor = func(walletID, signerID string) (deposit.Depositor, error) {
		return deposit.NewDelegatedDepositor(cfg.Signer, walletID, signerID)
	}
	a.nearBalance = func(ctx context.Context, accountID string) (string, error) {
		return deposit.NearBalance(ctx, cfg.Near.RPCUrl, accountID)
	}
	return a
}

// ProcessMessage handles one user message and returns a structured reply. It
// never panics through to the caller and never returns nil.
func (a *Agent) ProcessMessage(ctx context.Context, text string, user UserContext) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("message handler panicked", zap.Any("panic", r))
			resp = errorResponse("Something went wrong on my side. Please try again.", nil)
		}
	}()

	convID := user.ConversationID
	if convID == "" {
		convID = "default"
	}

	mu := a.lockFor(convID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := a.sessions.Get(ctx, convID)
	if err != nil {
		a.log.Warn("session load failed, starting fresh", zap.String("conversation", convID), zap.Error(err))
	}
	if sess == nil {
		sess = session.New(convID)
	}

	// The deposit_sent side channel bypasses intent parsing: the client-sign
	// flow reports its own transaction hash through it.
	if fields := strings.Fields(text); len(fields) == 3 && fields[0] == "deposit_sent" {
		resp = a.handleDepositSent(ctx, sess, fields[1], fields[2])
		a.saveSession(ctx, sess)
		return resp
	}

	parsed := intent.Parse(text)
	a.log.Debug("parsed intent",
		zap.String("conversation", convID),
		zap.String("action", string(parsed.Action)))

	switch parsed.Action {
	case intent.ActionHelp:
		resp = &Response{Message: helpText, Type: TypeHelp, SuggestedActions: []string{"swap 100 USDC for SUI", "list tokens"}}
	case intent.ActionCancel:
		resp = a.handleCancel(sess)
	case intent.ActionConfirm:
		resp = a.handleConfirm(ctx, sess, user)
	case intent.ActionStatus:
		resp = a.handleStatus(ctx, sess, parsed)
	case intent.ActionListTokens:
		resp = a.handleListTokens(ctx, parsed)
	case intent.ActionListChains:
		resp = a.handleListChains(ctx)
	case intent.ActionBalance:
		resp = a.handleBalance(ctx, user)
	case intent.ActionFund:
		resp = a.handleFund(user)
	case intent.ActionSwap, intent.ActionQuote:
		resp = a.handleQuote(ctx, sess, parsed, user)
	default:
		resp = &Response{
			Message:          "I didn't catch that. Tell me what to swap, for example \"swap 100 USDC for SUI\", or say \"help\".",
			Type:             TypeInfo,
			SuggestedActions: []string{"help", "list tokens"},
		}
	}

	a.saveSession(ctx, sess)
	return resp
}

// handleQuote resolves tokens, routes addresses, stores the pending quote, and
// prices it with a dry-run request.
func (a *Agent) handleQuote(ctx context.Context, sess *session.Session, parsed *intent.Parsed, user UserContext) *Response {
	if msg := missingPieces(parsed); msg != "" {
		return infoResponse(msg, "swap 100 USDC for SUI")
	}

	tokens, err := a.catalog.Tokens(ctx)
	if err != nil {
		return errorResponse("The token catalog is unavailable right now: "+err.Error(), nil)
	}

	inPref := parsed.ChainIn
	if inPref == "" {
		inPref = catalog.DefaultChainFor(parsed.TokenIn)
	}
	outPref := parsed.ChainOut
	if outPref == "" {
		outPref = catalog.DefaultChainFor(parsed.TokenOut)
	}
	if outPref == "" {
		outPref = a.cfg.DestChain
	}

	tokenIn := catalog.FindBestToken(tokens, parsed.TokenIn, inPref)
	if tokenIn == nil {
		return &Response{
			Message:          fmt.Sprintf("I couldn't find %s among the supported assets.", parsed.TokenIn),
			Type:             TypeError,
			SuggestedActions: []string{"list tokens"},
		}
	}
	tokenOut := catalog.FindBestToken(tokens, parsed.TokenOut, outPref)
	if tokenOut == nil {
		return &Response{
			Message:          fmt.Sprintf("I couldn't find %s among the supported assets.", parsed.TokenOut),
			Type:             TypeError,
			SuggestedActions: []string{"list tokens"},
		}
	}
	if tokenIn.AssetID == tokenOut.AssetID {
		return errorResponse(fmt.Sprintf("%s on %s is the same asset on both sides, nothing to swap.", tokenIn.Symbol, tokenIn.Blockchain), nil)
	}

	amountRaw, err := catalog.ToSmallestUnit(parsed.AmountIn, catalog.Decimals(tokenIn))
	if err != nil {
		return errorResponse(fmt.Sprintf("I couldn't read the amount %q: %v", parsed.AmountIn, err), nil)
	}

	route, err := routing.Resolve(tokenIn.Blockchain, tokenOut.Blockchain, a.identities(user))
	if err != nil {
		return &Response{
			Message:          err.Error() + ". Connect a wallet or account on that chain and try again.",
			Type:             TypeError,
			SuggestedActions: []string{"help"},
		}
	}

	// Stored before the dry run so a failed preview can still be confirmed
	// (the live quote is re-requested on confirm anyway).
	sess.Pending = &session.PendingQuote{
		OriginAsset:      tokenIn.AssetID,
		DestinationAsset: tokenOut.AssetID,
		AmountRaw:        amountRaw,
		RefundAddress:    route.RefundAddress,
		RecipientAddress: route.RecipientAddress,
		TokenInSymbol:    tokenIn.Symbol,
		TokenOutSymbol:   tokenOut.Symbol,
		AmountInHuman:    parsed.AmountIn,
		OriginChain:      strings.ToLower(tokenIn.Blockchain),
		DestChain:        strings.ToLower(tokenOut.Blockchain),
		OriginContract:   tokenIn.ContractAddress,
		CreatedAt:        time.Now(),
	}

	quote, err := a.quotes.RequestQuote(ctx, oneclick.QuoteParams{
		Dry:              true,
		OriginAsset:      tokenIn.AssetID,
		DestinationAsset: tokenOut.AssetID,
		Amount:           amountRaw,
		RefundTo:         route.RefundAddress,
		Recipient:        route.RecipientAddress,
		SlippageBps:      a.cfg.Slippage,
	})
	if err != nil {
		return &Response{
			Message:          fmt.Sprintf("The quote didn't go through: %v. Say \"yes\" to retry it or \"cancel\" to drop it.", err),
			Type:             TypeError,
			SuggestedActions: []string{"yes", "cancel"},
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Quote: %s %s (%s) → about %s %s (%s)",
		quote.AmountInFormatted, tokenIn.Symbol, tokenIn.Blockchain,
		quote.AmountOutFormatted, tokenOut.Symbol, tokenOut.Blockchain)
	if quote.AmountOutUsd != "" {
		fmt.Fprintf(&sb, " worth ~$%s", quote.AmountOutUsd)
	}
	if quote.TimeEstimate > 0 {
		fmt.Fprintf(&sb, ", settling in ~%.0fs", quote.TimeEstimate)
	}
	if parsed.QuoteOnly() {
		sb.WriteString(".\nThat's a price check, nothing is committed yet. Reply \"yes\" if you want to go ahead or \"cancel\" to drop it.")
	} else {
		sb.WriteString(".\nReply \"yes\" to execute or \"cancel\" to drop it.")
	}

	return &Response{
		Message: sb.String(),
		Type:    TypeQuote,
		Data: map[string]interface{}{
			"amount_in":         quote.AmountInFormatted,
			"amount_in_usd":     quote.AmountInUsd,
			"amount_out":        quote.AmountOutFormatted,
			"amount_out_usd":    quote.AmountOutUsd,
			"token_in":          tokenIn.Symbol,
			"token_out":         tokenOut.Symbol,
			"origin_chain":      tokenIn.Blockchain,
			"destination_chain": tokenOut.Blockchain,
			"time_estimate_sec": quote.TimeEstimate,
		},
		SuggestedActions: []string{"yes", "cancel"},
	}
}

// handleConfirm consumes the pending quote: live quote, execution path, then
// the deposit itself.
func (a *Agent) handleConfirm(ctx context.Context, sess *session.Session, user UserContext) *Response {
	if sess.Pending == nil {
		return &Response{
			Message:          "There's no pending swap to confirm. Ask for a quote first.",
			Type:             TypeError,
			SuggestedActions: []string{"swap 100 USDC for SUI"},
		}
	}

	p := sess.Pending
	path := strategy.Select(a.bundle(user))
	a.log.Info("executing swap",
		zap.String("path", path.String()),
		zap.String("origin", p.OriginChain),
		zap.String("destination", p.DestChain))

	quote, err := a.quotes.RequestQuote(ctx, oneclick.QuoteParams{
		OriginAsset:      p.OriginAsset,
		DestinationAsset: p.DestinationAsset,
		Amount:           p.AmountRaw,
		RefundTo:         p.RefundAddress,
		Recipient:        p.RecipientAddress,
		SlippageBps:      a.cfg.Slippage,
	})
	if err != nil {
		sess.Pending = nil
		return errorResponse(fmt.Sprintf("The swap couldn't be set up: %v. Please request a fresh quote.", err), nil)
	}
	if quote.DepositAddress == "" {
		sess.Pending = nil
		return errorResponse("The quote service returned no deposit address. Please request a fresh quote.", nil)
	}

	// Confirm consumes the pending quote whatever happens next.
	sess.Pending = nil

	if !path.AutoExecutes() {
		return a.depositInstructions(sess, p, quote, path)
	}

	executor, fallbackToManual, err := a.executorFor(path, p.OriginChain, user)
	if err != nil {
		sess.LastResult = failureResult(quote.DepositAddress, err)
		return errorResponse("I couldn't prepare the signer: "+err.Error(), nil)
	}
	if fallbackToManual {
		return a.depositInstructions(sess, p, quote, strategy.PathManual)
	}

	txHash, err := executor.SendDeposit(ctx, deposit.Request{
		Chain:           p.OriginChain,
		AssetID:         p.OriginAsset,
		ContractAddress: p.OriginContract,
		DepositAddress:  quote.DepositAddress,
		Amount:          p.AmountRaw,
	})
	if err != nil {
		sess.LastResult = failureResult(quote.DepositAddress, err)
		return &Response{
			Message: "The deposit failed: " + err.Error(),
			Type:    TypeError,
			Data:    map[string]interface{}{"deposit_address": quote.DepositAddress},
		}
	}

	a.quotes.SubmitDepositTx(ctx, txHash, quote.DepositAddress).Log(a.log)

	result := &session.ExecutionResult{
		Success:        true,
		DepositAddress: quote.DepositAddress,
		TxHash:         txHash,
		Timestamp:      time.Now(),
	}
	if prefix, ok := explorerTxURLs[p.OriginChain]; ok {
		result.ExplorerURL = prefix + txHash
	}
	if p.OriginChain == "near" {
		result.NearBlocksURL = "https://nearblocks.io/txns/" + txHash
	}
	sess.LastResult = result

	var sb strings.Builder
	fmt.Fprintf(&sb, "Swap submitted: sent %s %s toward %s %s.\nDeposit tx: %s",
		p.AmountInHuman, p.TokenInSymbol, quote.AmountOutFormatted, p.TokenOutSymbol, txHash)
	if result.ExplorerURL != "" {
		fmt.Fprintf(&sb, "\n%s", result.ExplorerURL)
	}
	sb.WriteString("\nSettlement runs on its own now; ask \"status\" anytime.")

	return &Response{
		Message: sb.String(),
		Type:    TypeExecution,
		Data: map[string]interface{}{
			"tx_hash":         txHash,
			"deposit_address": quote.DepositAddress,
			"explorer_url":    result.ExplorerURL,
			"path":            path.String(),
		},
		SuggestedActions: []string{"status"},
	}
}

// depositInstructions answers the manual and client-sign paths: the user (or
// their wallet) funds the deposit address themselves.
func (a *Agent) depositInstructions(sess *session.Session, p *session.PendingQuote, quote *oneclick.Quote, path strategy.Path) *Response {
	sess.LastResult = &session.ExecutionResult{
		DepositAddress: quote.DepositAddress,
		Timestamp:      time.Now(),
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Send exactly %s %s on %s to this deposit address:\n%s",
		quote.AmountInFormatted, p.TokenInSymbol, p.OriginChain, quote.DepositAddress)
	if !quote.Deadline.IsZero() {
		fmt.Fprintf(&sb, "\nValid until %s.", quote.Deadline.Format(time.RFC3339))
	}
	if path == strategy.PathClientSign {
		sb.WriteString("\nAfter your wallet signs the transfer, report it back as:\ndeposit_sent <txHash> " + quote.DepositAddress)
	} else {
		sb.WriteString("\nOnce the deposit lands the swap settles on its own; ask \"status\" to follow it.")
	}

	return &Response{
		Message: sb.String(),
		Type:    TypeDepositNeeded,
		Data: map[string]interface{}{
			"deposit_address": quote.DepositAddress,
			"amount":          p.AmountRaw,
			"amount_human":    quote.AmountInFormatted,
			"token":           p.TokenInSymbol,
			"origin_chain":    p.OriginChain,
			"contract":        p.OriginContract,
			"deadline":        quote.Deadline,
			"path":            path.String(),
		},
		SuggestedActions: []string{"status"},
	}
}

// handleDepositSent records a client-reported deposit and forwards the hash to
// the settlement service on a best-effort basis.
func (a *Agent) handleDepositSent(ctx context.Context, sess *session.Session, txHash, depositAddress string) *Response {
	a.quotes.SubmitDepositTx(ctx, txHash, depositAddress).Log(a.log)

	sess.LastResult = &session.ExecutionResult{
		Success:        true,
		DepositAddress: depositAddress,
		TxHash:         txHash,
		Timestamp:      time.Now(),
	}

	return &Response{
		Message: "Deposit noted. Settlement runs on its own now; ask \"status\" anytime.",
		Type:    TypeExecution,
		Data: map[string]interface{}{
			"tx_hash":         txHash,
			"deposit_address": depositAddress,
		},
		SuggestedActions: []string{"status"},
	}
}

// handleStatus does a single status lookup; continuous watching lives in the
// CLI, not here.
func (a *Agent) handleStatus(ctx context.Context, sess *session.Session, parsed *intent.Parsed) *Response {
	address := parsed.DepositAddress
	if address == "" && sess.LastResult != nil {
		address = sess.LastResult.DepositAddress
	}
	if address == "" {
		return errorResponse("I have no swap to check. Execute one first, or give me a deposit address: \"status <address>\".", nil)
	}

	st, err := a.quotes.ExecutionStatus(ctx, address)
	if err != nil {
		return errorResponse("Status check failed: "+err.Error(), nil)
	}

	var msg string
	switch st.Status {
	case oneclick.StatusPendingDeposit:
		msg = "Waiting for the deposit to arrive."
	case oneclick.StatusIncompleteDeposit:
		msg = "A deposit arrived but it is short of the quoted amount."
	case oneclick.StatusProcessing:
		msg = "Deposit received; the swap is settling."
	case oneclick.StatusSuccess:
		msg = fmt.Sprintf("Swap complete: %s in, %s out.", st.AmountInFormatted, st.AmountOutFormatted)
	case oneclick.StatusRefunded:
		msg = "The swap could not complete and the deposit was refunded."
	case oneclick.StatusFailed:
		msg = "The swap failed."
	default:
		msg = "Status: " + st.Status
	}

	data := map[string]interface{}{
		"status":          st.Status,
		"deposit_address": address,
	}
	if len(st.OriginTxHashes) > 0 {
		data["origin_tx_hashes"] = st.OriginTxHashes
	}
	if len(st.DestinationTxHashes) > 0 {
		data["destination_tx_hashes"] = st.DestinationTxHashes
	}

	return &Response{Message: msg, Type: TypeStatus, Data: data}
}

func (a *Agent) handleCancel(sess *session.Session) *Response {
	if sess.Pending == nil {
		return infoResponse("Nothing pending to cancel.")
	}
	pending := sess.Pending
	sess.Pending = nil
	return infoResponse(fmt.Sprintf("Cancelled the pending %s → %s swap.", pending.TokenInSymbol, pending.TokenOutSymbol))
}

func (a *Agent) handleListTokens(ctx context.Context, parsed *intent.Parsed) *Response {
	tokens, err := a.catalog.Tokens(ctx)
	if err != nil {
		return errorResponse("The token catalog is unavailable right now: "+err.Error(), nil)
	}

	chainFilter := strings.ToLower(parsed.ChainIn)
	bySymbol := make(map[string][]string)
	for _, t := range tokens {
		chain := strings.ToLower(t.Blockchain)
		if chainFilter != "" && chain != chainFilter {
			continue
		}
		symbol := strings.ToUpper(t.Symbol)
		bySymbol[symbol] = append(bySymbol[symbol], chain)
	}
	if len(bySymbol) == 0 {
		if chainFilter != "" {
			return errorResponse(fmt.Sprintf("No supported tokens on %q.", chainFilter), nil)
		}
		return errorResponse("The token catalog came back empty.", nil)
	}

	symbols := make([]string, 0, len(bySymbol))
	for s := range bySymbol {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	const maxLines = 40
	var sb strings.Builder
	if chainFilter != "" {
		fmt.Fprintf(&sb, "Supported tokens on %s:\n", chainFilter)
	} else {
		sb.WriteString("Supported tokens:\n")
	}
	for i, s := range symbols {
		if i == maxLines {
			fmt.Fprintf(&sb, "…and %d more.", len(symbols)-maxLines)
			break
		}
		fmt.Fprintf(&sb, "  %s (%s)\n", s, strings.Join(bySymbol[s], ", "))
	}

	return &Response{
		Message: strings.TrimRight(sb.String(), "\n"),
		Type:    TypeInfo,
		Data:    map[string]interface{}{"count": len(symbols)},
	}
}

func (a *Agent) handleListChains(ctx context.Context) *Response {
	chains, err := a.catalog.Chains(ctx)
	if err != nil {
		return errorResponse("The token catalog is unavailable right now: "+err.Error(), nil)
	}
	return &Response{
		Message: "Supported chains: " + strings.Join(chains, ", "),
		Type:    TypeInfo,
		Data:    map[string]interface{}{"chains": chains},
	}
}

func (a *Agent) handleBalance(ctx context.Context, user UserContext) *Response {
	accountID := firstNonEmpty(user.ImportedAccountID, user.NearAccountID, a.cfg.Near.AccountID)
	if accountID == "" {
		return infoResponse("I have no NEAR account to check. Connect one, or configure a service account.")
	}

	raw, err := a.nearBalance(ctx, accountID)
	if err != nil {
		return errorResponse("Balance lookup failed: "+err.Error(), nil)
	}

	return &Response{
		Message: fmt.Sprintf("%s holds %s NEAR.", accountID, catalog.FromSmallestUnit(raw, 24)),
		Type:    TypeInfo,
		Data:    map[string]interface{}{"account_id": accountID, "balance_yocto": raw},
	}
}

func (a *Agent) handleFund(user UserContext) *Response {
	var lines []string
	if account := firstNonEmpty(user.ImportedAccountID, user.NearAccountID, a.cfg.Near.AccountID); account != "" {
		lines = append(lines, "Send NEAR or NEP-141 tokens to: "+account)
	}
	if user.WalletAddress != "" {
		lines = append(lines, "Your settlement wallet on "+routing.WalletChain+": "+user.WalletAddress)
	}
	if len(lines) == 0 {
		return infoResponse("No account to fund yet. Connect a wallet or a NEAR account first.")
	}
	return infoResponse(strings.Join(lines, "\n"))
}

// identities collects the caller's addressable accounts. The user's own NEAR
// account (imported or connected) outranks the service account; configured
// EVM and Solana executors contribute their sending addresses so swaps can
// originate there too.
func (a *Agent) identities(user UserContext) routing.Identities {
	return routing.Identities{
		WalletAddress:    user.WalletAddress,
		NearAccountID:    firstNonEmpty(user.NearAccountID, user.ImportedAccountID),
		ServiceAccountID: a.cfg.Near.AccountID,
		ServiceAddresses: a.deposits.Addresses(),
	}
}

// bundle assembles the credential material present for this caller.
func (a *Agent) bundle(user UserContext) strategy.Bundle {
	b := strategy.Bundle{
		ClientSign:      user.ClientSign,
		ClientAccountID: user.NearAccountID,
	}
	if user.ImportedAccountID != "" && user.ImportedPrivateKey != "" {
		b.Imported = &strategy.ImportedKey{AccountID: user.ImportedAccountID, PrivateKey: user.ImportedPrivateKey}
	}
	if user.DelegatedWalletID != "" && user.DelegatedSignerID != "" {
		b.Delegated = &strategy.DelegatedWallet{WalletID: user.DelegatedWalletID, SignerID: user.DelegatedSignerID}
	}
	if a.cfg.Near.AccountID != "" && a.cfg.Near.PrivateKey != "" {
		b.Service = &strategy.ServiceAccount{AccountID: a.cfg.Near.AccountID, PrivateKey: a.cfg.Near.PrivateKey}
	}
	return b
}

// executorFor resolves the depositor for an auto-executing path. When the
// selected credentials cannot act on the origin chain, the swap degrades to
// manual deposit instructions rather than failing.
func (a *Agent) executorFor(path strategy.Path, originChain string, user UserContext) (deposit.Depositor, bool, error) {
	switch path {
	case strategy.PathImported:
		if originChain != "near" {
			return nil, true, nil
		}
		d, err := a.nearDepositor(user.ImportedAccountID, user.ImportedPrivateKey)
		return d, false, err
	case strategy.PathDelegated:
		if originChain != "near" {
			return nil, true, nil
		}
		d, err := a.delegatedDepositor(user.DelegatedWalletID, user.DelegatedSignerID)
		return d, false, err
	case strategy.PathServiceAccount:
		if !a.deposits.Supports(originChain) {
			return nil, true, nil
		}
		return depositFunc(a.deposits.SendDeposit), false, nil
	default:
		return nil, true, nil
	}
}

// depositFunc adapts a plain function to the Depositor interface.
type depositFunc func(ctx context.Context, req deposit.Request) (string, error)

func (f depositFunc) SendDeposit(ctx context.Context, req deposit.Request) (string, error) {
	return f(ctx, req)
}

// missingPieces names whatever a swap-shaped intent still lacks, or "".
func missingPieces(p *intent.Parsed) string {
	var missing []string
	if p.AmountIn == "" {
		missing = append(missing, "the amount")
	}
	if p.TokenIn == "" {
		missing = append(missing, "the token to sell")
	}
	if p.TokenOut == "" {
		missing = append(missing, "the token to buy")
	}
	if len(missing) == 0 {
		return ""
	}
	return "Almost there. I still need " + strings.Join(missing, " and ") + "."
}

func failureResult(depositAddress string, err error) *session.ExecutionResult {
	return &session.ExecutionResult{
		DepositAddress: depositAddress,
		Error:          err.Error(),
		Timestamp:      time.Now(),
	}
}

func (a *Agent) saveSession(ctx context.Context, sess *session.Session) {
	sess.UpdatedAt = time.Now()
	if err := a.sessions.Put(ctx, sess); err != nil {
		a.log.Warn("session save failed", zap.String("conversation", sess.ID), zap.Error(err))
	}
}

func (a *Agent) lockFor(conversationID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(conversationID))
	return &a.locks[h.Sum32()%uint32(len(a.locks))]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
