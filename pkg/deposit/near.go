package deposit

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"

	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"intents-agent/pkg/catalog"
)

const (
	// wrappedNearContract marks the native-NEAR asset in 1Click asset ids.
	wrappedNearContract = "wrap.near"

	// ftTransferGas is the fixed compute budget attached to ft_transfer_call.
	ftTransferGas = uint64(100_000_000_000_000) // 100 TGas

	nearDecimals = int32(24)
)

// nativeFeeReserve is kept back to cover gas and storage when NEAR itself is
// being transferred: 0.05 NEAR in yocto.
var nativeFeeReserve, _ = new(big.Int).SetString("50000000000000000000000", 10)

// oneYocto is the attached deposit NEP-141 requires on transfer calls.
var oneYocto = big.NewInt(1)

// NearDepositor signs and submits NEAR transactions over JSON-RPC: plain
// transfers for native NEAR, ft_transfer_call with an empty message for
// NEP-141 assets.
type NearDepositor struct {
	rpcURL    string
	accountID string
	key       ed25519.PrivateKey
	publicKey ed25519.PublicKey
	client    *http.Client
	log       *zap.Logger
}

// NewNearDepositor creates a depositor for one NEAR account. The private key
// is the ed25519:<base58> form NEAR wallets export.
func NewNearDepositor(rpcURL, accountID, privateKey string, log *zap.Logger) (*NearDepositor, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("RPC URL not configured for NEAR")
	}
	if accountID == "" {
		return nil, fmt.Errorf("account ID not configured for NEAR")
	}
	if log == nil {
		log = zap.NewNop()
	}

	key, err := parseNearKey(privateKey)
	if err != nil {
		return nil, err
	}

	return &NearDepositor{
		rpcURL:    rpcURL,
		accountID: accountID,
		key:       key,
		publicKey: key.Public().(ed25519.PublicKey),
		client:    &http.Client{},
		log:       log,
	}, nil
}

// parseNearKey decodes an ed25519:<base58> private key. Both the 64-byte
// expanded form and the 32-byte seed form are accepted.
func parseNearKey(privateKey string) (ed25519.PrivateKey, error) {
	encoded := strings.TrimPrefix(privateKey, "ed25519:")
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid NEAR private key: %w", err)
	}

	switch len(raw) {
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), nil
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	default:
		return nil, fmt.Errorf("invalid NEAR private key length: %d", len(raw))
	}
}

// AccountID returns the signing account.
func (d *NearDepositor) AccountID() string {
	return d.accountID
}

// Address returns the signing account, satisfying Addresser.
func (d *NearDepositor) Address() string {
	return d.accountID
}

// SendDeposit transfers the asset to the deposit address and returns the
// transaction hash.
func (d *NearDepositor) SendDeposit(ctx context.Context, req Request) (string, error) {
	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return "", fmt.Errorf("invalid amount: %q", req.Amount)
	}

	contract := req.ContractAddress
	if contract == "" {
		contract = strings.TrimPrefix(req.AssetID, "nep141:")
	}

	if contract == "" || contract == wrappedNearContract {
		return d.sendNative(ctx, req.DepositAddress, amount)
	}
	return d.sendTokenCall(ctx, contract, req.DepositAddress, amount)
}

// sendNative performs a plain NEAR transfer.
func (d *NearDepositor) sendNative(ctx context.Context, receiver string, amount *big.Int) (string, error) {
	balance, err := d.nativeBalance(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get account balance: %w", err)
	}

	needed := new(big.Int).Add(amount, nativeFeeReserve)
	if balance.Cmp(needed) < 0 {
		shortfall := new(big.Int).Sub(needed, balance)
		return "", fmt.Errorf("insufficient balance: need %s more NEAR (including fee reserve)",
			catalog.FromSmallestUnit(shortfall.String(), nearDecimals))
	}

	action := transferAction(amount)
	return d.signAndSend(ctx, receiver, []nearAction{action})
}

// sendTokenCall performs a NEP-141 ft_transfer_call with an empty message.
func (d *NearDepositor) sendTokenCall(ctx context.Context, contract, receiver string, amount *big.Int) (string, error) {
	balance, err := d.tokenBalance(ctx, contract)
	if err != nil {
		return "", fmt.Errorf("failed to get token balance: %w", err)
	}
	if balance.Cmp(amount) < 0 {
		shortfall := new(big.Int).Sub(amount, balance)
		return "", fmt.Errorf("insufficient token balance on %s: short %s smallest units", contract, shortfall.String())
	}

	args, err := json.Marshal(map[string]string{
		"receiver_id": receiver,
		"amount":      amount.String(),
		"msg":         "",
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode transfer args: %w", err)
	}

	action := functionCallAction("ft_transfer_call", args, ftTransferGas, oneYocto)
	return d.signAndSend(ctx, contract, []nearAction{action})
}

// signAndSend builds, signs, and submits a transaction, returning its hash.
func (d *NearDepositor) signAndSend(ctx context.Context, receiver string, actions []nearAction) (string, error) {
	nonce, blockHash, err := d.accessKey(ctx)
	if err != nil {
		return "", err
	}

	tx := nearTransaction{
		SignerID:   d.accountID,
		PublicKey:  d.publicKey,
		Nonce:      nonce + 1,
		ReceiverID: receiver,
		BlockHash:  blockHash,
		Actions:    actions,
	}

	serialized, err := tx.borsh()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}

	digest := sha256.Sum256(serialized)
	signature := ed25519.Sign(d.key, digest[:])

	signed := new(bytes.Buffer)
	signed.Write(serialized)
	signed.WriteByte(0) // ed25519 key type
	signed.Write(signature)

	encoded := base64.StdEncoding.EncodeToString(signed.Bytes())

	result, err := d.callRPC(ctx, "broadcast_tx_commit", []interface{}{encoded})
	if err != nil {
		return "", fmt.Errorf("failed to broadcast transaction: %w", err)
	}

	var outcome struct {
		Transaction struct {
			Hash string `json:"hash"`
		} `json:"transaction"`
		Status map[string]json.RawMessage `json:"status"`
	}
	if err := json.Unmarshal(result, &outcome); err != nil {
		return "", fmt.Errorf("failed to parse broadcast result: %w", err)
	}
	if failure, ok := outcome.Status["Failure"]; ok {
		return "", fmt.Errorf("transaction failed on chain: %s", string(failure))
	}
	if outcome.Transaction.Hash == "" {
		return "", fmt.Errorf("empty transaction hash returned")
	}

	return outcome.Transaction.Hash, nil
}

// accessKey fetches the signing key's current nonce and a recent block hash.
func (d *NearDepositor) accessKey(ctx context.Context) (uint64, [32]byte, error) {
	var blockHash [32]byte

	result, err := d.callRPC(ctx, "query", map[string]interface{}{
		"request_type": "view_access_key",
		"finality":     "final",
		"account_id":   d.accountID,
		"public_key":   "ed25519:" + base58.Encode(d.publicKey),
	})
	if err != nil {
		return 0, blockHash, fmt.Errorf("failed to fetch access key: %w", err)
	}

	var key struct {
		Nonce     uint64 `json:"nonce"`
		BlockHash string `json:"block_hash"`
	}
	if err := json.Unmarshal(result, &key); err != nil {
		return 0, blockHash, fmt.Errorf("failed to parse access key: %w", err)
	}

	raw, err := base58.Decode(key.BlockHash)
	if err != nil || len(raw) != 32 {
		return 0, blockHash, fmt.Errorf("invalid block hash %q", key.BlockHash)
	}
	copy(blockHash[:], raw)

	return key.Nonce, blockHash, nil
}

// nativeBalance returns the account's liquid balance in yoctoNEAR.
func (d *NearDepositor) nativeBalance(ctx context.Context) (*big.Int, error) {
	result, err := d.callRPC(ctx, "query", map[string]interface{}{
		"request_type": "view_account",
		"finality":     "final",
		"account_id":   d.accountID,
	})
	if err != nil {
		return nil, err
	}

	var account struct {
		Amount string `json:"amount"`
	}
	if err := json.Unmarshal(result, &account); err != nil {
		return nil, fmt.Errorf("failed to parse account: %w", err)
	}

	balance, ok := new(big.Int).SetString(account.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid balance %q", account.Amount)
	}

	return balance, nil
}

// AccountBalance returns the account's balance as a yoctoNEAR string.
func (d *NearDepositor) AccountBalance(ctx context.Context) (string, error) {
	balance, err := d.nativeBalance(ctx)
	if err != nil {
		return "", err
	}
	return balance.String(), nil
}

// tokenBalance calls ft_balance_of on a NEP-141 contract.
func (d *NearDepositor) tokenBalance(ctx context.Context, contract string) (*big.Int, error) {
	args, _ := json.Marshal(map[string]string{"account_id": d.accountID})

	result, err := d.callRPC(ctx, "query", map[string]interface{}{
		"request_type": "call_function",
		"finality":     "final",
		"account_id":   contract,
		"method_name":  "ft_balance_of",
		"args_base64":  base64.StdEncoding.EncodeToString(args),
	})
	if err != nil {
		return nil, err
	}

	var view struct {
		Result []byte `json:"result"`
	}
	if err := json.Unmarshal(result, &view); err != nil {
		return nil, fmt.Errorf("failed to parse view result: %w", err)
	}

	// The view returns a JSON string, e.g. "12500000".
	var amount string
	if err := json.Unmarshal(view.Result, &amount); err != nil {
		return nil, fmt.Errorf("failed to parse token balance: %w", err)
	}

	balance, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid token balance %q", amount)
	}

	return balance, nil
}

// NearBalance queries an account's liquid balance in yoctoNEAR without
// needing any signing key.
func NearBalance(ctx context.Context, rpcURL, accountID string) (string, error) {
	viewer := &NearDepositor{rpcURL: rpcURL, accountID: accountID, client: &http.Client{}, log: zap.NewNop()}
	return viewer.AccountBalance(ctx)
}

// nearRPCRequest is a JSON-RPC request to a NEAR node.
type nearRPCRequest struct {
	JSONRpc string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

// nearRPCResponse is a JSON-RPC response from a NEAR node.
type nearRPCResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *nearRPCError   `json:"error,omitempty"`
}

type nearRPCError struct {
	Name  string          `json:"name"`
	Cause json.RawMessage `json:"cause,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// callRPC makes a JSON-RPC call to the NEAR node.
func (d *NearDepositor) callRPC(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	reqBody, err := json.Marshal(nearRPCRequest{
		JSONRpc: "2.0",
		ID:      "dontcare",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.rpcURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("RPC returned status %d: %s", resp.StatusCode, string(body))
	}

	var rpcResp nearRPCResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("RPC error %s: %s", rpcResp.Error.Name, string(rpcResp.Error.Cause))
	}

	return rpcResp.Result, nil
}
