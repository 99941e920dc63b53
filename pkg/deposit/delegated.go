package deposit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"intents-agent/config"
)

// DelegatedDepositor executes NEAR deposits through a key-custody service
// that signs on behalf of a managed wallet. The private key never reaches
// this process.
type DelegatedDepositor struct {
	config   config.DelegatedSignerConfig
	walletID string
	signerID string
	client   *http.Client
}

// NewDelegatedDepositor creates a depositor bound to one managed wallet.
func NewDelegatedDepositor(cfg config.DelegatedSignerConfig, walletID, signerID string) (*DelegatedDepositor, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("delegated signer base URL not configured")
	}
	if walletID == "" || signerID == "" {
		return nil, fmt.Errorf("delegated wallet and signer identifiers are required")
	}

	return &DelegatedDepositor{
		config:   cfg,
		walletID: walletID,
		signerID: signerID,
		client:   &http.Client{},
	}, nil
}

// signerAction mirrors the custody service's action schema.
type signerAction struct {
	Type       string `json:"type"`
	Receiver   string `json:"receiverId"`
	Amount     string `json:"amount,omitempty"`
	MethodName string `json:"methodName,omitempty"`
	Args       string `json:"args,omitempty"`
	Gas        string `json:"gas,omitempty"`
	Deposit    string `json:"deposit,omitempty"`
}

// SendDeposit asks the custody service to sign and submit the transfer.
func (d *DelegatedDepositor) SendDeposit(ctx context.Context, req Request) (string, error) {
	contract := req.ContractAddress
	if contract == "" {
		contract = strings.TrimPrefix(req.AssetID, "nep141:")
	}

	var action signerAction
	if contract == "" || contract == wrappedNearContract {
		action = signerAction{
			Type:     "Transfer",
			Receiver: req.DepositAddress,
			Amount:   req.Amount,
		}
	} else {
		args, err := json.Marshal(map[string]string{
			"receiver_id": req.DepositAddress,
			"amount":      req.Amount,
			"msg":         "",
		})
		if err != nil {
			return "", fmt.Errorf("failed to encode transfer args: %w", err)
		}
		action = signerAction{
			Type:       "FunctionCall",
			Receiver:   contract,
			MethodName: "ft_transfer_call",
			Args:       string(args),
			Gas:        fmt.Sprintf("%d", ftTransferGas),
			Deposit:    "1",
		}
	}

	body := map[string]interface{}{
		"signerId": d.signerID,
		"chain":    "near",
		"action":   action,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal signer request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/wallets/%s/transactions", strings.TrimRight(d.config.BaseURL, "/"), d.walletID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create signer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if d.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+d.config.APIKey)
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("signer request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read signer response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("signer returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		TransactionHash string `json:"transactionHash"`
		Hash            string `json:"hash"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse signer response: %w", err)
	}

	txHash := result.TransactionHash
	if txHash == "" {
		txHash = result.Hash
	}
	if txHash == "" {
		return "", fmt.Errorf("empty transaction hash returned by signer")
	}

	return txHash, nil
}
