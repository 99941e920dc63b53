package deposit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intents-agent/config"
)

func TestDelegatedDepositor_NativeTransfer(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/wallets/wallet-1/transactions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"transactionHash": "tx-native"})
	}))
	defer srv.Close()

	d, err := NewDelegatedDepositor(config.DelegatedSignerConfig{BaseURL: srv.URL, APIKey: "secret"}, "wallet-1", "signer-1")
	require.NoError(t, err)

	txHash, err := d.SendDeposit(context.Background(), Request{
		Chain:          "near",
		AssetID:        "nep141:wrap.near",
		DepositAddress: "dep.near",
		Amount:         "1000",
	})
	require.NoError(t, err)
	assert.Equal(t, "tx-native", txHash)

	assert.Equal(t, "signer-1", got["signerId"])
	action := got["action"].(map[string]interface{})
	assert.Equal(t, "Transfer", action["type"])
	assert.Equal(t, "dep.near", action["receiverId"])
	assert.Equal(t, "1000", action["amount"])
}

func TestDelegatedDepositor_TokenTransfer(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"hash": "tx-token"})
	}))
	defer srv.Close()

	d, err := NewDelegatedDepositor(config.DelegatedSignerConfig{BaseURL: srv.URL}, "wallet-1", "signer-1")
	require.NoError(t, err)

	txHash, err := d.SendDeposit(context.Background(), Request{
		Chain:           "near",
		ContractAddress: "usdc.near",
		DepositAddress:  "dep.near",
		Amount:          "5000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "tx-token", txHash)

	action := got["action"].(map[string]interface{})
	assert.Equal(t, "FunctionCall", action["type"])
	assert.Equal(t, "usdc.near", action["receiverId"])
	assert.Equal(t, "ft_transfer_call", action["methodName"])
	assert.Equal(t, "1", action["deposit"])

	var args map[string]string
	require.NoError(t, json.Unmarshal([]byte(action["args"].(string)), &args))
	assert.Equal(t, "dep.near", args["receiver_id"])
	assert.Equal(t, "5000000", args["amount"])
	assert.Equal(t, "", args["msg"])
}

func TestDelegatedDepositor_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "signer unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	d, err := NewDelegatedDepositor(config.DelegatedSignerConfig{BaseURL: srv.URL}, "wallet-1", "signer-1")
	require.NoError(t, err)

	_, err = d.SendDeposit(context.Background(), Request{Chain: "near", DepositAddress: "dep.near", Amount: "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signer unavailable")
}

func TestDelegatedDepositor_RequiresConfiguration(t *testing.T) {
	_, err := NewDelegatedDepositor(config.DelegatedSignerConfig{}, "w", "s")
	assert.Error(t, err)

	_, err = NewDelegatedDepositor(config.DelegatedSignerConfig{BaseURL: "http://localhost"}, "", "s")
	assert.Error(t, err)
}

type stubDepositor struct {
	tx  string
	got Request
}

func (s *stubDepositor) SendDeposit(_ context.Context, req Request) (string, error) {
	s.got = req
	return s.tx, nil
}

func TestManagerRouting(t *testing.T) {
	m := NewManager(&config.Config{}, nil)
	stub := &stubDepositor{tx: "tx-1"}
	m.Register("NEAR", stub)

	assert.True(t, m.Supports("near"), "chain lookup is case-insensitive")
	assert.False(t, m.Supports("sol"))

	txID, err := m.SendDeposit(context.Background(), Request{Chain: "near", DepositAddress: "dep.near", Amount: "1"})
	require.NoError(t, err)
	assert.Equal(t, "tx-1", txID)
	assert.Equal(t, "dep.near", stub.got.DepositAddress)

	_, err = m.SendDeposit(context.Background(), Request{Chain: "btc"})
	assert.Error(t, err)
}

type addressedStub struct {
	stubDepositor
	addr string
}

func (s *addressedStub) Address() string { return s.addr }

func TestManagerAddresses(t *testing.T) {
	m := NewManager(&config.Config{}, nil)
	m.Register("eth", &addressedStub{addr: "0x52908400098527886E0F7030069857D2E4169EE7"})
	m.Register("sol", &addressedStub{addr: "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T"})
	m.Register("btc", &stubDepositor{}) // no fixed sending address

	addrs := m.Addresses()
	assert.Equal(t, "0x52908400098527886E0F7030069857D2E4169EE7", addrs["eth"])
	assert.Equal(t, "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T", addrs["sol"])
	_, ok := addrs["btc"]
	assert.False(t, ok, "executors without a fixed address stay out of the map")
}
