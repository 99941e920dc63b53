// Package deposit performs the asset transfer that funds a swap: send asset X
// to deposit address Y, return a transaction identifier.
package deposit

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"intents-agent/config"
)

// Request describes one deposit transfer. Amount is in smallest units. An
// empty ContractAddress means the chain's native unit.
type Request struct {
	Chain           string
	AssetID         string
	ContractAddress string
	DepositAddress  string
	Amount          string
}

// Depositor executes deposits on one chain.
type Depositor interface {
	SendDeposit(ctx context.Context, req Request) (string, error)
}

// Addresser is implemented by depositors that send from a fixed,
// service-operated address. That address doubles as the refund target for
// swaps the service funds itself.
type Addresser interface {
	Address() string
}

// Manager routes deposit requests to the chain-specific executor.
type Manager struct {
	depositors map[string]Depositor
	log        *zap.Logger
}

// NewManager builds a manager with every executor the configuration allows.
func NewManager(cfg *config.Config, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		depositors: make(map[string]Depositor),
		log:        log,
	}

	if cfg.Near.AccountID != "" && cfg.Near.PrivateKey != "" {
		near, err := NewNearDepositor(cfg.Near.RPCUrl, cfg.Near.AccountID, cfg.Near.PrivateKey, log)
		if err != nil {
			log.Warn("near depositor unavailable", zap.Error(err))
		} else {
			m.Register("near", near)
		}
	}

	for network, netCfg := range cfg.EVM {
		evm, err := NewEVMDepositor(netCfg, network)
		if err != nil {
			log.Warn("evm depositor unavailable", zap.String("network", network), zap.Error(err))
			continue
		}
		m.Register(network, evm)
	}

	if cfg.Solana.RPCUrl != "" && cfg.Solana.PrivateKey != "" {
		sol, err := NewSolanaDepositor(cfg.Solana)
		if err != nil {
			log.Warn("solana depositor unavailable", zap.Error(err))
		} else {
			m.Register("sol", sol)
		}
	}

	return m
}

// Register installs a depositor for a chain, replacing any existing one.
func (m *Manager) Register(chain string, d Depositor) {
	m.depositors[strings.ToLower(chain)] = d
}

// Supports reports whether a depositor exists for the chain.
func (m *Manager) Supports(chain string) bool {
	_, ok := m.depositors[strings.ToLower(chain)]
	return ok
}

// Addresses returns the service-operated sending address for every chain
// whose executor exposes one, keyed by lowercase chain name.
func (m *Manager) Addresses() map[string]string {
	addrs := make(map[string]string, len(m.depositors))
	for chain, d := range m.depositors {
		if a, ok := d.(Addresser); ok {
			addrs[chain] = a.Address()
		}
	}
	return addrs
}

// SendDeposit executes the transfer on the request's chain.
func (m *Manager) SendDeposit(ctx context.Context, req Request) (string, error) {
	d, ok := m.depositors[strings.ToLower(req.Chain)]
	if !ok {
		return "", fmt.Errorf("no deposit executor configured for chain %q", req.Chain)
	}

	txID, err := d.SendDeposit(ctx, req)
	if err != nil {
		return "", err
	}

	m.log.Info("deposit sent",
		zap.String("chain", req.Chain),
		zap.String("deposit_address", req.DepositAddress),
		zap.String("tx_id", txID))

	return txID, nil
}
