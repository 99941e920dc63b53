package deposit

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"intents-agent/config"
)

// EVMDepositor handles deposits on EVM-compatible blockchains.
type EVMDepositor struct {
	network     config.EVMNetwork
	networkName string
	client      *ethclient.Client
	privateKey  *ecdsa.PrivateKey
	fromAddress common.Address
}

// ERC20 transfer function ABI
const erc20TransferABI = `[{"constant":false,"inputs":[{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"}]`

const erc20BalanceOfABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"}]`

// NewEVMDepositor creates a depositor for one EVM network.
func NewEVMDepositor(network config.EVMNetwork, networkName string) (*EVMDepositor, error) {
	if network.RPCUrl == "" {
		return nil, fmt.Errorf("RPC URL not configured for network %s", networkName)
	}
	if network.PrivateKey == "" {
		return nil, fmt.Errorf("private key not configured for network %s", networkName)
	}

	client, err := ethclient.Dial(network.RPCUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(network.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &EVMDepositor{
		network:     network,
		networkName: networkName,
		client:      client,
		privateKey:  privateKey,
		fromAddress: crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// Address returns the hex address of the signing key.
func (e *EVMDepositor) Address() string {
	return e.fromAddress.Hex()
}

// SendDeposit sends the asset to the deposit address. Amounts are smallest
// units (wei for native transfers), already scaled by the caller.
func (e *EVMDepositor) SendDeposit(ctx context.Context, req Request) (string, error) {
	if !common.IsHexAddress(req.DepositAddress) {
		return "", fmt.Errorf("invalid deposit address: %s", req.DepositAddress)
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return "", fmt.Errorf("invalid amount: %q", req.Amount)
	}

	nonce, err := e.client.PendingNonceAt(ctx, e.fromAddress)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := e.gasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get gas price: %w", err)
	}

	var tx *types.Transaction
	if req.ContractAddress == "" {
		tx, err = e.nativeTransfer(ctx, req.DepositAddress, amount, nonce, gasPrice)
	} else {
		tx, err = e.erc20Transfer(ctx, req.DepositAddress, req.ContractAddress, amount, nonce, gasPrice)
	}
	if err != nil {
		return "", err
	}

	if err := e.client.SendTransaction(ctx, tx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	return tx.Hash().Hex(), nil
}

// nativeTransfer builds a signed native-asset transfer.
func (e *EVMDepositor) nativeTransfer(ctx context.Context, to string, amount *big.Int, nonce uint64, gasPrice *big.Int) (*types.Transaction, error) {
	toAddress := common.HexToAddress(to)

	gasLimit := uint64(21000)
	if e.network.GasLimit != nil {
		gasLimit = *e.network.GasLimit
	}

	balance, err := e.client.BalanceAt(ctx, e.fromAddress, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	// The native asset pays its own fees; reserve the worst-case gas cost.
	feeReserve := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
	needed := new(big.Int).Add(amount, feeReserve)
	if balance.Cmp(needed) < 0 {
		shortfall := new(big.Int).Sub(needed, balance)
		return nil, fmt.Errorf("insufficient balance: short %s wei (including gas)", shortfall.String())
	}

	tx := types.NewTransaction(nonce, toAddress, amount, gasLimit, gasPrice, nil)

	return e.sign(tx)
}

// erc20Transfer builds a signed ERC20 transfer call.
func (e *EVMDepositor) erc20Transfer(ctx context.Context, to, contract string, amount *big.Int, nonce uint64, gasPrice *big.Int) (*types.Transaction, error) {
	if !common.IsHexAddress(contract) {
		return nil, fmt.Errorf("invalid token contract address: %s", contract)
	}
	toAddress := common.HexToAddress(to)
	tokenAddress := common.HexToAddress(contract)

	balance, err := e.erc20Balance(ctx, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to get token balance: %w", err)
	}
	if balance.Cmp(amount) < 0 {
		shortfall := new(big.Int).Sub(amount, balance)
		return nil, fmt.Errorf("insufficient token balance: short %s smallest units", shortfall.String())
	}

	parsedABI, err := abi.JSON(strings.NewReader(erc20TransferABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}
	data, err := parsedABI.Pack("transfer", toAddress, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack transfer data: %w", err)
	}

	gasLimit := uint64(100000)
	if e.network.GasLimit != nil {
		gasLimit = *e.network.GasLimit
	} else {
		msg := ethereum.CallMsg{From: e.fromAddress, To: &tokenAddress, Data: data}
		if estimated, err := e.client.EstimateGas(ctx, msg); err == nil {
			gasLimit = estimated * 120 / 100
		}
	}

	tx := types.NewTransaction(nonce, tokenAddress, big.NewInt(0), gasLimit, gasPrice, data)

	return e.sign(tx)
}

// sign signs a transaction for the configured chain.
func (e *EVMDepositor) sign(tx *types.Transaction) (*types.Transaction, error) {
	chainID := big.NewInt(e.network.ChainID)
	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(chainID), e.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signedTx, nil
}

// gasPrice returns the configured or suggested gas price.
func (e *EVMDepositor) gasPrice(ctx context.Context) (*big.Int, error) {
	if e.network.GasPrice != nil {
		return big.NewInt(*e.network.GasPrice), nil
	}
	return e.client.SuggestGasPrice(ctx)
}

// erc20Balance reads balanceOf for the signing address.
func (e *EVMDepositor) erc20Balance(ctx context.Context, tokenAddress common.Address) (*big.Int, error) {
	parsedABI, err := abi.JSON(strings.NewReader(erc20BalanceOfABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse balanceOf ABI: %w", err)
	}
	data, err := parsedABI.Pack("balanceOf", e.fromAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf data: %w", err)
	}

	result, err := e.client.CallContract(ctx, ethereum.CallMsg{To: &tokenAddress, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call balanceOf: %w", err)
	}

	return new(big.Int).SetBytes(result), nil
}

// Close closes the client connection.
func (e *EVMDepositor) Close() {
	if e.client != nil {
		e.client.Close()
	}
}
