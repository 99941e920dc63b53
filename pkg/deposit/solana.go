package deposit

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"intents-agent/config"
)

// solanaFeeLamports is the typical per-signature fee reserved on top of a
// native transfer.
const solanaFeeLamports = uint64(5000)

// SolanaDepositor handles deposits on Solana.
type SolanaDepositor struct {
	config     config.SolanaConfig
	client     *rpc.Client
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey
}

// NewSolanaDepositor creates a new Solana depositor.
func NewSolanaDepositor(cfg config.SolanaConfig) (*SolanaDepositor, error) {
	if cfg.RPCUrl == "" {
		return nil, fmt.Errorf("RPC URL not configured for Solana")
	}
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("private key not configured for Solana")
	}

	privateKey, err := solana.PrivateKeyFromBase58(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &SolanaDepositor{
		config:     cfg,
		client:     rpc.New(cfg.RPCUrl),
		privateKey: privateKey,
		publicKey:  privateKey.PublicKey(),
	}, nil
}

// Address returns the base58 public key of the signing key.
func (s *SolanaDepositor) Address() string {
	return s.publicKey.String()
}

// SendDeposit sends the asset to the deposit address. Amounts are smallest
// units (lamports for native SOL), already scaled by the caller.
func (s *SolanaDepositor) SendDeposit(ctx context.Context, req Request) (string, error) {
	recipient, err := solana.PublicKeyFromBase58(req.DepositAddress)
	if err != nil {
		return "", fmt.Errorf("invalid deposit address: %w", err)
	}

	amount, err := strconv.ParseUint(req.Amount, 10, 64)
	if err != nil || amount == 0 {
		return "", fmt.Errorf("invalid amount: %q", req.Amount)
	}

	var signature solana.Signature
	if req.ContractAddress == "" {
		signature, err = s.sendNativeSOL(ctx, recipient, amount)
	} else {
		signature, err = s.sendSPLToken(ctx, recipient, req.ContractAddress, amount)
	}
	if err != nil {
		return "", err
	}

	return signature.String(), nil
}

// sendNativeSOL sends lamports to the recipient.
func (s *SolanaDepositor) sendNativeSOL(ctx context.Context, recipient solana.PublicKey, lamports uint64) (solana.Signature, error) {
	balance, err := s.client.GetBalance(ctx, s.publicKey, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get balance: %w", err)
	}

	minRequired := lamports + solanaFeeLamports
	if balance.Value < minRequired {
		return solana.Signature{}, fmt.Errorf("insufficient balance: short %d lamports (including fees)", minRequired-balance.Value)
	}

	recent, err := s.client.GetRecentBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	instruction := system.NewTransferInstruction(lamports, s.publicKey, recipient).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		recent.Value.Blockhash,
		solana.TransactionPayer(s.publicKey),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	return s.signAndSend(ctx, tx)
}

// sendSPLToken transfers SPL tokens, creating the destination associated
// token account when it does not exist yet.
func (s *SolanaDepositor) sendSPLToken(ctx context.Context, recipient solana.PublicKey, mintStr string, amount uint64) (solana.Signature, error) {
	tokenMint, err := solana.PublicKeyFromBase58(mintStr)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("invalid token mint address: %w", err)
	}

	sourceTokenAccount, _, err := solana.FindAssociatedTokenAddress(s.publicKey, tokenMint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to derive source token account: %w", err)
	}

	balance, err := s.tokenBalance(ctx, sourceTokenAccount)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get token balance: %w", err)
	}
	if balance < amount {
		return solana.Signature{}, fmt.Errorf("insufficient token balance: short %d smallest units", amount-balance)
	}

	destTokenAccount, _, err := solana.FindAssociatedTokenAddress(recipient, tokenMint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to derive destination token account: %w", err)
	}

	destExists, err := s.accountExists(ctx, destTokenAccount)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to check destination account: %w", err)
	}

	recent, err := s.client.GetRecentBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	instructions := []solana.Instruction{}
	if !destExists {
		instructions = append(instructions, associatedtokenaccount.NewCreateInstruction(
			s.publicKey,
			recipient,
			tokenMint,
		).Build())
	}
	instructions = append(instructions, token.NewTransferInstruction(
		amount,
		sourceTokenAccount,
		destTokenAccount,
		s.publicKey,
		[]solana.PublicKey{},
	).Build())

	tx, err := solana.NewTransaction(
		instructions,
		recent.Value.Blockhash,
		solana.TransactionPayer(s.publicKey),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	return s.signAndSend(ctx, tx)
}

// signAndSend signs with the depositor key and submits.
func (s *SolanaDepositor) signAndSend(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.publicKey) {
			return &s.privateKey
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	opts := rpc.TransactionOpts{
		SkipPreflight:       s.config.SkipPreflight,
		PreflightCommitment: s.commitment(),
	}

	sig, err := s.client.SendTransactionWithOpts(ctx, tx, opts)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	return sig, nil
}

// tokenBalance returns the smallest-unit balance of a token account.
func (s *SolanaDepositor) tokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (uint64, error) {
	accountInfo, err := s.client.GetTokenAccountBalance(ctx, tokenAccount, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("failed to get token balance: %w", err)
	}

	amount, err := strconv.ParseUint(accountInfo.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse token balance: %w", err)
	}

	return amount, nil
}

// accountExists checks if an account exists on-chain.
func (s *SolanaDepositor) accountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	accountInfo, err := s.client.GetAccountInfo(ctx, account)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return false, nil
		}
		return false, err
	}
	return accountInfo.Value != nil, nil
}

// commitment returns the commitment level from config.
func (s *SolanaDepositor) commitment() rpc.CommitmentType {
	switch strings.ToLower(s.config.Commitment) {
	case "finalized":
		return rpc.CommitmentFinalized
	case "confirmed":
		return rpc.CommitmentConfirmed
	case "processed":
		return rpc.CommitmentProcessed
	default:
		return rpc.CommitmentConfirmed
	}
}
