// Package routing decides which of the caller's identities can act as refund
// and recipient addresses for a swap. The refund address must be valid on the
// origin chain, the recipient on the destination chain; when neither identity
// fits, the quote step must not run.
package routing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

// WalletChain is the network of the connected wallet identity.
const WalletChain = "sui"

// Identities are the addressable accounts available for one caller.
type Identities struct {
	// WalletAddress is the connected wallet on the settlement chain (SUI).
	WalletAddress string
	// NearAccountID is the caller's own NEAR account, when known.
	NearAccountID string
	// ServiceAccountID is the service-operated NEAR account, when configured.
	ServiceAccountID string
	// ServiceAddresses holds the service-operated sending address per
	// additional chain with a configured executor (EVM networks, Solana),
	// keyed by lowercase chain name.
	ServiceAddresses map[string]string
}

// Route is the resolved refund/recipient pair for one swap.
type Route struct {
	RefundAddress    string
	RecipientAddress string
}

// MissingIdentityError reports that no available identity is valid on the
// named chain. It is a user-facing condition, not an internal fault.
type MissingIdentityError struct {
	Chain string
	Role  string // "refund" or "recipient"
}

func (e *MissingIdentityError) Error() string {
	return fmt.Sprintf("no %s wallet or account available for chain %q", e.Role, e.Chain)
}

// Resolve computes the refund and recipient addresses for a swap between the
// given chains.
func Resolve(originChain, destChain string, ids Identities) (*Route, error) {
	refund := addressFor(originChain, ids)
	if refund == "" {
		return nil, &MissingIdentityError{Chain: originChain, Role: "refund"}
	}

	recipient := addressFor(destChain, ids)
	if recipient == "" {
		return nil, &MissingIdentityError{Chain: destChain, Role: "recipient"}
	}

	return &Route{RefundAddress: refund, RecipientAddress: recipient}, nil
}

// addressFor picks the first identity valid on the chain. NEAR prefers the
// user's own account over the service account; other chains fall back to the
// service-operated address when one is configured there.
func addressFor(chain string, ids Identities) string {
	chain = strings.ToLower(chain)
	switch chain {
	case "near":
		if ValidNearAccount(ids.NearAccountID) {
			return ids.NearAccountID
		}
		if ValidNearAccount(ids.ServiceAccountID) {
			return ids.ServiceAccountID
		}
	case WalletChain:
		if ValidSuiAddress(ids.WalletAddress) {
			return ids.WalletAddress
		}
	default:
		// Derived from the executor's own signing key, so valid by
		// construction.
		if addr := ids.ServiceAddresses[chain]; addr != "" {
			return addr
		}
	}
	return ""
}

var nearNamedRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9._-]*[a-z0-9])?$`)
var hexRe = regexp.MustCompile(`^[0-9a-fA-F]+$`)

// ValidNearAccount accepts named accounts (alice.near, user.tg) and 64-hex
// implicit accounts.
func ValidNearAccount(account string) bool {
	if len(account) < 2 || len(account) > 64 {
		return false
	}
	if len(account) == 64 && hexRe.MatchString(account) && strings.ToLower(account) == account {
		return true
	}
	return strings.Contains(account, ".") && nearNamedRe.MatchString(account)
}

// ValidSuiAddress accepts 0x-prefixed 32-byte hex addresses. The length rule
// is strict: a 20-byte EVM-style address is not a SUI address.
func ValidSuiAddress(address string) bool {
	if !strings.HasPrefix(address, "0x") {
		return false
	}
	hexPart := address[2:]
	return len(hexPart) == 64 && hexRe.MatchString(hexPart)
}

// ValidEVMAddress accepts 0x-prefixed 20-byte hex addresses.
func ValidEVMAddress(address string) bool {
	return common.IsHexAddress(address) && len(address) == 42
}

// ValidSolanaAddress accepts base58-encoded 32-byte public keys.
func ValidSolanaAddress(address string) bool {
	_, err := solana.PublicKeyFromBase58(address)
	return err == nil
}
