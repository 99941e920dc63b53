// Package strategy picks the execution path for a confirmed swap from the
// credential material the caller supplied. Selection is a pure decision table;
// nothing here performs I/O.
package strategy

// Path is one of the five supported execution paths.
type Path int

const (
	// PathImported executes server-side with a user-supplied keypair.
	PathImported Path = iota
	// PathDelegated executes via a key-custody signer on a managed wallet.
	PathDelegated
	// PathClientSign returns deposit instructions for the client to sign.
	PathClientSign
	// PathServiceAccount executes with the shared service-operated account.
	PathServiceAccount
	// PathManual returns the deposit address and instructions only.
	PathManual
)

func (p Path) String() string {
	switch p {
	case PathImported:
		return "imported"
	case PathDelegated:
		return "delegated"
	case PathClientSign:
		return "client-sign"
	case PathServiceAccount:
		return "service-account"
	default:
		return "manual"
	}
}

// ImportedKey is an explicit keypair the user handed over for their account.
type ImportedKey struct {
	AccountID  string
	PrivateKey string
}

// DelegatedWallet identifies a managed wallet and its delegated signer.
type DelegatedWallet struct {
	WalletID string
	SignerID string
}

// ServiceAccount is the environment-configured shared account.
type ServiceAccount struct {
	AccountID  string
	PrivateKey string
}

// Bundle is the tagged union of credential material present for one caller.
// At most one variant is consulted; precedence is fixed by Select.
type Bundle struct {
	Imported        *ImportedKey
	Delegated       *DelegatedWallet
	ClientSign      bool
	ClientAccountID string
	Service         *ServiceAccount
}

// Select applies the fixed precedence: imported credentials, delegated
// signing, client-sign mode (only with a known account), service account,
// otherwise manual. First match wins.
func Select(b Bundle) Path {
	switch {
	case b.Imported != nil:
		return PathImported
	case b.Delegated != nil:
		return PathDelegated
	case b.ClientSign && b.ClientAccountID != "":
		return PathClientSign
	case b.Service != nil:
		return PathServiceAccount
	default:
		return PathManual
	}
}

// AutoExecutes reports whether the path performs the transfer server-side.
func (p Path) AutoExecutes() bool {
	return p == PathImported || p == PathDelegated || p == PathServiceAccount
}
