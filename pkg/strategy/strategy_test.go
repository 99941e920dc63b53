package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelect(t *testing.T) {
	imported := &ImportedKey{AccountID: "alice.near", PrivateKey: "ed25519:key"}
	delegated := &DelegatedWallet{WalletID: "w1", SignerID: "s1"}
	service := &ServiceAccount{AccountID: "service.near", PrivateKey: "ed25519:key"}

	cases := []struct {
		name   string
		bundle Bundle
		want   Path
	}{
		{"nothing", Bundle{}, PathManual},
		{"service only", Bundle{Service: service}, PathServiceAccount},
		{"client sign with account", Bundle{ClientSign: true, ClientAccountID: "alice.near", Service: service}, PathClientSign},
		{"client sign without account falls through", Bundle{ClientSign: true, Service: service}, PathServiceAccount},
		{"delegated beats client sign", Bundle{Delegated: delegated, ClientSign: true, ClientAccountID: "alice.near"}, PathDelegated},
		{"delegated beats service", Bundle{Delegated: delegated, Service: service}, PathDelegated},
		{"imported beats everything", Bundle{Imported: imported, Delegated: delegated, ClientSign: true, ClientAccountID: "alice.near", Service: service}, PathImported},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Select(tc.bundle))
		})
	}
}

func TestAutoExecutes(t *testing.T) {
	assert.True(t, PathImported.AutoExecutes())
	assert.True(t, PathDelegated.AutoExecutes())
	assert.True(t, PathServiceAccount.AutoExecutes())
	assert.False(t, PathClientSign.AutoExecutes())
	assert.False(t, PathManual.AutoExecutes())
}

func TestPathString(t *testing.T) {
	assert.Equal(t, "imported", PathImported.String())
	assert.Equal(t, "delegated", PathDelegated.String())
	assert.Equal(t, "client-sign", PathClientSign.String())
	assert.Equal(t, "service-account", PathServiceAccount.String())
	assert.Equal(t, "manual", PathManual.String())
}
