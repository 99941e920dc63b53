package deposit

import (
	"crypto/ed25519"
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNearKey(t *testing.T) {
	t.Run("seed form", func(t *testing.T) {
		seed := make([]byte, ed25519.SeedSize)
		for i := range seed {
			seed[i] = byte(i)
		}
		key, err := parseNearKey("ed25519:" + base58.Encode(seed))
		require.NoError(t, err)
		assert.Equal(t, ed25519.NewKeyFromSeed(seed), key)
	})

	t.Run("expanded form", func(t *testing.T) {
		seed := make([]byte, ed25519.SeedSize)
		expanded := ed25519.NewKeyFromSeed(seed)
		key, err := parseNearKey("ed25519:" + base58.Encode(expanded))
		require.NoError(t, err)
		assert.Equal(t, expanded, key)
	})

	t.Run("prefix is optional", func(t *testing.T) {
		seed := make([]byte, ed25519.SeedSize)
		_, err := parseNearKey(base58.Encode(seed))
		assert.NoError(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := parseNearKey("ed25519:not-base58-0OIl")
		assert.Error(t, err)
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := parseNearKey("ed25519:" + base58.Encode(make([]byte, 16)))
		assert.Error(t, err)
	})
}

func TestTransferActionEncoding(t *testing.T) {
	amount := big.NewInt(1_000_000)
	action := transferAction(amount)

	assert.Equal(t, byte(actionTransfer), action.ordinal)
	require.Len(t, action.payload, 16, "u128 amount")

	// Little-endian round trip.
	got := new(big.Int)
	for i := len(action.payload) - 1; i >= 0; i-- {
		got.Lsh(got, 8)
		got.Or(got, big.NewInt(int64(action.payload[i])))
	}
	assert.Zero(t, amount.Cmp(got))
}

func TestFunctionCallActionEncoding(t *testing.T) {
	args := []byte(`{"receiver_id":"dep.near","amount":"5","msg":""}`)
	action := functionCallAction("ft_transfer_call", args, ftTransferGas, oneYocto)

	assert.Equal(t, byte(actionFunctionCall), action.ordinal)

	payload := action.payload
	methodLen := binary.LittleEndian.Uint32(payload[:4])
	assert.Equal(t, uint32(len("ft_transfer_call")), methodLen)
	assert.Equal(t, "ft_transfer_call", string(payload[4:4+methodLen]))

	rest := payload[4+methodLen:]
	argsLen := binary.LittleEndian.Uint32(rest[:4])
	assert.Equal(t, uint32(len(args)), argsLen)
	assert.Equal(t, args, rest[4:4+argsLen])

	rest = rest[4+argsLen:]
	assert.Equal(t, ftTransferGas, binary.LittleEndian.Uint64(rest[:8]))

	deposit := rest[8:]
	require.Len(t, deposit, 16)
	assert.Equal(t, byte(1), deposit[0], "one yoctoNEAR, little-endian")
}

func TestNearTransactionBorsh(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	tx := nearTransaction{
		SignerID:   "alice.near",
		PublicKey:  pub,
		Nonce:      42,
		ReceiverID: "wrap.near",
		BlockHash:  [32]byte{1, 2, 3},
		Actions:    []nearAction{transferAction(big.NewInt(7))},
	}

	data, err := tx.borsh()
	require.NoError(t, err)

	// signer id
	assert.Equal(t, uint32(len("alice.near")), binary.LittleEndian.Uint32(data[:4]))
	offset := 4 + len("alice.near")
	assert.Equal(t, "alice.near", string(data[4:offset]))
	// key type + public key
	assert.Equal(t, byte(0), data[offset])
	assert.Equal(t, []byte(pub), data[offset+1:offset+1+ed25519.PublicKeySize])
	offset += 1 + ed25519.PublicKeySize
	// nonce
	assert.Equal(t, uint64(42), binary.LittleEndian.Uint64(data[offset:offset+8]))
	offset += 8
	// receiver id
	assert.Equal(t, uint32(len("wrap.near")), binary.LittleEndian.Uint32(data[offset:offset+4]))
	offset += 4 + len("wrap.near")
	// block hash
	assert.Equal(t, byte(1), data[offset])
	offset += 32
	// action count then ordinal
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[offset:offset+4]))
	assert.Equal(t, byte(actionTransfer), data[offset+4])
}

func TestNearTransactionBorsh_RejectsBadKey(t *testing.T) {
	tx := nearTransaction{SignerID: "a.near", PublicKey: []byte{1, 2, 3}}
	_, err := tx.borsh()
	assert.Error(t, err)
}
