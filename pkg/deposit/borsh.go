package deposit

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"fmt"
	"math/big"
)

// NEAR transactions are Borsh-serialized before signing: little-endian fixed
// integers, u32-length-prefixed strings and byte slices, u8 enum ordinals.

// Action ordinals in the NEAR protocol's Action enum.
const (
	actionFunctionCall = 2
	actionTransfer     = 3
)

// nearAction is one already-encoded action payload plus its enum ordinal.
type nearAction struct {
	ordinal byte
	payload []byte
}

// transferAction encodes a native transfer of the given yoctoNEAR amount.
func transferAction(deposit *big.Int) nearAction {
	buf := new(bytes.Buffer)
	writeU128(buf, deposit)
	return nearAction{ordinal: actionTransfer, payload: buf.Bytes()}
}

// functionCallAction encodes a contract call with attached gas and deposit.
func functionCallAction(method string, args []byte, gas uint64, deposit *big.Int) nearAction {
	buf := new(bytes.Buffer)
	writeString(buf, method)
	writeBytes(buf, args)
	binary.Write(buf, binary.LittleEndian, gas)
	writeU128(buf, deposit)
	return nearAction{ordinal: actionFunctionCall, payload: buf.Bytes()}
}

// nearTransaction is the unsigned transaction body.
type nearTransaction struct {
	SignerID   string
	PublicKey  ed25519.PublicKey
	Nonce      uint64
	ReceiverID string
	BlockHash  [32]byte
	Actions    []nearAction
}

// borsh serializes the transaction for signing.
func (t *nearTransaction) borsh() ([]byte, error) {
	if len(t.PublicKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid public key length: %d", len(t.PublicKey))
	}

	buf := new(bytes.Buffer)
	writeString(buf, t.SignerID)
	buf.WriteByte(0) // ed25519 key type
	buf.Write(t.PublicKey)
	binary.Write(buf, binary.LittleEndian, t.Nonce)
	writeString(buf, t.ReceiverID)
	buf.Write(t.BlockHash[:])

	binary.Write(buf, binary.LittleEndian, uint32(len(t.Actions)))
	for _, a := range t.Actions {
		buf.WriteByte(a.ordinal)
		buf.Write(a.payload)
	}

	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.LittleEndian, uint32(len(s)))
	buf.WriteString(s)
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	binary.Write(buf, binary.LittleEndian, uint32(len(b)))
	buf.Write(b)
}

// writeU128 writes a non-negative big.Int as a 16-byte little-endian value.
func writeU128(buf *bytes.Buffer, v *big.Int) {
	var out [16]byte
	v.FillBytes(out[:])
	// FillBytes is big-endian; reverse into little-endian.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	buf.Write(out[:])
}
