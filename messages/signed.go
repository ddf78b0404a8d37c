package messages

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

// SignerRecoverer maps a payload's canonical bytes and a signature back
// to the address that produced the signature. Key management and
// signature primitives live entirely behind this interface; the
// concrete secp256k1 implementation lives in the sibling recovery
// package.
type SignerRecoverer interface {
	RecoverSigner(payloadBytes []byte, signature Signature) (Address, error)
}

// SignedData wraps any payload with a signature. Sender is a derived
// attribute, computed by recovering the signer over the canonical RLP
// encoding of Payload: two equal (Payload, Signature) pairs always
// recover to the same sender, since encoding and recovery are both
// deterministic.
type SignedData[P any] struct {
	Payload   P
	Signature Signature
}

// Sender recovers the signer address over the canonical encoding of
// the wrapped payload. It never caches: the type is a plain immutable
// value, and recomputing keeps SignedData safe to share across
// goroutines without synchronization.
func (s SignedData[P]) Sender(recoverer SignerRecoverer) (Address, error) {
	payloadBytes, err := rlp.EncodeToBytes(s.Payload)
	if err != nil {
		return Address{}, fmt.Errorf("messages: encode payload for recovery: %w", err)
	}

	return recoverer.RecoverSigner(payloadBytes, s.Signature)
}

// wireEnvelope is the [payload_list, signature] two-field list actually
// placed on the wire per message type.
type wireEnvelope[P any] struct {
	Payload   P
	Signature Signature
}

func toWireEnvelope[P any](s SignedData[P]) wireEnvelope[P] {
	return wireEnvelope[P]{Payload: s.Payload, Signature: s.Signature}
}

func fromWireEnvelope[P any](w wireEnvelope[P]) SignedData[P] {
	return SignedData[P]{Payload: w.Payload, Signature: w.Signature}
}
