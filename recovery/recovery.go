// Package recovery provides the default secp256k1 implementation of the
// recover_signer collaborator: hash the canonical payload bytes with
// Keccak256, recover the public key from the signature, and derive the
// address.
package recovery

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ibft2/validation/messages"
)

// Recoverer implements messages.SignerRecoverer using go-ethereum's
// secp256k1 crypto primitives.
type Recoverer struct{}

// New returns a Recoverer. It carries no state: recovery is a pure
// function of (payload bytes, signature).
func New() Recoverer {
	return Recoverer{}
}

// RecoverSigner implements messages.SignerRecoverer.
func (Recoverer) RecoverSigner(payloadBytes []byte, signature messages.Signature) (messages.Address, error) {
	digest := crypto.Keccak256(payloadBytes)

	pubKey, err := crypto.SigToPub(digest, signature[:])
	if err != nil {
		return messages.Address{}, fmt.Errorf("recovery: recover public key: %w", err)
	}

	var addr messages.Address
	copy(addr[:], crypto.PubkeyToAddress(*pubKey).Bytes())

	return addr, nil
}

var _ messages.SignerRecoverer = Recoverer{}
