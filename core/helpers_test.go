package core

import "github.com/ibft2/validation/messages"

// addressRecoverer implements messages.SignerRecoverer by lifting the
// address directly out of the signature bytes, so tests can construct
// arbitrary signer scenarios without real ECDSA key material. The real
// secp256k1 path is exercised in the recovery package.
type addressRecoverer struct{}

func (addressRecoverer) RecoverSigner(_ []byte, sig messages.Signature) (messages.Address, error) {
	var addr messages.Address
	copy(addr[:], sig[:messages.AddressLength])

	return addr, nil
}

func sigFor(addr messages.Address) messages.Signature {
	var sig messages.Signature
	copy(sig[:], addr[:])

	return sig
}

func testValidators() []messages.Address {
	return []messages.Address{{'A'}, {'B'}, {'C'}, {'D'}}
}

func testContext(validators []messages.Address, quorum int, height uint64) *ValidationContext {
	return &ValidationContext{
		Validators:  validators,
		QuorumSize:  quorum,
		ChainHeight: height,
		Proposer:    RoundRobinProposerSelector{},
		Recoverer:   addressRecoverer{},
		Log:         NopLogger{},
	}
}
