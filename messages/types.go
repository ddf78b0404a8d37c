// Package messages defines the IBFT 2.0 wire payloads, their canonical
// binary encoding, and the signed envelope that wraps every payload
// crossing the network.
package messages

import (
	"bytes"
	"fmt"
)

// AddressLength is the fixed byte width of a validator address.
const AddressLength = 20

// DigestLength is the fixed byte width of a block hash / digest.
const DigestLength = 32

// SignatureLength is the fixed byte width of an r‖s‖v signature.
const SignatureLength = 65

// Address identifies a validator.
type Address [AddressLength]byte

// String renders the address as a 0x-prefixed hex string.
func (a Address) String() string {
	return fmt.Sprintf("0x%x", a[:])
}

// IsZero reports whether the address is the zero value.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Less orders addresses lexicographically by their bytes. Used to
// deterministically break ties between prepared certificates that
// target the same round.
func (a Address) Less(other Address) bool {
	return bytes.Compare(a[:], other[:]) < 0
}

// Digest is a 32-byte block hash or commit-seal hash.
type Digest [DigestLength]byte

// Signature is a 65-byte r‖s‖v ECDSA signature.
type Signature [SignatureLength]byte

// ConsensusRoundIdentifier is the pair (sequence_number, round_number)
// that names a single attempt to agree on a block at a given height.
type ConsensusRoundIdentifier struct {
	SequenceNumber uint64
	RoundNumber    uint64
}

// Equal reports component-wise equality.
func (r ConsensusRoundIdentifier) Equal(other ConsensusRoundIdentifier) bool {
	return r.SequenceNumber == other.SequenceNumber && r.RoundNumber == other.RoundNumber
}

// Less implements the total order: lexicographic by (sequence_number, round_number).
func (r ConsensusRoundIdentifier) Less(other ConsensusRoundIdentifier) bool {
	if r.SequenceNumber != other.SequenceNumber {
		return r.SequenceNumber < other.SequenceNumber
	}

	return r.RoundNumber < other.RoundNumber
}

func (r ConsensusRoundIdentifier) String() string {
	return fmt.Sprintf("(%d, %d)", r.SequenceNumber, r.RoundNumber)
}

// Block is the opaque structure the validator inspects. Only the header
// number and the deterministic hashes are consumed here; block body
// contents, state transition, and parent linkage are the block
// importer's concern, external to this module.
type Block interface {
	// Hash returns the deterministic 32-byte digest of the block.
	Hash() Digest

	// Number returns the block header's height.
	Number() uint64

	// CommittedSealHash returns the digest a commit seal is computed over.
	CommittedSealHash() Digest
}
