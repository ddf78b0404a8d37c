// Package backend holds sample collaborator implementations that wire
// the validation core to a concrete chain: a Block, and a
// VotingPowerBackend a real node would back with its staking state.
// None of this is exercised by production code paths; it exists so
// callers (and this module's own tests) have a working example of
// satisfying core's external interfaces.
package backend

import (
	"math/big"

	"github.com/ibft2/validation/messages"
)

// Block is a minimal messages.Block: a header number plus the two
// digests the validation core inspects.
type Block struct {
	number            uint64
	hash              messages.Digest
	committedSealHash messages.Digest
}

// NewBlock builds a Block from its number and digests.
func NewBlock(number uint64, hash, committedSealHash messages.Digest) Block {
	return Block{number: number, hash: hash, committedSealHash: committedSealHash}
}

func (b Block) Hash() messages.Digest              { return b.hash }
func (b Block) Number() uint64                     { return b.number }
func (b Block) CommittedSealHash() messages.Digest { return b.committedSealHash }

var _ messages.Block = Block{}

// StaticVotingPowerBackend is a fixed-power core.VotingPowerBackend for
// deployments that don't change validator weight across heights, such
// as a fixed permissioned set where every validator has equal say.
type StaticVotingPowerBackend struct {
	powers map[messages.Address]*big.Int
}

// NewEqualVotingPowerBackend gives every address in validators equal
// voting power of one, the common case for a permissioned IBFT chain.
func NewEqualVotingPowerBackend(validators []messages.Address) StaticVotingPowerBackend {
	powers := make(map[messages.Address]*big.Int, len(validators))
	for _, addr := range validators {
		powers[addr] = big.NewInt(1)
	}

	return StaticVotingPowerBackend{powers: powers}
}

// GetVotingPowers implements core.VotingPowerBackend.
func (b StaticVotingPowerBackend) GetVotingPowers(uint64) (map[messages.Address]*big.Int, error) {
	return b.powers, nil
}
