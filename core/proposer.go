package core

import "github.com/ibft2/validation/messages"

// ProposerSelector is the pure proposer_for(round_identifier,
// validators) function. The validator set is fixed for a given
// sequence number; a ProposerSelector never needs to re-fetch it
// mid-height.
type ProposerSelector interface {
	ProposerFor(round messages.ConsensusRoundIdentifier, validators []messages.Address) (messages.Address, error)
}

// ErrEmptyValidatorSet is returned by RoundRobinProposerSelector when
// asked to select a proposer from an empty validator set.
var ErrEmptyValidatorSet = newErr(ErrWrongProposer, "validator set is empty")

// RoundRobinProposerSelector selects the proposer by
// index = (sequence_number + round_number) mod |validators|.
type RoundRobinProposerSelector struct{}

// ProposerFor implements ProposerSelector.
func (RoundRobinProposerSelector) ProposerFor(
	round messages.ConsensusRoundIdentifier,
	validators []messages.Address,
) (messages.Address, error) {
	if len(validators) == 0 {
		return messages.Address{}, ErrEmptyValidatorSet
	}

	index := (round.SequenceNumber + round.RoundNumber) % uint64(len(validators))

	return validators[index], nil
}

var _ ProposerSelector = RoundRobinProposerSelector{}
