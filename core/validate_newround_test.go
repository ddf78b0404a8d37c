package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/ibft2/validation/messages"
)

// The fixtures below use a fixed scenario throughout:
// V = [A, B, C, D], quorum_size = 3, local_chain_height = 10, and
// proposer_for((h, r)) = V[(h + r) mod 4].

func scenarioContext() (*ValidationContext, []messages.Address) {
	validators := testValidators() // A, B, C, D
	return testContext(validators, 3, 10), validators
}

func roundChangeNoCertificate(target messages.ConsensusRoundIdentifier, sender messages.Address) messages.SignedData[messages.RoundChangePayload] {
	return messages.SignedData[messages.RoundChangePayload]{
		Payload:   messages.RoundChangePayload{RoundChangeIdentifier: target},
		Signature: sigFor(sender),
	}
}

func TestValidateNewRound_HappyPathNoPreparedCertificate(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, validators := scenarioContext()
	a, b, c := validators[0], validators[1], validators[2]

	target := messages.ConsensusRoundIdentifier{SequenceNumber: 10, RoundNumber: 2} // proposer = A

	proposal := messages.SignedData[messages.ProposalPayload]{
		Payload: messages.ProposalPayload{
			RoundIdentifier: target,
			Block:           messages.BlockPayload{BlockNumber: 10, BlockHash: messages.Digest{'X'}},
		},
		Signature: sigFor(a),
	}

	msg := messages.SignedData[messages.NewRoundPayload]{
		Payload: messages.NewRoundPayload{
			RoundChangeIdentifier: target,
			RoundChangeCertificate: messages.RoundChangeCertificate{
				Payloads: []messages.SignedData[messages.RoundChangePayload]{
					roundChangeNoCertificate(target, a),
					roundChangeNoCertificate(target, b),
					roundChangeNoCertificate(target, c),
				},
			},
			Proposal: proposal,
		},
		Signature: sigFor(a),
	}

	assert.Nil(t, ValidateNewRound(ctx, msg))
}

func TestValidateNewRound_HappyPathWithLatestPrepared(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, validators := scenarioContext()
	a, b, c := validators[0], validators[1], validators[2]

	target := messages.ConsensusRoundIdentifier{SequenceNumber: 10, RoundNumber: 2} // proposer = A
	preparedRound := messages.ConsensusRoundIdentifier{SequenceNumber: 10, RoundNumber: 1}

	blockX := messages.Digest{'X'}

	// B's round-change carries a prepared certificate for block X at
	// round (10,1) with prepares from A and C. The proposer of round
	// (10,1) is V[(10+1) mod 4] = V[3] = D, so the certificate's
	// proposal must be signed by D and its prepares must exclude D.
	pc := preparedCertificateFixture(ctx, preparedRound, blockX, []messages.Address{a, c})

	proposal := messages.SignedData[messages.ProposalPayload]{
		Payload: messages.ProposalPayload{
			RoundIdentifier: target,
			Block:           messages.BlockPayload{BlockNumber: 10, BlockHash: blockX},
		},
		Signature: sigFor(a),
	}

	msg := messages.SignedData[messages.NewRoundPayload]{
		Payload: messages.NewRoundPayload{
			RoundChangeIdentifier: target,
			RoundChangeCertificate: messages.RoundChangeCertificate{
				Payloads: []messages.SignedData[messages.RoundChangePayload]{
					roundChangeNoCertificate(target, a),
					{
						Payload: messages.RoundChangePayload{
							RoundChangeIdentifier: target,
							PreparedCertificate:   &pc,
						},
						Signature: sigFor(b),
					},
					roundChangeNoCertificate(target, c),
				},
			},
			Proposal: proposal,
		},
		Signature: sigFor(a),
	}

	assert.Nil(t, ValidateNewRound(ctx, msg))
}

func TestValidateNewRound_BlockMismatchWithLatestPrepared(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, validators := scenarioContext()
	a, b, c := validators[0], validators[1], validators[2]

	target := messages.ConsensusRoundIdentifier{SequenceNumber: 10, RoundNumber: 2}
	preparedRound := messages.ConsensusRoundIdentifier{SequenceNumber: 10, RoundNumber: 1}

	blockX := messages.Digest{'X'}
	blockY := messages.Digest{'Y'}

	pc := preparedCertificateFixture(ctx, preparedRound, blockX, []messages.Address{a, c})

	proposal := messages.SignedData[messages.ProposalPayload]{
		Payload: messages.ProposalPayload{
			RoundIdentifier: target,
			Block:           messages.BlockPayload{BlockNumber: 10, BlockHash: blockY},
		},
		Signature: sigFor(a),
	}

	msg := messages.SignedData[messages.NewRoundPayload]{
		Payload: messages.NewRoundPayload{
			RoundChangeIdentifier: target,
			RoundChangeCertificate: messages.RoundChangeCertificate{
				Payloads: []messages.SignedData[messages.RoundChangePayload]{
					roundChangeNoCertificate(target, a),
					{
						Payload: messages.RoundChangePayload{
							RoundChangeIdentifier: target,
							PreparedCertificate:   &pc,
						},
						Signature: sigFor(b),
					},
					roundChangeNoCertificate(target, c),
				},
			},
			Proposal: proposal,
		},
		Signature: sigFor(a),
	}

	err := ValidateNewRound(ctx, msg)
	assertKind(t, err, ErrBlockMismatchWithLatestPrepared)
}

func TestValidateNewRound_WrongProposer(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, validators := scenarioContext()
	a, b, c := validators[0], validators[1], validators[2]

	target := messages.ConsensusRoundIdentifier{SequenceNumber: 10, RoundNumber: 2} // proposer = A

	proposal := messages.SignedData[messages.ProposalPayload]{
		Payload: messages.ProposalPayload{
			RoundIdentifier: target,
			Block:           messages.BlockPayload{BlockNumber: 10, BlockHash: messages.Digest{'X'}},
		},
		Signature: sigFor(b),
	}

	msg := messages.SignedData[messages.NewRoundPayload]{
		Payload: messages.NewRoundPayload{
			RoundChangeIdentifier: target,
			RoundChangeCertificate: messages.RoundChangeCertificate{
				Payloads: []messages.SignedData[messages.RoundChangePayload]{
					roundChangeNoCertificate(target, a),
					roundChangeNoCertificate(target, b),
					roundChangeNoCertificate(target, c),
				},
			},
			Proposal: proposal,
		},
		Signature: sigFor(b), // outer message signed by B, not the expected proposer A
	}

	err := ValidateNewRound(ctx, msg)
	assertKind(t, err, ErrWrongProposer)
}

func TestValidateNewRound_InsufficientQuorum(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, validators := scenarioContext()
	a, b := validators[0], validators[1]

	target := messages.ConsensusRoundIdentifier{SequenceNumber: 10, RoundNumber: 2}

	proposal := messages.SignedData[messages.ProposalPayload]{
		Payload: messages.ProposalPayload{
			RoundIdentifier: target,
			Block:           messages.BlockPayload{BlockNumber: 10, BlockHash: messages.Digest{'X'}},
		},
		Signature: sigFor(a),
	}

	msg := messages.SignedData[messages.NewRoundPayload]{
		Payload: messages.NewRoundPayload{
			RoundChangeIdentifier: target,
			RoundChangeCertificate: messages.RoundChangeCertificate{
				Payloads: []messages.SignedData[messages.RoundChangePayload]{
					roundChangeNoCertificate(target, a),
					roundChangeNoCertificate(target, b),
				},
			},
			Proposal: proposal,
		},
		Signature: sigFor(a),
	}

	err := ValidateNewRound(ctx, msg)
	assertKind(t, err, ErrInsufficientQuorum)
}

func TestValidateNewRound_MixedPreparedCertificatesRejectsFutureRound(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, validators := scenarioContext()
	a, b, c := validators[0], validators[1], validators[2]

	target := messages.ConsensusRoundIdentifier{SequenceNumber: 10, RoundNumber: 2}
	impossibleRound := messages.ConsensusRoundIdentifier{SequenceNumber: 10, RoundNumber: 3}

	blockX := messages.Digest{'X'}

	// A prepared certificate claiming round (10,3) can never be valid
	// evidence for a round-change targeting (10,2): the prepared round
	// must be strictly earlier than the target.
	pc := preparedCertificateFixture(ctx, impossibleRound, blockX, []messages.Address{a, c})

	proposal := messages.SignedData[messages.ProposalPayload]{
		Payload: messages.ProposalPayload{
			RoundIdentifier: target,
			Block:           messages.BlockPayload{BlockNumber: 10, BlockHash: blockX},
		},
		Signature: sigFor(a),
	}

	msg := messages.SignedData[messages.NewRoundPayload]{
		Payload: messages.NewRoundPayload{
			RoundChangeIdentifier: target,
			RoundChangeCertificate: messages.RoundChangeCertificate{
				Payloads: []messages.SignedData[messages.RoundChangePayload]{
					roundChangeNoCertificate(target, a),
					{
						Payload: messages.RoundChangePayload{
							RoundChangeIdentifier: target,
							PreparedCertificate:   &pc,
						},
						Signature: sigFor(b),
					},
					roundChangeNoCertificate(target, c),
				},
			},
			Proposal: proposal,
		},
		Signature: sigFor(a),
	}

	err := ValidateNewRound(ctx, msg)
	assertKind(t, err, ErrPreparedCertificateInvalid)
}

func TestValidateNewRound_RejectsRoundZero(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, validators := scenarioContext()
	a, b, c := validators[0], validators[1], validators[2]

	// proposer_for((10, 0)) = V[10 mod 4] = V[2] = C.
	target := messages.ConsensusRoundIdentifier{SequenceNumber: 10, RoundNumber: 0}

	proposal := messages.SignedData[messages.ProposalPayload]{
		Payload: messages.ProposalPayload{
			RoundIdentifier: target,
			Block:           messages.BlockPayload{BlockNumber: 10, BlockHash: messages.Digest{'X'}},
		},
		Signature: sigFor(c),
	}

	msg := messages.SignedData[messages.NewRoundPayload]{
		Payload: messages.NewRoundPayload{
			RoundChangeIdentifier: target,
			RoundChangeCertificate: messages.RoundChangeCertificate{
				Payloads: []messages.SignedData[messages.RoundChangePayload]{
					roundChangeNoCertificate(target, a),
					roundChangeNoCertificate(target, b),
					roundChangeNoCertificate(target, c),
				},
			},
			Proposal: proposal,
		},
		Signature: sigFor(c),
	}

	err := ValidateNewRound(ctx, msg)
	assertKind(t, err, ErrIllegalRoundZero)
}

func TestValidateNewRound_RejectsDuplicateRoundChangeSenders(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, validators := scenarioContext()
	a, b := validators[0], validators[1]

	target := messages.ConsensusRoundIdentifier{SequenceNumber: 10, RoundNumber: 2}

	proposal := messages.SignedData[messages.ProposalPayload]{
		Payload: messages.ProposalPayload{
			RoundIdentifier: target,
			Block:           messages.BlockPayload{BlockNumber: 10, BlockHash: messages.Digest{'X'}},
		},
		Signature: sigFor(a),
	}

	msg := messages.SignedData[messages.NewRoundPayload]{
		Payload: messages.NewRoundPayload{
			RoundChangeIdentifier: target,
			RoundChangeCertificate: messages.RoundChangeCertificate{
				Payloads: []messages.SignedData[messages.RoundChangePayload]{
					roundChangeNoCertificate(target, a),
					roundChangeNoCertificate(target, b),
					roundChangeNoCertificate(target, b),
				},
			},
			Proposal: proposal,
		},
		Signature: sigFor(a),
	}

	err := ValidateNewRound(ctx, msg)
	assertKind(t, err, ErrInconsistentCertificate)
}

func TestValidateNewRound_RejectsWrongHeight(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, validators := scenarioContext()
	a, b, c := validators[0], validators[1], validators[2]

	// Target sequence number 11 does not match ctx.ChainHeight of 10.
	target := messages.ConsensusRoundIdentifier{SequenceNumber: 11, RoundNumber: 2}
	proposer, _ := ctx.proposerFor(target)

	proposal := messages.SignedData[messages.ProposalPayload]{
		Payload: messages.ProposalPayload{
			RoundIdentifier: target,
			Block:           messages.BlockPayload{BlockNumber: 11, BlockHash: messages.Digest{'X'}},
		},
		Signature: sigFor(proposer),
	}

	msg := messages.SignedData[messages.NewRoundPayload]{
		Payload: messages.NewRoundPayload{
			RoundChangeIdentifier: target,
			RoundChangeCertificate: messages.RoundChangeCertificate{
				Payloads: []messages.SignedData[messages.RoundChangePayload]{
					roundChangeNoCertificate(target, a),
					roundChangeNoCertificate(target, b),
					roundChangeNoCertificate(target, c),
				},
			},
			Proposal: proposal,
		},
		Signature: sigFor(proposer),
	}

	err := ValidateNewRound(ctx, msg)
	assertKind(t, err, ErrWrongHeight)
}
