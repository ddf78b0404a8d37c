package core

import (
	"time"

	"github.com/ibft2/validation/messages"
)

// ValidateProposal accepts a Proposal iff its sender is a validator,
// the sender is the expected proposer for round, the payload's round
// identifier matches round exactly, and the block's header number
// equals round.SequenceNumber.
func ValidateProposal(
	ctx *ValidationContext,
	msg messages.SignedData[messages.ProposalPayload],
	round messages.ConsensusRoundIdentifier,
) *ValidationError {
	defer ctx.observeLatency(time.Now())

	sender, verr := ctx.checkProposal(msg, round)
	if verr != nil {
		return ctx.reject(messages.MessageTypeProposal, round, sender, verr)
	}

	ctx.accept(messages.MessageTypeProposal, round, sender)

	return nil
}

// checkProposal is the side-effect-free core of ValidateProposal,
// shared with the embedded-proposal checks inside RoundChange and
// NewRound validation, which must not each emit their own top-level
// accept/reject event for what is not a standalone message.
func (c *ValidationContext) checkProposal(
	msg messages.SignedData[messages.ProposalPayload],
	round messages.ConsensusRoundIdentifier,
) (messages.Address, *ValidationError) {
	sender, err := msg.Sender(c.Recoverer)
	if err != nil {
		return sender, wrapErr(ErrInvalidSignature, "recover proposal sender", err)
	}

	if !c.isValidator(sender) {
		return sender, newErr(ErrUnknownSigner, "proposal sender is not a validator")
	}

	proposer, err := c.proposerFor(round)
	if err != nil {
		return sender, wrapErr(ErrWrongProposer, "resolve expected proposer", err)
	}

	if sender != proposer {
		return sender, newErr(ErrWrongProposer, "sender is not the proposer for this round")
	}

	if !msg.Payload.RoundIdentifier.Equal(round) {
		return sender, newErr(ErrEmbeddedMismatch, "proposal round identifier does not match expected round")
	}

	if msg.Payload.Block.Number() != round.SequenceNumber {
		return sender, newErr(ErrEmbeddedMismatch, "block header number does not match sequence number")
	}

	return sender, nil
}

// ValidatePrepare accepts a Prepare iff its sender is a validator, the
// sender is NOT the proposer for round (a proposer implicitly prepares
// by proposing), the payload's round identifier matches round, and the
// digest matches the expected proposal's block hash.
func ValidatePrepare(
	ctx *ValidationContext,
	msg messages.SignedData[messages.PreparePayload],
	round messages.ConsensusRoundIdentifier,
	expectedDigest messages.Digest,
) *ValidationError {
	defer ctx.observeLatency(time.Now())

	sender, verr := ctx.checkPrepare(msg, round, expectedDigest)
	if verr != nil {
		return ctx.reject(messages.MessageTypePrepare, round, sender, verr)
	}

	ctx.accept(messages.MessageTypePrepare, round, sender)

	return nil
}

// checkPrepare is the side-effect-free core of ValidatePrepare, shared
// with the prepared-certificate prepare checks inside RoundChange
// validation.
func (c *ValidationContext) checkPrepare(
	msg messages.SignedData[messages.PreparePayload],
	round messages.ConsensusRoundIdentifier,
	expectedDigest messages.Digest,
) (messages.Address, *ValidationError) {
	sender, err := msg.Sender(c.Recoverer)
	if err != nil {
		return sender, wrapErr(ErrInvalidSignature, "recover prepare sender", err)
	}

	if !c.isValidator(sender) {
		return sender, newErr(ErrUnknownSigner, "prepare sender is not a validator")
	}

	proposer, err := c.proposerFor(round)
	if err != nil {
		return sender, wrapErr(ErrWrongProposer, "resolve expected proposer", err)
	}

	if sender == proposer {
		return sender, newErr(ErrWrongProposer, "proposer may not send an explicit prepare")
	}

	if !msg.Payload.RoundIdentifier.Equal(round) {
		return sender, newErr(ErrEmbeddedMismatch, "prepare round identifier does not match expected round")
	}

	if msg.Payload.ProposalDigest != expectedDigest {
		return sender, newErr(ErrEmbeddedMismatch, "prepare digest does not match the expected proposal")
	}

	return sender, nil
}

// ValidateCommit accepts a Commit iff its sender is a validator, the
// payload's round identifier matches round, the digest matches, and
// the commit seal is a valid signature by sender over the block's
// committed-seal hash.
func ValidateCommit(
	ctx *ValidationContext,
	msg messages.SignedData[messages.CommitPayload],
	round messages.ConsensusRoundIdentifier,
	expectedDigest messages.Digest,
	sealHash messages.Digest,
) *ValidationError {
	defer ctx.observeLatency(time.Now())

	sender, err := msg.Sender(ctx.Recoverer)
	if err != nil {
		return ctx.reject(messages.MessageTypeCommit, round, sender,
			wrapErr(ErrInvalidSignature, "recover commit sender", err))
	}

	if !ctx.isValidator(sender) {
		return ctx.reject(messages.MessageTypeCommit, round, sender,
			newErr(ErrUnknownSigner, "commit sender is not a validator"))
	}

	if !msg.Payload.RoundIdentifier.Equal(round) {
		return ctx.reject(messages.MessageTypeCommit, round, sender,
			newErr(ErrEmbeddedMismatch, "commit round identifier does not match expected round"))
	}

	if msg.Payload.ProposalDigest != expectedDigest {
		return ctx.reject(messages.MessageTypeCommit, round, sender,
			newErr(ErrEmbeddedMismatch, "commit digest does not match the expected proposal"))
	}

	sealSigner, err := ctx.Recoverer.RecoverSigner(sealHash[:], msg.Payload.CommitSeal)
	if err != nil {
		return ctx.reject(messages.MessageTypeCommit, round, sender,
			wrapErr(ErrInvalidSignature, "recover committed seal signer", err))
	}

	if sealSigner != sender {
		return ctx.reject(messages.MessageTypeCommit, round, sender,
			newErr(ErrInvalidSignature, "committed seal is not signed by the sender"))
	}

	ctx.accept(messages.MessageTypeCommit, round, sender)

	return nil
}
