package core

import (
	"time"

	"github.com/ibft2/validation/messages"
)

// ValidateRoundChange accepts a RoundChange message against target iff
// its sender is a validator, it targets target exactly, and — if it
// carries a PreparedCertificate — that certificate is internally
// consistent and prepared at a round strictly earlier than target.
func ValidateRoundChange(
	ctx *ValidationContext,
	msg messages.SignedData[messages.RoundChangePayload],
	target messages.ConsensusRoundIdentifier,
) *ValidationError {
	defer ctx.observeLatency(time.Now())

	sender, err := msg.Sender(ctx.Recoverer)
	if err != nil {
		return ctx.reject(messages.MessageTypeRoundChange, target, sender,
			wrapErr(ErrInvalidSignature, "recover round-change sender", err))
	}

	if !ctx.isValidator(sender) {
		return ctx.reject(messages.MessageTypeRoundChange, target, sender,
			newErr(ErrUnknownSigner, "round-change sender is not a validator"))
	}

	if !msg.Payload.RoundChangeIdentifier.Equal(target) {
		return ctx.reject(messages.MessageTypeRoundChange, target, sender,
			newErr(ErrEmbeddedMismatch, "round-change identifier does not match target round"))
	}

	pc := msg.Payload.PreparedCertificate
	if pc == nil {
		ctx.accept(messages.MessageTypeRoundChange, target, sender)

		return nil
	}

	if verr := ctx.validatePreparedCertificate(*pc, target); verr != nil {
		return ctx.reject(messages.MessageTypeRoundChange, target, sender, verr)
	}

	ctx.accept(messages.MessageTypeRoundChange, target, sender)

	return nil
}

// validatePreparedCertificate runs the nested checks a
// PreparedCertificate embedded in a RoundChange must satisfy against
// the round-change's target round. It never calls
// ctx.reject/ctx.accept itself — those belong to the message-level
// caller (RoundChange or NewRound validation), since a certificate is
// not a message in its own right.
func (c *ValidationContext) validatePreparedCertificate(
	pc messages.PreparedCertificate,
	target messages.ConsensusRoundIdentifier,
) *ValidationError {
	preparedRound := pc.Proposal.Payload.RoundIdentifier

	if preparedRound.SequenceNumber != target.SequenceNumber {
		return newErr(ErrPreparedCertificateInvalid,
			"prepared certificate sequence number does not match target sequence number")
	}

	if preparedRound.RoundNumber >= target.RoundNumber {
		return newErr(ErrPreparedCertificateInvalid,
			"prepared certificate round is not strictly earlier than the target round")
	}

	// checkProposal enforces sender == proposer_for(preparedRound) on its
	// own, so the prepared proposal's proposer identity needs no separate
	// check here.
	if _, verr := c.checkProposal(pc.Proposal, preparedRound); verr != nil {
		return wrapErr(ErrPreparedCertificateInvalid, "prepared proposal is invalid", verr)
	}

	if len(pc.Prepares) < c.QuorumSize-1 {
		return newErr(ErrInsufficientQuorum,
			"prepared certificate has fewer than quorum_size - 1 prepares")
	}

	blockHash := pc.Proposal.Payload.Block.Hash()

	senders := make([]messages.Address, 0, len(pc.Prepares))

	for _, prepare := range pc.Prepares {
		// checkPrepare rejects a prepare sent by the round's proposer, so
		// the "proposer may not also prepare" rule falls out for free.
		prepareSender, verr := c.checkPrepare(prepare, preparedRound, blockHash)
		if verr != nil {
			return wrapErr(ErrPreparedCertificateInvalid, "prepared certificate prepare is invalid", verr)
		}

		senders = append(senders, prepareSender)
	}

	if !messages.HasUniqueSenders(senders) {
		return newErr(ErrInconsistentCertificate, "prepared certificate has duplicate prepare senders")
	}

	return nil
}
