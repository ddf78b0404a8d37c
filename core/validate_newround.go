package core

import (
	"time"

	"github.com/ibft2/validation/messages"
)

// ValidateNewRound is the composite root validator for a NewRound
// message: proposer origin, height binding, embedded proposal, the
// round-change certificate backing the move, and finally the block's
// consistency with whatever was already prepared. Checks short-circuit
// in order so the returned error always names the earliest failing
// clause.
func ValidateNewRound(
	ctx *ValidationContext,
	msg messages.SignedData[messages.NewRoundPayload],
) *ValidationError {
	defer ctx.observeLatency(time.Now())

	target := msg.Payload.RoundChangeIdentifier

	sender, err := msg.Sender(ctx.Recoverer)
	if err != nil {
		return ctx.reject(messages.MessageTypeNewRound, target, sender,
			wrapErr(ErrInvalidSignature, "recover new-round sender", err))
	}

	if !ctx.isValidator(sender) {
		return ctx.reject(messages.MessageTypeNewRound, target, sender,
			newErr(ErrUnknownSigner, "new-round sender is not a validator"))
	}

	// 1. Proposer origin.
	proposer, err := ctx.proposerFor(target)
	if err != nil {
		return ctx.reject(messages.MessageTypeNewRound, target, sender,
			wrapErr(ErrWrongProposer, "resolve expected proposer", err))
	}

	if sender != proposer {
		return ctx.reject(messages.MessageTypeNewRound, target, sender,
			newErr(ErrWrongProposer, "sender is not the proposer for the round-change identifier"))
	}

	// 2. Height binding.
	if target.SequenceNumber != ctx.ChainHeight {
		return ctx.reject(messages.MessageTypeNewRound, target, sender,
			newErr(ErrWrongHeight, "round-change identifier sequence number does not match local chain height"))
	}

	// 3. Non-trivial round.
	if target.RoundNumber == 0 {
		return ctx.reject(messages.MessageTypeNewRound, target, sender,
			newErr(ErrIllegalRoundZero, "new-round targets round zero"))
	}

	// 4. Embedded proposal origin.
	proposalSender, err := msg.Payload.Proposal.Sender(ctx.Recoverer)
	if err != nil {
		return ctx.reject(messages.MessageTypeNewRound, target, sender,
			wrapErr(ErrInvalidSignature, "recover embedded proposal sender", err))
	}

	if proposalSender != sender {
		return ctx.reject(messages.MessageTypeNewRound, target, sender,
			newErr(ErrEmbeddedMismatch, "embedded proposal sender does not match new-round sender"))
	}

	// 5. Embedded proposal round.
	if !msg.Payload.Proposal.Payload.RoundIdentifier.Equal(target) {
		return ctx.reject(messages.MessageTypeNewRound, target, sender,
			newErr(ErrEmbeddedMismatch, "embedded proposal round identifier does not match round-change identifier"))
	}

	if _, verr := ctx.checkProposal(msg.Payload.Proposal, target); verr != nil {
		return ctx.reject(messages.MessageTypeNewRound, target, sender, verr)
	}

	// 6. Round-change certificate.
	payloads := msg.Payload.RoundChangeCertificate.Payloads

	if len(payloads) < ctx.QuorumSize {
		return ctx.reject(messages.MessageTypeNewRound, target, sender,
			newErr(ErrInsufficientQuorum, "round-change certificate has fewer than quorum_size payloads"))
	}

	senders := make([]messages.Address, 0, len(payloads))

	for _, rc := range payloads {
		if !rc.Payload.RoundChangeIdentifier.Equal(target) {
			return ctx.reject(messages.MessageTypeNewRound, target, sender,
				newErr(ErrInconsistentCertificate, "round-change certificate payload targets a different round"))
		}

		rcSender, err := rc.Sender(ctx.Recoverer)
		if err != nil {
			return ctx.reject(messages.MessageTypeNewRound, target, sender,
				wrapErr(ErrInvalidSignature, "recover round-change payload sender", err))
		}

		// The round-change checks run here rather than through
		// ValidateRoundChange: an embedded round-change is evidence for
		// this NewRound, not a standalone message, so it must not emit its
		// own accept/reject event, outcome count or latency sample.
		if !ctx.isValidator(rcSender) {
			return ctx.reject(messages.MessageTypeNewRound, target, sender,
				newErr(ErrUnknownSigner, "round-change payload sender is not a validator"))
		}

		if pc := rc.Payload.PreparedCertificate; pc != nil {
			if verr := ctx.validatePreparedCertificate(*pc, target); verr != nil {
				return ctx.reject(messages.MessageTypeNewRound, target, sender, verr)
			}
		}

		senders = append(senders, rcSender)
	}

	if !messages.HasUniqueSenders(senders) {
		return ctx.reject(messages.MessageTypeNewRound, target, sender,
			newErr(ErrInconsistentCertificate, "round-change certificate has duplicate senders"))
	}

	// 7. Block matches latest prepared.
	latest, ok, err := messages.SelectLatestPreparedCertificate(ctx.Recoverer, payloads)
	if err != nil {
		return ctx.reject(messages.MessageTypeNewRound, target, sender,
			wrapErr(ErrPreparedCertificateInvalid, "select latest prepared certificate", err))
	}

	if ok {
		latestHash := latest.Proposal.Payload.Block.Hash()
		proposedHash := msg.Payload.Proposal.Payload.Block.Hash()

		if latestHash != proposedHash {
			return ctx.reject(messages.MessageTypeNewRound, target, sender,
				newErr(ErrBlockMismatchWithLatestPrepared,
					"proposed block does not match the latest prepared block"))
		}
	}

	ctx.accept(messages.MessageTypeNewRound, target, sender)

	return nil
}
