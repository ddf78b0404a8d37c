package core

import (
	"fmt"
	"time"

	"github.com/ibft2/validation/messages"
)

// ValidatorSetProvider resolves the ordered validator set at a chain
// height.
type ValidatorSetProvider interface {
	ValidatorsAt(height uint64) ([]messages.Address, error)
}

// QuorumSizeProvider resolves the quorum size at a chain height,
// typically ceil(2n/3)+1 for n validators.
type QuorumSizeProvider interface {
	QuorumSizeAt(height uint64) (int, error)
}

// ChainHeightProvider resolves the local chain height.
type ChainHeightProvider interface {
	LocalChainHeight() (uint64, error)
}

// ValidationContext is the small immutable bundle every validator
// closes over: the resolved validator set, quorum size, and chain
// height for one height, plus the pluggable signer recovery, logging,
// metrics, and event collaborators. It is built once per chain height
// and is safe to share across concurrent validation calls: every field
// is read-only after construction, except the optional Events bus,
// which guards its own state.
type ValidationContext struct {
	// Validators is the ordered validator set for ChainHeight.
	Validators []messages.Address

	// QuorumSize is the minimum number of distinct signatures required
	// to justify progress at ChainHeight.
	QuorumSize int

	// ChainHeight is the local chain height messages are validated against.
	ChainHeight uint64

	// Proposer selects the proposer for a round. Defaults to
	// RoundRobinProposerSelector when constructed via NewValidationContext.
	Proposer ProposerSelector

	// Recoverer recovers a signer address from a payload and signature.
	Recoverer messages.SignerRecoverer

	// Log receives INFO-level rejection events with the failing kind
	// and identifiers. Defaults to NopLogger.
	Log Logger

	// Metrics, if non-nil, records validation outcomes and latency.
	Metrics *Metrics

	// Events, if non-nil, receives one ValidationEvent per terminal
	// accept/reject decision.
	Events *messages.EventBus
}

// NewValidationContext resolves validators, quorum size, and chain
// height from their collaborators and returns a ready-to-use
// ValidationContext with sane ambient defaults (NopLogger,
// RoundRobinProposerSelector, no metrics, no event bus).
func NewValidationContext(
	validatorSet ValidatorSetProvider,
	quorum QuorumSizeProvider,
	chain ChainHeightProvider,
	recoverer messages.SignerRecoverer,
) (*ValidationContext, error) {
	height, err := chain.LocalChainHeight()
	if err != nil {
		return nil, fmt.Errorf("core: resolve chain height: %w", err)
	}

	validators, err := validatorSet.ValidatorsAt(height)
	if err != nil {
		return nil, fmt.Errorf("core: resolve validator set: %w", err)
	}

	quorumSize, err := quorum.QuorumSizeAt(height)
	if err != nil {
		return nil, fmt.Errorf("core: resolve quorum size: %w", err)
	}

	return &ValidationContext{
		Validators:  validators,
		QuorumSize:  quorumSize,
		ChainHeight: height,
		Proposer:    RoundRobinProposerSelector{},
		Recoverer:   recoverer,
		Log:         NopLogger{},
	}, nil
}

// isValidator reports whether addr is a member of the validator set.
func (c *ValidationContext) isValidator(addr messages.Address) bool {
	for _, v := range c.Validators {
		if v == addr {
			return true
		}
	}

	return false
}

// proposerFor delegates to the configured ProposerSelector, defaulting
// to round-robin if none was set.
func (c *ValidationContext) proposerFor(round messages.ConsensusRoundIdentifier) (messages.Address, error) {
	selector := c.Proposer
	if selector == nil {
		selector = RoundRobinProposerSelector{}
	}

	return selector.ProposerFor(round, c.Validators)
}

// reject logs and publishes a rejection, then returns the error
// unchanged, so call sites can write `return ctx.reject(...)`.
func (c *ValidationContext) reject(
	msgType messages.MessageType,
	round messages.ConsensusRoundIdentifier,
	sender messages.Address,
	err *ValidationError,
) *ValidationError {
	if c.Log != nil {
		c.Log.Info("rejected message",
			"type", msgType.String(),
			"round", round.String(),
			"sender", sender.String(),
			"kind", err.Kind.String(),
			"reason", err.Message,
		)
	}

	if c.Metrics != nil {
		c.Metrics.observeRejection(msgType, err.Kind)
	}

	if c.Events != nil {
		c.Events.Publish(messages.ValidationEvent{
			MessageType: msgType,
			Round:       round,
			Sender:      sender,
			Accepted:    false,
			Reason:      err.Kind.String(),
		})
	}

	return err
}

// observeLatency records the wall-clock duration since start, if a
// Metrics is configured. Called once per top-level Validate* entry
// point, never from the nested check* helpers, so latency reflects one
// received message rather than every embedded check it triggers.
func (c *ValidationContext) observeLatency(start time.Time) {
	if c.Metrics != nil {
		c.Metrics.Observe(time.Since(start))
	}
}

// accept logs and publishes an acceptance.
func (c *ValidationContext) accept(
	msgType messages.MessageType,
	round messages.ConsensusRoundIdentifier,
	sender messages.Address,
) {
	if c.Log != nil {
		c.Log.Debug("accepted message",
			"type", msgType.String(),
			"round", round.String(),
			"sender", sender.String(),
		)
	}

	if c.Metrics != nil {
		c.Metrics.observeAcceptance(msgType)
	}

	if c.Events != nil {
		c.Events.Publish(messages.ValidationEvent{
			MessageType: msgType,
			Round:       round,
			Sender:      sender,
			Accepted:    true,
		})
	}
}
