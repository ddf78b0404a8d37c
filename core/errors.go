package core

import "fmt"

// ErrorKind is the flat, exhaustive taxonomy of validation failures.
// Every validator returns a specific kind on rejection; nothing
// propagates as a panic or a generic error.
type ErrorKind uint8

const (
	// ErrInvalidSignature means signer recovery failed.
	ErrInvalidSignature ErrorKind = iota + 1
	// ErrUnknownSigner means the recovered address is not in the validator set.
	ErrUnknownSigner
	// ErrWrongProposer means the sender is not the expected proposer for the round.
	ErrWrongProposer
	// ErrWrongHeight means the sequence number mismatches local chain height.
	ErrWrongHeight
	// ErrIllegalRoundZero means a NewRound message targets round 0.
	ErrIllegalRoundZero
	// ErrEmbeddedMismatch means an embedded proposal/round mismatches the outer payload.
	ErrEmbeddedMismatch
	// ErrInsufficientQuorum means a certificate has fewer than quorum payloads.
	ErrInsufficientQuorum
	// ErrInconsistentCertificate means round-change payloads disagree on the
	// target round, or a sender appears more than once.
	ErrInconsistentCertificate
	// ErrPreparedCertificateInvalid means a prepared certificate is internally inconsistent.
	ErrPreparedCertificateInvalid
	// ErrBlockMismatchWithLatestPrepared means the proposed block hash
	// disagrees with the latest prepared block hash.
	ErrBlockMismatchWithLatestPrepared
	// ErrInvalidProposal means a Proposal message failed validation for a
	// reason not covered by a more specific kind above.
	ErrInvalidProposal
	// ErrInvalidPrepare means a Prepare message failed validation for a
	// reason not covered by a more specific kind above.
	ErrInvalidPrepare
	// ErrInvalidCommit means a Commit message failed validation for a
	// reason not covered by a more specific kind above.
	ErrInvalidCommit
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidSignature:
		return "InvalidSignature"
	case ErrUnknownSigner:
		return "UnknownSigner"
	case ErrWrongProposer:
		return "WrongProposer"
	case ErrWrongHeight:
		return "WrongHeight"
	case ErrIllegalRoundZero:
		return "IllegalRoundZero"
	case ErrEmbeddedMismatch:
		return "EmbeddedMismatch"
	case ErrInsufficientQuorum:
		return "InsufficientQuorum"
	case ErrInconsistentCertificate:
		return "InconsistentCertificate"
	case ErrPreparedCertificateInvalid:
		return "PreparedCertificateInvalid"
	case ErrBlockMismatchWithLatestPrepared:
		return "BlockMismatchWithLatestPrepared"
	case ErrInvalidProposal:
		return "InvalidProposal"
	case ErrInvalidPrepare:
		return "InvalidPrepare"
	case ErrInvalidCommit:
		return "InvalidCommit"
	default:
		return "UnknownErrorKind"
	}
}

// ValidationError reports why a message was rejected. It is always the
// first failing clause encountered: validators short-circuit rather
// than accumulate errors.
type ValidationError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}

	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	return e.Kind.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func newErr(kind ErrorKind, message string) *ValidationError {
	return &ValidationError{Kind: kind, Message: message}
}

func wrapErr(kind ErrorKind, message string, cause error) *ValidationError {
	return &ValidationError{Kind: kind, Message: message, Cause: cause}
}
