package messages

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

// DefaultMaxMessageSize is the hard cap on the size of a decoded frame,
// imposed before validation ever sees the bytes. A NewRoundPayload
// nested to the protocol's structural limit (quorum_size round-changes,
// each with up to quorum_size prepares) comfortably fits well under
// this.
const DefaultMaxMessageSize = 1 << 20 // 1 MiB

// WireErrorKind enumerates the wire-codec-only failures, distinct from
// the ErrorKind taxonomy the core validators use.
type WireErrorKind uint8

const (
	// MalformedFrame means the codec could not parse the input.
	MalformedFrame WireErrorKind = iota + 1
	// UnknownMessageType means the leading type-tag byte is not recognized.
	UnknownMessageType
	// OversizedMessage means the frame exceeded the configured cap.
	OversizedMessage
)

func (k WireErrorKind) String() string {
	switch k {
	case MalformedFrame:
		return "MalformedFrame"
	case UnknownMessageType:
		return "UnknownMessageType"
	case OversizedMessage:
		return "OversizedMessage"
	default:
		return "UnknownWireErrorKind"
	}
}

// WireError reports a wire-codec failure.
type WireError struct {
	Kind  WireErrorKind
	Cause error
}

func (e *WireError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("messages: %s: %v", e.Kind, e.Cause)
	}

	return fmt.Sprintf("messages: %s", e.Kind)
}

func (e *WireError) Unwrap() error {
	return e.Cause
}

var errEmptyFrame = errors.New("frame has no type-tag byte")

// encode RLP-encodes the [payload_list, signature] envelope and
// prepends the one-byte type-tag prefix.
func encode[P any](msgType MessageType, s SignedData[P]) ([]byte, error) {
	body, err := rlp.EncodeToBytes(toWireEnvelope(s))
	if err != nil {
		return nil, &WireError{Kind: MalformedFrame, Cause: err}
	}

	out := make([]byte, 0, len(body)+1)
	out = append(out, byte(msgType))
	out = append(out, body...)

	return out, nil
}

// EncodeProposal encodes a signed ProposalPayload.
func EncodeProposal(s SignedData[ProposalPayload]) ([]byte, error) {
	return encode(MessageTypeProposal, s)
}

// EncodePrepare encodes a signed PreparePayload.
func EncodePrepare(s SignedData[PreparePayload]) ([]byte, error) {
	return encode(MessageTypePrepare, s)
}

// EncodeCommit encodes a signed CommitPayload.
func EncodeCommit(s SignedData[CommitPayload]) ([]byte, error) {
	return encode(MessageTypeCommit, s)
}

// EncodeRoundChange encodes a signed RoundChangePayload.
func EncodeRoundChange(s SignedData[RoundChangePayload]) ([]byte, error) {
	return encode(MessageTypeRoundChange, s)
}

// EncodeNewRound encodes a signed NewRoundPayload.
func EncodeNewRound(s SignedData[NewRoundPayload]) ([]byte, error) {
	return encode(MessageTypeNewRound, s)
}

// Decode parses a frame into its type tag and signed payload. The
// returned payload is one of SignedData[ProposalPayload],
// SignedData[PreparePayload], SignedData[CommitPayload],
// SignedData[RoundChangePayload], or SignedData[NewRoundPayload],
// matching the returned MessageType.
func Decode(frame []byte) (MessageType, interface{}, error) {
	if len(frame) < 1 {
		return 0, nil, &WireError{Kind: MalformedFrame, Cause: errEmptyFrame}
	}

	msgType := MessageType(frame[0])
	body := frame[1:]

	switch msgType {
	case MessageTypeProposal:
		var w wireEnvelope[ProposalPayload]
		if err := rlp.DecodeBytes(body, &w); err != nil {
			return 0, nil, &WireError{Kind: MalformedFrame, Cause: err}
		}

		return msgType, fromWireEnvelope(w), nil
	case MessageTypePrepare:
		var w wireEnvelope[PreparePayload]
		if err := rlp.DecodeBytes(body, &w); err != nil {
			return 0, nil, &WireError{Kind: MalformedFrame, Cause: err}
		}

		return msgType, fromWireEnvelope(w), nil
	case MessageTypeCommit:
		var w wireEnvelope[CommitPayload]
		if err := rlp.DecodeBytes(body, &w); err != nil {
			return 0, nil, &WireError{Kind: MalformedFrame, Cause: err}
		}

		return msgType, fromWireEnvelope(w), nil
	case MessageTypeRoundChange:
		var w wireEnvelope[RoundChangePayload]
		if err := rlp.DecodeBytes(body, &w); err != nil {
			return 0, nil, &WireError{Kind: MalformedFrame, Cause: err}
		}

		return msgType, fromWireEnvelope(w), nil
	case MessageTypeNewRound:
		var w wireEnvelope[NewRoundPayload]
		if err := rlp.DecodeBytes(body, &w); err != nil {
			return 0, nil, &WireError{Kind: MalformedFrame, Cause: err}
		}

		return msgType, fromWireEnvelope(w), nil
	default:
		return 0, nil, &WireError{Kind: UnknownMessageType}
	}
}

// DecodeSized enforces maxSize before handing the frame to Decode. A
// maxSize of zero disables the cap.
func DecodeSized(frame []byte, maxSize int) (MessageType, interface{}, error) {
	if maxSize > 0 && len(frame) > maxSize {
		return 0, nil, &WireError{Kind: OversizedMessage}
	}

	return Decode(frame)
}
