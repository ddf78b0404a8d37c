package messages

// MessageType tags a payload's shape on the wire. It occupies the
// one-byte prefix of every encoded frame.
type MessageType uint8

const (
	// MessageTypeProposal tags a ProposalPayload.
	MessageTypeProposal MessageType = iota + 1
	// MessageTypePrepare tags a PreparePayload.
	MessageTypePrepare
	// MessageTypeCommit tags a CommitPayload.
	MessageTypeCommit
	// MessageTypeRoundChange tags a RoundChangePayload.
	MessageTypeRoundChange
	// MessageTypeNewRound tags a NewRoundPayload.
	MessageTypeNewRound
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeProposal:
		return "PROPOSAL"
	case MessageTypePrepare:
		return "PREPARE"
	case MessageTypeCommit:
		return "COMMIT"
	case MessageTypeRoundChange:
		return "ROUND_CHANGE"
	case MessageTypeNewRound:
		return "NEW_ROUND"
	default:
		return "UNKNOWN"
	}
}

// BlockPayload is the wire-encodable stand-in for a Block: it carries
// the fields the core validators consume (hash and block number), the
// committed-seal hash the Block interface exposes, and the raw bytes
// needed to reconstruct a caller's concrete block type. Decoding
// a ProposalPayload therefore never requires the wire codec to know
// about a concrete Block implementation. BlockPayload itself satisfies
// the Block interface, so a decoded ProposalPayload can be validated
// exactly like a locally-built one.
type BlockPayload struct {
	BlockNumber uint64
	BlockHash   Digest
	SealHash    Digest
	Raw         []byte
}

// Hash implements Block.
func (b BlockPayload) Hash() Digest { return b.BlockHash }

// Number implements Block.
func (b BlockPayload) Number() uint64 { return b.BlockNumber }

// CommittedSealHash implements Block.
func (b BlockPayload) CommittedSealHash() Digest { return b.SealHash }

// NewBlockPayload snapshots a Block implementation into its
// wire-encodable form, retaining raw for round-trip reconstruction by
// the caller's own decoder.
func NewBlockPayload(block Block, raw []byte) BlockPayload {
	return BlockPayload{
		BlockNumber: block.Number(),
		BlockHash:   block.Hash(),
		SealHash:    block.CommittedSealHash(),
		Raw:         raw,
	}
}

// ProposalPayload is the proposer's candidate block for a round.
type ProposalPayload struct {
	RoundIdentifier ConsensusRoundIdentifier
	Block           BlockPayload
}

// PreparePayload is a validator's vote that it observed a well-formed
// proposal whose block hashes to ProposalDigest.
type PreparePayload struct {
	RoundIdentifier ConsensusRoundIdentifier
	ProposalDigest  Digest
}

// CommitPayload is a validator's final vote binding a block to a round.
type CommitPayload struct {
	RoundIdentifier ConsensusRoundIdentifier
	ProposalDigest  Digest
	CommitSeal      Signature
}

// RoundChangePayload is a request to abandon the current round.
// PreparedCertificate is optional and, when absent, is a nil pointer
// rather than a sentinel value.
type RoundChangePayload struct {
	RoundChangeIdentifier ConsensusRoundIdentifier
	PreparedCertificate   *PreparedCertificate `rlp:"nil"`
}

// PreparedCertificate is evidence that a block reached the prepared
// state (quorum of prepares over a proposal) at some earlier round.
type PreparedCertificate struct {
	Proposal SignedData[ProposalPayload]
	Prepares []SignedData[PreparePayload]
}

// RoundChangeCertificate collects the round-change justifications for
// switching to a new round.
type RoundChangeCertificate struct {
	Payloads []SignedData[RoundChangePayload]
}

// NewRoundPayload is broadcast by the proposer of a new round: "we are
// moving to RoundChangeIdentifier; here is the evidence; here is my
// proposal."
type NewRoundPayload struct {
	RoundChangeIdentifier  ConsensusRoundIdentifier
	RoundChangeCertificate RoundChangeCertificate
	Proposal               SignedData[ProposalPayload]
}

var _ Block = BlockPayload{}
