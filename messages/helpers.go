package messages

// CommittedSeal is a validator's proof of signing a committed proposal:
// the (signer, signature) pair extracted from a CommitPayload.
type CommittedSeal struct {
	Signer    Address
	Signature Signature
}

// ExtractCommittedSeal pairs a commit's signature with its sender.
func ExtractCommittedSeal(sender Address, commit SignedData[CommitPayload]) CommittedSeal {
	return CommittedSeal{
		Signer:    sender,
		Signature: commit.Payload.CommitSeal,
	}
}

// RoundChangeSenders recovers the sender of every round-change payload
// in a certificate, in the same order as certificate.Payloads.
func RoundChangeSenders(
	recoverer SignerRecoverer,
	certificate RoundChangeCertificate,
) ([]Address, error) {
	senders := make([]Address, len(certificate.Payloads))

	for i, payload := range certificate.Payloads {
		sender, err := payload.Sender(recoverer)
		if err != nil {
			return nil, err
		}

		senders[i] = sender
	}

	return senders, nil
}

// HasUniqueSenders reports whether every address in senders is
// distinct. An empty slice is not considered to have unique senders:
// a certificate must carry at least one signer to mean anything.
func HasUniqueSenders(senders []Address) bool {
	if len(senders) < 1 {
		return false
	}

	seen := make(map[Address]struct{}, len(senders))

	for _, sender := range senders {
		if _, exists := seen[sender]; exists {
			return false
		}

		seen[sender] = struct{}{}
	}

	return true
}

// PrepareSenders recovers the sender of every prepare in a prepared
// certificate, in the same order as prepares.
func PrepareSenders(
	recoverer SignerRecoverer,
	prepares []SignedData[PreparePayload],
) ([]Address, error) {
	senders := make([]Address, len(prepares))

	for i, prepare := range prepares {
		sender, err := prepare.Sender(recoverer)
		if err != nil {
			return nil, err
		}

		senders[i] = sender
	}

	return senders, nil
}
