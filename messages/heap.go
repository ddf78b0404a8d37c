package messages

import "container/heap"

// preparedCertificateCandidate pairs a PreparedCertificate with the
// round it was prepared at and the address that voted it into a
// round-change certificate, used only for the tie-break in
// SelectLatestPreparedCertificate.
type preparedCertificateCandidate struct {
	certificate PreparedCertificate
	round       uint64
	voter       Address
}

// preparedCertificateHeap orders candidates by descending round
// number, ties broken by ascending voter address, so popping the root
// always yields the deterministic latest-prepared candidate.
type preparedCertificateHeap []preparedCertificateCandidate

func (h preparedCertificateHeap) Len() int { return len(h) }

func (h preparedCertificateHeap) Less(i, j int) bool {
	if h[i].round != h[j].round {
		return h[i].round > h[j].round
	}

	return h[i].voter.Less(h[j].voter)
}

func (h preparedCertificateHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *preparedCertificateHeap) Push(x interface{}) {
	candidate, _ := x.(preparedCertificateCandidate)
	*h = append(*h, candidate)
}

func (h *preparedCertificateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]

	return x
}

// SelectLatestPreparedCertificate finds, among round-change payloads
// that carry a PreparedCertificate, the one prepared at the maximum
// round number. Ties are broken by ascending address of the
// round-change payload's voter, so the result is independent of
// payload order. It reports false if no payload in the slice carries a
// certificate.
func SelectLatestPreparedCertificate(
	recoverer SignerRecoverer,
	payloads []SignedData[RoundChangePayload],
) (PreparedCertificate, bool, error) {
	h := &preparedCertificateHeap{}
	heap.Init(h)

	for _, payload := range payloads {
		pc := payload.Payload.PreparedCertificate
		if pc == nil {
			continue
		}

		voter, err := payload.Sender(recoverer)
		if err != nil {
			return PreparedCertificate{}, false, err
		}

		heap.Push(h, preparedCertificateCandidate{
			certificate: *pc,
			round:       pc.Proposal.Payload.RoundIdentifier.RoundNumber,
			voter:       voter,
		})
	}

	if h.Len() == 0 {
		return PreparedCertificate{}, false, nil
	}

	top, _ := heap.Pop(h).(preparedCertificateCandidate)

	return top.certificate, true, nil
}
