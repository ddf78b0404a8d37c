package core

import "github.com/ibft2/validation/messages"

// Each mock below exposes a configurable delegate hook rather than a
// hard-coded behavior, so a test can stub exactly one collaborator
// method without implementing the whole interface by hand.
type validatorsAtDelegate func(uint64) ([]messages.Address, error)
type quorumSizeAtDelegate func(uint64) (int, error)
type localChainHeightDelegate func() (uint64, error)
type recoverSignerDelegate func([]byte, messages.Signature) (messages.Address, error)

// MockValidatorSet is a configurable ValidatorSetProvider for tests.
type MockValidatorSet struct {
	validatorsAtFn validatorsAtDelegate
}

func (m *MockValidatorSet) ValidatorsAt(height uint64) ([]messages.Address, error) {
	if m.validatorsAtFn != nil {
		return m.validatorsAtFn(height)
	}

	return nil, nil
}

func (m *MockValidatorSet) HookValidatorsAt(fn validatorsAtDelegate) {
	m.validatorsAtFn = fn
}

// MockQuorumSize is a configurable QuorumSizeProvider for tests.
type MockQuorumSize struct {
	quorumSizeAtFn quorumSizeAtDelegate
}

func (m *MockQuorumSize) QuorumSizeAt(height uint64) (int, error) {
	if m.quorumSizeAtFn != nil {
		return m.quorumSizeAtFn(height)
	}

	return 0, nil
}

func (m *MockQuorumSize) HookQuorumSizeAt(fn quorumSizeAtDelegate) {
	m.quorumSizeAtFn = fn
}

// MockChainHeight is a configurable ChainHeightProvider for tests.
type MockChainHeight struct {
	localChainHeightFn localChainHeightDelegate
}

func (m *MockChainHeight) LocalChainHeight() (uint64, error) {
	if m.localChainHeightFn != nil {
		return m.localChainHeightFn()
	}

	return 0, nil
}

func (m *MockChainHeight) HookLocalChainHeight(fn localChainHeightDelegate) {
	m.localChainHeightFn = fn
}

// MockRecoverer is a configurable messages.SignerRecoverer for tests
// that don't want to exercise real secp256k1 recovery.
type MockRecoverer struct {
	recoverSignerFn recoverSignerDelegate
}

func (m *MockRecoverer) RecoverSigner(payload []byte, sig messages.Signature) (messages.Address, error) {
	if m.recoverSignerFn != nil {
		return m.recoverSignerFn(payload, sig)
	}

	return messages.Address{}, nil
}

func (m *MockRecoverer) HookRecoverSigner(fn recoverSignerDelegate) {
	m.recoverSignerFn = fn
}

var (
	_ ValidatorSetProvider       = (*MockValidatorSet)(nil)
	_ QuorumSizeProvider         = (*MockQuorumSize)(nil)
	_ ChainHeightProvider        = (*MockChainHeight)(nil)
	_ messages.SignerRecoverer   = (*MockRecoverer)(nil)
)

// mockBlock is a minimal messages.Block for tests.
type mockBlock struct {
	number           uint64
	hash             messages.Digest
	committedSealHash messages.Digest
}

func (b mockBlock) Hash() messages.Digest              { return b.hash }
func (b mockBlock) Number() uint64                     { return b.number }
func (b mockBlock) CommittedSealHash() messages.Digest { return b.committedSealHash }

var _ messages.Block = mockBlock{}
