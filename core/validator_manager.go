package core

import (
	"math/big"
	"sort"
	"sync"

	"github.com/ibft2/validation/messages"
)

// errZeroVotingPower means every validator's voting power summed to
// zero or less, which cannot happen for a live validator set.
var errZeroVotingPower = newErr(ErrInsufficientQuorum, "total voting power is zero or less")

// VotingPowerBackend supplies per-height voting power for every
// validator, the way a staking or governance contract would.
type VotingPowerBackend interface {
	GetVotingPowers(height uint64) (map[messages.Address]*big.Int, error)
}

// ValidatorManager is a ValidatorSetProvider backed by weighted voting
// power rather than a flat headcount. It caches the powers fetched for
// the most recently resolved height, and additionally exposes
// HasVotingPowerQuorum for callers that want a stake-weighted quorum
// check instead of the simple len(senders) >= QuorumSize count the
// core validators use.
type ValidatorManager struct {
	mu sync.RWMutex

	backend VotingPowerBackend

	height     uint64
	validators map[messages.Address]*big.Int
	quorum     *big.Int
}

// NewValidatorManager builds a ValidatorManager over backend.
func NewValidatorManager(backend VotingPowerBackend) *ValidatorManager {
	return &ValidatorManager{backend: backend}
}

// ValidatorsAt implements ValidatorSetProvider, returning the
// validator set sorted by ascending address for deterministic
// round-robin proposer selection.
func (vm *ValidatorManager) ValidatorsAt(height uint64) ([]messages.Address, error) {
	if err := vm.refresh(height); err != nil {
		return nil, err
	}

	vm.mu.RLock()
	defer vm.mu.RUnlock()

	out := make([]messages.Address, 0, len(vm.validators))
	for addr := range vm.validators {
		out = append(out, addr)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })

	return out, nil
}

func (vm *ValidatorManager) refresh(height uint64) error {
	vm.mu.RLock()
	cached := vm.validators != nil && vm.height == height
	vm.mu.RUnlock()

	if cached {
		return nil
	}

	powers, err := vm.backend.GetVotingPowers(height)
	if err != nil {
		return err
	}

	total := big.NewInt(0)
	for _, power := range powers {
		total.Add(total, power)
	}

	if total.Sign() <= 0 {
		return errZeroVotingPower
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.height = height
	vm.validators = powers
	vm.quorum = quorumThreshold(total)

	return nil
}

// HasVotingPowerQuorum reports whether the combined voting power of
// the (deduplicated) senders meets or exceeds floor(2*total/3)+1.
func (vm *ValidatorManager) HasVotingPowerQuorum(senders []messages.Address) bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	if vm.validators == nil {
		return false
	}

	seen := make(map[messages.Address]struct{}, len(senders))
	sum := big.NewInt(0)

	for _, sender := range senders {
		if _, dup := seen[sender]; dup {
			continue
		}

		seen[sender] = struct{}{}

		if power, ok := vm.validators[sender]; ok {
			sum.Add(sum, power)
		}
	}

	return sum.Cmp(vm.quorum) >= 0
}

// quorumThreshold computes floor(2*total/3)+1.
func quorumThreshold(total *big.Int) *big.Int {
	threshold := new(big.Int).Mul(total, big.NewInt(2))
	threshold.Div(threshold, big.NewInt(3))

	return threshold.Add(threshold, big.NewInt(1))
}

var _ ValidatorSetProvider = (*ValidatorManager)(nil)
