package recovery

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ibft2/validation/messages"
)

func TestRecoverer_RecoversSigner(t *testing.T) {
	defer goleak.VerifyNone(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	wantAddr := crypto.PubkeyToAddress(key.PublicKey)

	payload := []byte("proposal payload bytes")
	digest := crypto.Keccak256(payload)

	sigBytes, err := crypto.Sign(digest, key)
	require.NoError(t, err)

	var sig messages.Signature
	copy(sig[:], sigBytes)

	recoverer := New()

	got, err := recoverer.RecoverSigner(payload, sig)
	require.NoError(t, err)

	var want messages.Address
	copy(want[:], wantAddr.Bytes())

	assert.Equal(t, want, got)
}

func TestRecoverer_RejectsMalformedSignature(t *testing.T) {
	defer goleak.VerifyNone(t)

	recoverer := New()

	_, err := recoverer.RecoverSigner([]byte("payload"), messages.Signature{})
	assert.Error(t, err)
}
