package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = KeyParams{Time: 1, MemoryKiB: 1024, Threads: 1}

func TestSealOpen(t *testing.T) {
	sealer := NewSealer("passphrase", testParams)
	data := []byte("%PDF-1.4 diagnosis report")

	sealed, err := sealer.Seal(data)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "diagnosis")

	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, data, opened)

	again, err := sealer.Seal(data)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again)
}

func TestOpenRejects(t *testing.T) {
	sealer := NewSealer("passphrase", testParams)
	sealed, err := sealer.Seal([]byte("report"))
	require.NoError(t, err)

	_, err = NewSealer("wrong", testParams).Open(sealed)
	assert.ErrorIs(t, err, ErrDecryptionFailed)

	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0xff
	_, err = sealer.Open(tampered)
	assert.ErrorIs(t, err, ErrDecryptionFailed)

	_, err = sealer.Open(sealed[:10])
	assert.ErrorIs(t, err, ErrSealedTooShort)

	bumped := append([]byte(nil), sealed...)
	bumped[0] = 9
	_, err = sealer.Open(bumped)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}
