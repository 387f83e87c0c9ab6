package envelope

import (
	"crypto/hmac"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/ed25519"
)

func TestDigest(t *testing.T) {
	sum, err := Default.Digest("sha256", []byte("hello"))
	require.NoError(t, err)
	assert.Len(t, sum, 32)

	_, err = Default.Digest("not-an-algorithm", []byte("hello"))
	assert.Error(t, err)
}

func TestHMAC(t *testing.T) {
	key := []byte("secret-key")
	data := []byte("message")

	mac, err := Default.HMAC("hmac-sha256", key, data)
	require.NoError(t, err)

	want := hmac.New(sha256.New, key)
	want.Write(data)
	assert.Equal(t, want.Sum(nil), mac)
}

func TestEd25519SignAndVerify(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	data := []byte("zone data to sign")
	sig, err := Default.Sign("ed25519", priv, data)
	require.NoError(t, err)

	ok, err := Default.Verify("ed25519", pub, data, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Default.Verify("ed25519", pub, []byte("tampered"), sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSignUnsupportedAlgorithm(t *testing.T) {
	_, err := Default.Sign("rsasha256", []byte{}, []byte("data"))
	assert.Error(t, err)
}
