package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestreldns/dnscore/internal/crypto/envelope"
)

func signedQueryWire(t *testing.T, owner DomainName) (Message, []byte) {
	t.Helper()
	m := Message{
		Header:    Header{ID: 42, Flags: RDFlag},
		Questions: []Question{{Name: owner, Type: TypeA, Class: ClassIN}},
	}
	wire, err := m.Marshal(true)
	require.NoError(t, err)
	return m, wire
}

// TestTSIGSignVerifyRoundTrip verifies testable property 7: a message signed
// with a given key verifies successfully against the same key when the
// verifier's clock falls inside [TimeSigned-Fudge, TimeSigned+Fudge].
func TestTSIGSignVerifyRoundTrip(t *testing.T) {
	owner := mustName(t, "query.example.")
	keyName := mustName(t, "key.example.")
	key := []byte("012345678901234567890123456789ab")
	const timeSigned = uint64(1700000000)
	const fudge = uint16(300)

	_, wire := signedQueryWire(t, owner)

	tsig, err := SignTSIG(envelope.Default, wire, keyName, mustName(t, TSIGAlgoHMACSHA256), key, timeSigned, fudge, nil)
	require.NoError(t, err)
	require.NotEmpty(t, tsig.MAC)

	err = VerifyTSIG(envelope.Default, wire, keyName, &tsig, key, nil, timeSigned)
	assert.NoError(t, err, "verifying within the signing instant should succeed")

	err = VerifyTSIG(envelope.Default, wire, keyName, &tsig, key, nil, timeSigned+uint64(fudge))
	assert.NoError(t, err, "verifying at the edge of the fudge window should succeed")
}

func TestTSIGVerifyFailsOutsideFudgeWindow(t *testing.T) {
	owner := mustName(t, "query.example.")
	keyName := mustName(t, "key.example.")
	key := []byte("012345678901234567890123456789ab")
	const timeSigned = uint64(1700000000)
	const fudge = uint16(60)

	_, wire := signedQueryWire(t, owner)
	tsig, err := SignTSIG(envelope.Default, wire, keyName, mustName(t, TSIGAlgoHMACSHA256), key, timeSigned, fudge, nil)
	require.NoError(t, err)

	err = VerifyTSIG(envelope.Default, wire, keyName, &tsig, key, nil, timeSigned+uint64(fudge)+1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVerificationFailure)
}

func TestTSIGVerifyFailsOnMACTamper(t *testing.T) {
	owner := mustName(t, "query.example.")
	keyName := mustName(t, "key.example.")
	key := []byte("012345678901234567890123456789ab")

	_, wire := signedQueryWire(t, owner)
	tsig, err := SignTSIG(envelope.Default, wire, keyName, mustName(t, TSIGAlgoHMACSHA256), key, 1700000000, 300, nil)
	require.NoError(t, err)

	tampered := tsig
	tampered.MAC = append([]byte(nil), tsig.MAC...)
	tampered.MAC[0] ^= 0xFF

	err = VerifyTSIG(envelope.Default, wire, keyName, &tampered, key, nil, 1700000000)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVerificationFailure)
}

func TestTSIGVerifyFailsOnMessageTamper(t *testing.T) {
	owner := mustName(t, "query.example.")
	keyName := mustName(t, "key.example.")
	key := []byte("012345678901234567890123456789ab")

	_, wire := signedQueryWire(t, owner)
	tsig, err := SignTSIG(envelope.Default, wire, keyName, mustName(t, TSIGAlgoHMACSHA256), key, 1700000000, 300, nil)
	require.NoError(t, err)

	tamperedWire := append([]byte(nil), wire...)
	tamperedWire[len(tamperedWire)-1] ^= 0xFF

	err = VerifyTSIG(envelope.Default, tamperedWire, keyName, &tsig, key, nil, 1700000000)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVerificationFailure)
}

func TestTSIGVerifyFailsOnWrongKey(t *testing.T) {
	owner := mustName(t, "query.example.")
	keyName := mustName(t, "key.example.")
	key := []byte("012345678901234567890123456789ab")
	wrongKey := []byte("ba098765432109876543210987654321")

	_, wire := signedQueryWire(t, owner)
	tsig, err := SignTSIG(envelope.Default, wire, keyName, mustName(t, TSIGAlgoHMACSHA256), key, 1700000000, 300, nil)
	require.NoError(t, err)

	err = VerifyTSIG(envelope.Default, wire, keyName, &tsig, wrongKey, nil, 1700000000)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVerificationFailure)
}

func TestTSIGUnsupportedAlgorithmRejected(t *testing.T) {
	owner := mustName(t, "query.example.")
	keyName := mustName(t, "key.example.")
	key := []byte("012345678901234567890123456789ab")

	_, wire := signedQueryWire(t, owner)
	_, err := SignTSIG(envelope.Default, wire, keyName, mustName(t, "hmac-whirlpool."), key, 1700000000, 300, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
}
