package dns

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answerMessage(t *testing.T) Message {
	t.Helper()
	q := Question{Name: mustName(t, "example.com."), Type: TypeA, Class: ClassIN}
	a := &ARecord{
		H:    RRHeader{Name: mustName(t, "example.com."), Type: TypeA, Class: ClassIN, TTL: 300},
		Addr: netip.MustParseAddr("93.184.216.34"),
	}
	ns := NewNSRecord(RRHeader{Name: mustName(t, "example.com."), Type: TypeNS, Class: ClassIN, TTL: 3600}, mustName(t, "ns1.example.com."))
	opt := NewOPTRecord(4096, true)
	return Message{
		Header:      Header{ID: 0xBEEF, Flags: QRFlag | RDFlag | RAFlag},
		Questions:   []Question{q},
		Answers:     []RR{a},
		Authorities: []RR{ns},
		Additionals: []RR{opt},
	}
}

func TestHeaderMarshalUnmarshalRoundTrip(t *testing.T) {
	m := answerMessage(t)
	wire, err := m.Marshal(true)
	require.NoError(t, err)

	decoded, err := Unmarshal(wire)
	require.NoError(t, err)
	assert.Equal(t, m.Header.ID, decoded.Header.ID)
	assert.Equal(t, m.Header.Flags, decoded.Header.Flags)
	assert.Len(t, decoded.Questions, 1)
	assert.Len(t, decoded.Answers, 1)
	assert.Len(t, decoded.Authorities, 1)
	assert.Len(t, decoded.Additionals, 1)
}

// TestMessageCompressionIdempotent verifies testable property 3: decoding a
// compressed encoding and an uncompressed encoding of the same message
// yields equal messages.
func TestMessageCompressionIdempotent(t *testing.T) {
	m := answerMessage(t)

	compressed, err := m.Marshal(true)
	require.NoError(t, err)
	uncompressed, err := m.Marshal(false)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(uncompressed))

	dc, err := Unmarshal(compressed)
	require.NoError(t, err)
	du, err := Unmarshal(uncompressed)
	require.NoError(t, err)

	assert.Equal(t, du.Header, dc.Header)
	assert.True(t, dc.Questions[0].Name.Equal(du.Questions[0].Name))

	for i := range dc.Answers {
		eq, err := Equal(dc.Answers[i], du.Answers[i])
		require.NoError(t, err)
		assert.True(t, eq, "answer %d differs between compressed and uncompressed decode", i)
	}
	for i := range dc.Authorities {
		eq, err := Equal(dc.Authorities[i], du.Authorities[i])
		require.NoError(t, err)
		assert.True(t, eq, "authority %d differs between compressed and uncompressed decode", i)
	}
}

func TestMarshalCanonicalNeverCompresses(t *testing.T) {
	m := answerMessage(t)
	wire, err := m.MarshalCanonical()
	require.NoError(t, err)
	uncompressed, err := m.Marshal(false)
	require.NoError(t, err)
	assert.Equal(t, len(uncompressed), len(wire))
}

func TestIsTruncated(t *testing.T) {
	m := answerMessage(t)
	wire, err := m.Marshal(true)
	require.NoError(t, err)
	assert.False(t, IsTruncated(wire), "fresh message should not report TC set")

	m.Header.Flags |= TCFlag
	wire2, err := m.Marshal(true)
	require.NoError(t, err)
	assert.True(t, IsTruncated(wire2), "message with TC flag set should report IsTruncated true")
}

func TestTruncateDropsWholeRecordsFromTheEnd(t *testing.T) {
	m := answerMessage(t)
	// Add enough extra answers that an untrimmed message exceeds a tiny limit.
	for i := 0; i < 20; i++ {
		m.Answers = append(m.Answers, &ARecord{
			H:    RRHeader{Name: mustName(t, "example.com."), Type: TypeA, Class: ClassIN, TTL: 300},
			Addr: netip.MustParseAddr("192.0.2.1"),
		})
	}
	full, err := m.Marshal(true)
	require.NoError(t, err)
	limit := len(full) / 2

	trimmed, wire, err := Truncate(m, limit)
	require.NoError(t, err)
	if len(trimmed.Answers) > 0 {
		assert.LessOrEqual(t, len(wire), limit)
	}
	assert.NotZero(t, trimmed.Header.Flags&TCFlag, "Truncate must set TC when records were dropped")
	assert.Len(t, trimmed.Questions, 1, "Truncate must never drop the question section")

	decoded, err := Unmarshal(wire)
	require.NoError(t, err)
	assert.Len(t, decoded.Answers, len(trimmed.Answers))
}

func TestTruncateNoOpWhenWithinLimit(t *testing.T) {
	m := answerMessage(t)
	wire, err := m.Marshal(true)
	require.NoError(t, err)

	trimmed, wire2, err := Truncate(m, len(wire)+100)
	require.NoError(t, err)
	assert.Zero(t, trimmed.Header.Flags&TCFlag, "Truncate must not set TC when the message already fits")
	assert.Equal(t, len(wire), len(wire2))
}

func TestFindOPTAndClientMaxUDPSize(t *testing.T) {
	withOPT := []RR{NewOPTRecord(2048, false)}
	opt := FindOPT(withOPT)
	require.NotNil(t, opt)
	assert.Equal(t, uint16(2048), opt.UDPSize())
	assert.Equal(t, 2048, ClientMaxUDPSize(Message{Additionals: withOPT}))

	assert.Nil(t, FindOPT(nil))
	assert.Equal(t, DefaultUDPPayloadSize, ClientMaxUDPSize(Message{}))

	// A requestor advertising less than the classic default still gets the
	// classic default as a floor.
	tiny := []RR{NewOPTRecord(100, false)}
	assert.Equal(t, DefaultUDPPayloadSize, ClientMaxUDPSize(Message{Additionals: tiny}))
}

func TestOPTExtendedRCodeVersionAndDO(t *testing.T) {
	opt := NewOPTRecord(4096, true)
	assert.True(t, opt.DO())

	opt.SetVersion(0)
	opt.SetExtendedRCode(1)
	assert.Equal(t, uint8(1), opt.ExtendedRCode())
	assert.Equal(t, uint8(0), opt.Version())
	assert.True(t, opt.DO(), "DO bit must survive SetExtendedRCode/SetVersion calls")
}

func TestValidateAdditionalsTSIGPlacementRejectsMisplacedTSIG(t *testing.T) {
	tsig := &TSIGRecord{H: RRHeader{Name: mustName(t, "key.example."), Type: TypeTSIG, Class: ClassANY}}
	opt := NewOPTRecord(4096, false)

	require.Error(t, validateAdditionalsTSIGPlacement([]RR{tsig, opt}))
	assert.NoError(t, validateAdditionalsTSIGPlacement([]RR{opt, tsig}))
	assert.NoError(t, validateAdditionalsTSIGPlacement([]RR{opt}))
}
