package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFieldsQuotedAndEscaped(t *testing.T) {
	fields := SplitFields(`www 300 IN TXT "hello world" "a\"b" ; trailing comment`)
	assert.Equal(t, []string{"www", "300", "IN", "TXT", "hello world", `a\"b`}, fields)
}

func TestSplitFieldsSemicolonInsideQuotesIsNotAComment(t *testing.T) {
	fields := SplitFields(`ca 300 IN CAA 0 issue "ca.example;with-semicolon"`)
	require.Len(t, fields, 6)
	assert.Equal(t, "ca.example;with-semicolon", fields[5])
}

func TestUnescapeCharStringHandlesDDDAndSingleChar(t *testing.T) {
	got, err := UnescapeCharString(`a\.b\099c`)
	require.NoError(t, err)
	assert.Equal(t, "a.bcc", got)
}

func TestParseMasterFileOriginAndTTLDirectives(t *testing.T) {
	zone := `
$ORIGIN example.com.
$TTL 3600
@   IN SOA ns1 hostmaster 1 7200 3600 1209600 300
www IN A 198.51.100.1
    IN A 198.51.100.2
`
	recs, err := ParseMasterFile(zone, Root, 0)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.True(t, recs[0].Name.Equal(mustName(t, "example.com.")))
	assert.Equal(t, int32(3600), recs[0].TTL)
	assert.Equal(t, TypeSOA, recs[0].Type)

	assert.True(t, recs[1].Name.Equal(mustName(t, "www.example.com.")))
	assert.Equal(t, TypeA, recs[1].Type)

	// A leading-whitespace continuation line inherits the prior record's name.
	assert.True(t, recs[2].Name.Equal(mustName(t, "www.example.com.")))
	assert.Equal(t, TypeA, recs[2].Type)
}

func TestParseMasterFileParenthesizedMultiLineRecord(t *testing.T) {
	zone := `@ 3600 IN SOA ns1.example.com. hostmaster.example.com. (
	2024010100 ; serial
	7200       ; refresh
	3600       ; retry
	1209600    ; expire
	300 )      ; minimum
`
	recs, err := ParseMasterFile(zone, mustName(t, "example.com."), 3600)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, TypeSOA, recs[0].Type)
	assert.Equal(t, []string{
		"ns1.example.com.", "hostmaster.example.com.",
		"2024010100", "7200", "3600", "1209600", "300",
	}, recs[0].Fields)
}

func TestParseMasterFileDefaultTTLAndClassAcrossRecords(t *testing.T) {
	zone := `
@   3600 IN A 198.51.100.1
www      IN A 198.51.100.2
`
	recs, err := ParseMasterFile(zone, mustName(t, "example.com."), 60)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	// Second record has no explicit TTL; it must not inherit the first
	// record's TTL automatically (RFC 1035 requires an explicit $TTL or
	// per-record value — the parser's default-TTL parameter, not cross-record
	// memory, supplies it here).
	assert.Equal(t, int32(60), recs[1].TTL)
	assert.Equal(t, ClassIN, recs[1].Class)
}

func TestParseMasterFileRejectsUnbalancedParen(t *testing.T) {
	_, err := ParseMasterFile("@ 3600 IN SOA ns1 host ( 1 2 3 4 5", Root, 0)
	require.Error(t, err) // '(' still open at EOF
	_, err = ParseMasterFile("@ 3600 IN A 198.51.100.1 )", Root, 0)
	require.Error(t, err)
}

func TestDecodeMasterRRUnknownTypeRequiresGenericSyntax(t *testing.T) {
	origin := Root
	recs, err := ParseMasterFile("example. 3600 IN MX 10 mail.example.", origin, 0)
	require.NoError(t, err)
	recs[0].Type = RecordType(65000)
	_, err = DecodeMasterRR(origin, recs[0])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
}
