package dns

// DNS header flags and masks (RFC 1035 §4.1.1, RFC 4035 §3.2 for AD/CD).
//
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|QR|   Opcode  |AA|TC|RD|RA| Z|AD|CD|   RCODE   |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	 15 14 13 12 11 10  9  8  7  6  5  4  3  2  1  0
const (
	QRFlag     uint16 = 0x8000
	OpcodeMask uint16 = 0x7800
	AAFlag     uint16 = 0x0400
	TCFlag     uint16 = 0x0200
	RDFlag     uint16 = 0x0100
	RAFlag     uint16 = 0x0080
	ZFlag      uint16 = 0x0040
	ADFlag     uint16 = 0x0020
	CDFlag     uint16 = 0x0010
	RCodeMask  uint16 = 0x000F
)

// Opcode is the 4-bit operation code carried in the header flags.
type Opcode uint8

const (
	OpcodeQuery  Opcode = 0
	OpcodeIQuery Opcode = 1
	OpcodeStatus Opcode = 2
	OpcodeNotify Opcode = 4
	OpcodeUpdate Opcode = 5
)

// RCode is a DNS response code (RFC 1035 §4.1.1, extended RCODEs per RFC 6891 §6.1.3).
type RCode uint16

const (
	RCodeNoError  RCode = 0
	RCodeFormErr  RCode = 1
	RCodeServFail RCode = 2
	RCodeNXDomain RCode = 3
	RCodeNotImp   RCode = 4
	RCodeRefused  RCode = 5
	RCodeYXDomain RCode = 6
	RCodeYXRRSet  RCode = 7
	RCodeNXRRSet  RCode = 8
	RCodeNotAuth  RCode = 9
	RCodeNotZone  RCode = 10
	RCodeBadVers  RCode = 16
	RCodeBadSig   RCode = 16 // TSIG: shares the wire value with BADVERS
	RCodeBadKey   RCode = 17
	RCodeBadTime  RCode = 18
)

// RCodeFromFlags extracts the low-order RCODE from the header flags field.
// Combine with an OPT record's extended RCODE bits for the full 12-bit code.
func RCodeFromFlags(flags uint16) RCode {
	return RCode(flags & RCodeMask)
}

// OpcodeFromFlags extracts the 4-bit opcode from the header flags field.
func OpcodeFromFlags(flags uint16) Opcode {
	return Opcode((flags & OpcodeMask) >> 11)
}

// RecordType is a 16-bit DNS resource-record type code (RFC 1035 §3.2.2 and
// many subsequent RFCs, one per record named in RFC order below).
type RecordType uint16

const (
	TypeA          RecordType = 1
	TypeNS         RecordType = 2
	TypeMD         RecordType = 3 // obsolete, decodes via Unknown
	TypeMF         RecordType = 4 // obsolete, decodes via Unknown
	TypeCNAME      RecordType = 5
	TypeSOA        RecordType = 6
	TypeMB         RecordType = 7 // obsolete
	TypeMG         RecordType = 8 // obsolete
	TypeMR         RecordType = 9 // obsolete
	TypeNULL       RecordType = 10
	TypeWKS        RecordType = 11
	TypePTR        RecordType = 12
	TypeHINFO      RecordType = 13
	TypeMINFO      RecordType = 14 // obsolete
	TypeMX         RecordType = 15
	TypeTXT        RecordType = 16
	TypeRP         RecordType = 17
	TypeAFSDB      RecordType = 18
	TypeX25        RecordType = 19
	TypeISDN       RecordType = 20
	TypeRT         RecordType = 21
	TypeNSAP       RecordType = 22
	TypeNSAPPTR    RecordType = 23
	TypeSIG        RecordType = 24
	TypeKEY        RecordType = 25
	TypePX         RecordType = 26
	TypeGPOS       RecordType = 27
	TypeAAAA       RecordType = 28
	TypeLOC        RecordType = 29
	TypeNXT        RecordType = 30 // obsolete, superseded by NSEC
	TypeSRV        RecordType = 33
	TypeNAPTR      RecordType = 35
	TypeKX         RecordType = 36
	TypeCERT       RecordType = 37
	TypeDNAME      RecordType = 39
	TypeOPT        RecordType = 41
	TypeAPL        RecordType = 42
	TypeDS         RecordType = 43
	TypeSSHFP      RecordType = 44
	TypeIPSECKEY   RecordType = 45
	TypeRRSIG      RecordType = 46
	TypeNSEC       RecordType = 47
	TypeDNSKEY     RecordType = 48
	TypeDHCID      RecordType = 49
	TypeNSEC3      RecordType = 50
	TypeNSEC3PARAM RecordType = 51
	TypeTLSA       RecordType = 52
	TypeSMIMEA     RecordType = 53
	TypeHIP        RecordType = 55
	TypeNINFO      RecordType = 56
	TypeCDS        RecordType = 59
	TypeCDNSKEY    RecordType = 60
	TypeOPENPGPKEY RecordType = 61
	TypeCSYNC      RecordType = 62
	TypeZONEMD     RecordType = 63
	TypeSVCB       RecordType = 64
	TypeHTTPS      RecordType = 65
	TypeEUI48      RecordType = 108
	TypeEUI64      RecordType = 109
	TypeTKEY       RecordType = 249
	TypeTSIG       RecordType = 250
	TypeURI        RecordType = 256
	TypeCAA        RecordType = 257
	TypeAMTRELAY   RecordType = 260
	TypeDLV        RecordType = 32769

	// NID/L32/L64/LP (RFC 6742, ILNP)
	TypeNID RecordType = 104
	TypeL32 RecordType = 105
	TypeL64 RecordType = 106
	TypeLP  RecordType = 107
)

// typeNames maps a type code to its master-file/JSON mnemonic. This is the
// static dispatch table the registry (registry.go) uses instead of runtime
// reflection to print a TYPEmnemonic.
var typeNames = map[RecordType]string{
	TypeA: "A", TypeNS: "NS", TypeCNAME: "CNAME", TypeSOA: "SOA",
	TypePTR: "PTR", TypeHINFO: "HINFO", TypeMX: "MX", TypeTXT: "TXT",
	TypeRP: "RP", TypeAFSDB: "AFSDB", TypeX25: "X25", TypeISDN: "ISDN",
	TypeRT: "RT", TypeNSAP: "NSAP", TypeNSAPPTR: "NSAP-PTR",
	TypeSIG: "SIG", TypeKEY: "KEY", TypePX: "PX", TypeGPOS: "GPOS",
	TypeAAAA: "AAAA", TypeLOC: "LOC", TypeSRV: "SRV", TypeNAPTR: "NAPTR",
	TypeKX: "KX", TypeCERT: "CERT", TypeDNAME: "DNAME", TypeOPT: "OPT",
	TypeAPL: "APL", TypeDS: "DS", TypeSSHFP: "SSHFP", TypeIPSECKEY: "IPSECKEY",
	TypeRRSIG: "RRSIG", TypeNSEC: "NSEC", TypeDNSKEY: "DNSKEY",
	TypeDHCID: "DHCID", TypeNSEC3: "NSEC3", TypeNSEC3PARAM: "NSEC3PARAM",
	TypeTLSA: "TLSA", TypeSMIMEA: "SMIMEA", TypeHIP: "HIP",
	TypeCDS: "CDS", TypeCDNSKEY: "CDNSKEY", TypeOPENPGPKEY: "OPENPGPKEY",
	TypeCSYNC: "CSYNC", TypeZONEMD: "ZONEMD", TypeSVCB: "SVCB",
	TypeHTTPS: "HTTPS", TypeEUI48: "EUI48", TypeEUI64: "EUI64",
	TypeTKEY: "TKEY", TypeTSIG: "TSIG", TypeURI: "URI", TypeCAA: "CAA",
	TypeAMTRELAY: "AMTRELAY", TypeDLV: "DLV", TypeWKS: "WKS",
	TypeNID: "NID", TypeL32: "L32", TypeL64: "L64", TypeLP: "LP",
	TypeNULL: "NULL",
}

// TypeName returns the short mnemonic for t, or "TYPE<n>" if unregistered.
func (t RecordType) TypeName() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return unknownTypeName(t)
}

func (t RecordType) String() string { return t.TypeName() }

// RecordClass is a 16-bit DNS resource-record class code (RFC 1035 §3.2.4).
type RecordClass uint16

const (
	ClassIN   RecordClass = 1
	ClassCH   RecordClass = 3
	ClassHS   RecordClass = 4
	ClassNONE RecordClass = 254
	ClassANY  RecordClass = 255
)

var classNames = map[RecordClass]string{
	ClassIN: "IN", ClassCH: "CH", ClassHS: "HS", ClassNONE: "NONE", ClassANY: "ANY",
}

// ClassName returns the short mnemonic for c, or "CLASS<n>" if unregistered.
func (c RecordClass) ClassName() string {
	if n, ok := classNames[c]; ok {
		return n
	}
	return unknownClassName(c)
}

func (c RecordClass) String() string { return c.ClassName() }
