package dns

// NewRR constructs a zero-value RR for t, using the registered constructor
// when one exists and an *UnknownRecord fallback otherwise (§4.2). Exported
// for collaborators outside this package (RFC 8427 JSON, zone digesting)
// that need to build a typed record from raw rdata rather than master-file
// text or wire bytes.
func NewRR(t RecordType) RR {
	return newByType(t)
}

// RDataBytes returns rr's canonical wire rdata, uncompressed (§4.3). Used
// wherever a raw byte form is needed independent of message context, such
// as RFC 8427's RDATAHEX field or a digest over a record's rdata.
func RDataBytes(rr RR) ([]byte, error) {
	return rr.packRData(nil, nil, true)
}

// RDataText renders rr's rdata as master-file presentation text, without
// the owner/ttl/class/type preamble FormatMasterRR adds.
func RDataText(rr RR) (string, error) {
	return rr.packMasterRData()
}

// DecodeRDataBytes unpacks raw into rr's rdata using the wire codec,
// treating raw as a self-contained rdata blob at offset 0: no pointer in it
// can legally reference bytes outside raw.
func DecodeRDataBytes(rr RR, raw []byte) error {
	return rr.unpackRData(raw, 0, len(raw))
}

// DecodeRDataText parses tokenized master-file fields into rr's rdata,
// resolving relative names against origin.
func DecodeRDataText(rr RR, origin DomainName, fields []string) error {
	return rr.unpackMasterRData(origin, fields)
}
