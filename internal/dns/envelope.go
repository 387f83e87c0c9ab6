package dns

import "fmt"

// PackRR appends rr's full wire form (name, type, class, ttl, rdlength,
// rdata) to buf (§4.3). The owner name is compressed unless canonical is
// set; canonical mode also lowercases the owner name and forbids
// compressing it. rdlength is back-patched after the per-type encoder runs:
// reserve two bytes, encode rdata, then overwrite the reserved bytes with
// the encoded length.
func PackRR(buf []byte, rr RR, dict compressionDict, canonical bool) ([]byte, error) {
	h := rr.Header()
	name := h.Name
	if canonical {
		name = name.Canonical()
	}
	var err error
	buf, err = EncodeName(buf, name, dict, canonical)
	if err != nil {
		return nil, err
	}
	buf = putUint16(buf, uint16(h.Type))
	buf = putUint16(buf, uint16(h.Class))
	buf = putUint32(buf, h.emitTTL())

	rdlenOff := len(buf)
	buf = putUint16(buf, 0) // reserved, back-patched below
	rdataStart := len(buf)

	buf, err = rr.packRData(buf, dict, canonical)
	if err != nil {
		return nil, err
	}
	rdlen := len(buf) - rdataStart
	if rdlen > 0xFFFF {
		return nil, fmt.Errorf("%w: rdata exceeds 65535 octets", ErrMalformedWire)
	}
	buf[rdlenOff] = byte(rdlen >> 8)
	buf[rdlenOff+1] = byte(rdlen & 0xFF)
	return buf, nil
}

// UnpackRR reads one full resource record from msg starting at off,
// returning the decoded record and the offset immediately following it
// (§4.3). The per-type decoder MUST consume the rdata slice exactly;
// trailing or missing bytes are a hard error.
func UnpackRR(msg []byte, off int) (RR, int, error) {
	recordStart := off
	name, off, err := DecodeName(msg, off)
	if err != nil {
		return nil, recordStart, err
	}
	rrType, off, err := readUint16(msg, off)
	if err != nil {
		return nil, recordStart, err
	}
	rrClass, off, err := readUint16(msg, off)
	if err != nil {
		return nil, recordStart, err
	}
	ttl, off, err := readUint32(msg, off)
	if err != nil {
		return nil, recordStart, err
	}
	rdlen, off, err := readUint16(msg, off)
	if err != nil {
		return nil, recordStart, err
	}
	if off+int(rdlen) > len(msg) {
		return nil, recordStart, fmt.Errorf("%w: rdlength overruns message", ErrMalformedWire)
	}

	rr := newByType(RecordType(rrType))
	*rr.Header() = RRHeader{Name: name, Type: RecordType(rrType), Class: RecordClass(rrClass), TTL: int32(ttl)}

	if err := rr.unpackRData(msg, off, int(rdlen)); err != nil {
		return nil, recordStart, err
	}
	return rr, off + int(rdlen), nil
}
