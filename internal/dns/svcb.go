package dns

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kestreldns/dnscore/internal/helpers"
)

func init() {
	register(TypeSVCB, func() RR { return &SVCBRecord{T: TypeSVCB} })
	register(TypeHTTPS, func() RR { return &SVCBRecord{T: TypeHTTPS} })
}

// Well-known SvcB/HTTPS parameter keys (RFC 9460 §14.3).
const (
	SvcParamMandatory     uint16 = 0
	SvcParamALPN          uint16 = 1
	SvcParamNoDefaultALPN uint16 = 2
	SvcParamPort          uint16 = 3
	SvcParamIPv4Hint      uint16 = 4
	SvcParamECH           uint16 = 5
	SvcParamIPv6Hint      uint16 = 6
)

var svcParamKeyNames = map[uint16]string{
	SvcParamMandatory: "mandatory", SvcParamALPN: "alpn", SvcParamNoDefaultALPN: "no-default-alpn",
	SvcParamPort: "port", SvcParamIPv4Hint: "ipv4hint", SvcParamECH: "ech", SvcParamIPv6Hint: "ipv6hint",
}

// SVCBParam is one ordered (key, opaque value) entry in a SvcB/HTTPS
// parameter list (§4.4). Keys MUST appear in strictly ascending order with
// no duplicates; unknown keys pass their value through as raw bytes.
type SVCBParam struct {
	Key   uint16
	Value []byte
}

// SVCBRecord publishes service binding parameters (RFC 9460 §2); it also
// backs HTTPS, which shares identical wire and text form.
type SVCBRecord struct {
	H        RRHeader
	T        RecordType
	Priority uint16
	Target   DomainName
	Params   []SVCBParam
}

func (r *SVCBRecord) Header() *RRHeader { return &r.H }
func (r *SVCBRecord) Type() RecordType  { return r.T }

func (r *SVCBRecord) maxRDataLen() int {
	n := 2 + r.Target.EncodedLen()
	for _, p := range r.Params {
		n += 4 + len(p.Value)
	}
	return n
}

func (r *SVCBRecord) packRData(buf []byte, _ compressionDict, canonical bool) ([]byte, error) {
	if err := validateSVCBParamOrder(r.Params); err != nil {
		return nil, err
	}
	buf = putUint16(buf, r.Priority)
	var err error
	buf, err = EncodeName(buf, r.Target, nil, canonical)
	if err != nil {
		return nil, err
	}
	for _, p := range r.Params {
		if len(p.Value) > 0xFFFF {
			return nil, fmt.Errorf("%w: SvcB parameter value exceeds 65535 octets", ErrMalformedWire)
		}
		buf = putUint16(buf, p.Key)
		buf = putUint16(buf, helpers.ClampIntToUint16(len(p.Value)))
		buf = append(buf, p.Value...)
	}
	return buf, nil
}

func (r *SVCBRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	priority, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	target, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	var params []SVCBParam
	for off < end {
		key, next, err := readUint16(msg, off)
		if err != nil {
			return err
		}
		off = next
		vlen, next, err := readUint16(msg, off)
		if err != nil {
			return err
		}
		off = next
		if off+int(vlen) > end {
			return fmt.Errorf("%w: SvcB parameter value overruns rdata", ErrMalformedWire)
		}
		value, next, err := readBytes(msg, off, int(vlen))
		if err != nil {
			return err
		}
		off = next
		params = append(params, SVCBParam{Key: key, Value: value})
	}
	if err := validateSVCBParamOrder(params); err != nil {
		return err
	}
	r.Priority, r.Target, r.Params = priority, target, params
	return requireExact(off, end)
}

// validateSVCBParamOrder enforces §4.4: parameters are strictly ascending
// by key, duplicates rejected.
func validateSVCBParamOrder(params []SVCBParam) error {
	for i := 1; i < len(params); i++ {
		if params[i].Key <= params[i-1].Key {
			return fmt.Errorf("%w: SvcB parameter keys must be strictly ascending", ErrUnsupported)
		}
	}
	return nil
}

func (r *SVCBRecord) packMasterRData() (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", r.Priority, r.Target.String())
	for _, p := range r.Params {
		b.WriteByte(' ')
		b.WriteString(formatSVCBParam(p))
	}
	return b.String(), nil
}

func formatSVCBParam(p SVCBParam) string {
	name, known := svcParamKeyNames[p.Key]
	if !known {
		name = fmt.Sprintf("key%d", p.Key)
	}
	switch p.Key {
	case SvcParamNoDefaultALPN:
		return name
	case SvcParamPort:
		if len(p.Value) == 2 {
			return fmt.Sprintf("%s=%d", name, (int(p.Value[0])<<8)|int(p.Value[1]))
		}
	case SvcParamALPN:
		return fmt.Sprintf("%s=%q", name, string(p.Value))
	}
	if len(p.Value) == 0 {
		return name
	}
	return fmt.Sprintf("%s=%s", name, EncodeBase64(p.Value))
}

func (r *SVCBRecord) unpackMasterRData(origin DomainName, fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("%w: %s record requires priority and target fields", ErrMalformedMasterFile, r.T.TypeName())
	}
	priority, err := ParseUint16Field(fields[0])
	if err != nil {
		return err
	}
	target, err := ParseName(fields[1], origin)
	if err != nil {
		return err
	}
	params := make([]SVCBParam, 0, len(fields)-2)
	for _, f := range fields[2:] {
		p, err := parseSVCBParam(f)
		if err != nil {
			return err
		}
		params = append(params, p)
	}
	sort.Slice(params, func(i, j int) bool { return params[i].Key < params[j].Key })
	if err := validateSVCBParamOrder(params); err != nil {
		return err
	}
	r.Priority, r.Target, r.Params = priority, target, params
	return nil
}

func parseSVCBParam(f string) (SVCBParam, error) {
	name, val, hasVal := strings.Cut(f, "=")
	key, err := svcParamKeyFromName(name)
	if err != nil {
		return SVCBParam{}, err
	}
	if !hasVal {
		return SVCBParam{Key: key}, nil
	}
	val = strings.Trim(val, `"`)
	switch key {
	case SvcParamPort:
		p, err := strconv.ParseUint(val, 10, 16)
		if err != nil {
			return SVCBParam{}, fmt.Errorf("%w: invalid port parameter %q", ErrMalformedMasterFile, val)
		}
		return SVCBParam{Key: key, Value: []byte{byte(p >> 8), byte(p)}}, nil
	case SvcParamALPN:
		return SVCBParam{Key: key, Value: []byte(val)}, nil
	default:
		b, err := DecodeBase64(val)
		if err != nil {
			return SVCBParam{}, err
		}
		return SVCBParam{Key: key, Value: b}, nil
	}
}

func svcParamKeyFromName(name string) (uint16, error) {
	for k, n := range svcParamKeyNames {
		if n == name {
			return k, nil
		}
	}
	if strings.HasPrefix(name, "key") {
		v, err := strconv.ParseUint(name[3:], 10, 16)
		if err == nil {
			return uint16(v), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown SvcB parameter key %q", ErrMalformedMasterFile, name)
}
