package dns

// Question is one entry of a DNS question section (RFC 1035 §4.1.2).
type Question struct {
	Name  DomainName
	Type  RecordType
	Class RecordClass
}

func (q Question) marshal(buf []byte, dict compressionDict, canonical bool) ([]byte, error) {
	name := q.Name
	if canonical {
		name = name.Canonical()
	}
	var err error
	buf, err = EncodeName(buf, name, dict, canonical)
	if err != nil {
		return nil, err
	}
	buf = putUint16(buf, uint16(q.Type))
	buf = putUint16(buf, uint16(q.Class))
	return buf, nil
}

func unmarshalQuestion(msg []byte, off int) (Question, int, error) {
	name, off, err := DecodeName(msg, off)
	if err != nil {
		return Question{}, off, err
	}
	t, off, err := readUint16(msg, off)
	if err != nil {
		return Question{}, off, err
	}
	c, off, err := readUint16(msg, off)
	if err != nil {
		return Question{}, off, err
	}
	return Question{Name: name, Type: RecordType(t), Class: RecordClass(c)}, off, nil
}
