package jpeg

// reader is a bounds-checked sequential reader.
// Reads past the end of the buffer return zero and leave the offset untouched.
type reader struct {
	buf    []byte
	offset int
}

func (r *reader) size() int {
	return len(r.buf)
}

func (r *reader) remaining() int {
	if r.offset >= len(r.buf) {
		return 0
	}
	return len(r.buf) - r.offset
}

func (r *reader) readUint8() uint8 {
	if r.remaining() < 1 {
		return 0
	}

	v := r.buf[r.offset]
	r.offset++
	return v
}

func (r *reader) readUint16() uint16 {
	if r.remaining() < 2 {
		return 0
	}

	v := uint16(r.buf[r.offset])<<8 | uint16(r.buf[r.offset+1])
	r.offset += 2
	return v
}

// nextMarker moves to the byte after the next marker code and returns it.
// It returns false when the buffer ends before a marker is found.
func (r *reader) nextMarker() (Marker, bool) {
	b := r.readUint8()

	for b != MarkerPrefix && r.offset < len(r.buf) {
		b = r.readUint8()
	}

	if r.offset >= len(r.buf) {
		return 0, false
	}

	return Marker(r.readUint8()), true
}

// scanMarker is like nextMarker, but returns EOI when no marker is found.
func (r *reader) scanMarker() Marker {
	m, ok := r.nextMarker()
	if !ok {
		return MarkerEndOfImage
	}
	return m
}

// skipSegment jumps over a segment by using its length field.
func (r *reader) skipSegment(m Marker) error {
	if r.offset+1 >= len(r.buf) {
		return ErrSegmentTooShort{Marker: m}
	}

	l := int(r.readUint16())

	if l-2+r.offset > len(r.buf) {
		return ErrSegmentTooShort{Marker: m}
	}

	if l > 2 {
		r.offset += l - 2
	}

	return nil
}
