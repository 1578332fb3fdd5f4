package jpeg

// restart count that tells receivers to reassemble the whole frame before decoding.
// RFC 2435, section 3.1.7.
const restartCountWholeFrame = 0xFFFF

// DefineRestartInterval is a DRI segment.
type DefineRestartInterval struct {
	Interval uint16
}

// Marshal encodes the segment.
func (m DefineRestartInterval) Marshal(buf []byte) []byte {
	buf = append(buf, []byte{0xFF, MarkerDefineRestartInterval}...)
	buf = append(buf, []byte{0, 4}...) // length
	buf = append(buf, []byte{byte(m.Interval >> 8), byte(m.Interval)}...)
	return buf
}

// readRestartInterval reads a DRI segment, starting from its length field.
// It returns whether restart markers are in use.
func readRestartInterval(r *reader, dri *RestartMarkerHeader) (bool, error) {
	if r.offset+4 > r.size() {
		return false, ErrDRIWrongSize{}
	}

	l := r.readUint16()
	if l < 4 {
		// length has already been consumed
		if l > 2 {
			r.offset += int(l) - 2
		}
		return false, ErrDRIWrongLength{Length: l}
	}

	dri.Interval = r.readUint16()
	dri.Count = restartCountWholeFrame

	r.offset += int(l) - 4
	if r.offset > r.size() {
		return false, ErrDRIWrongSize{}
	}

	return dri.Interval > 0, nil
}
