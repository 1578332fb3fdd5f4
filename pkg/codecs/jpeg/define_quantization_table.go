package jpeg

// QuantizationTable is a quantization table defined by a DQT segment.
type QuantizationTable struct {
	ID        uint8
	Precision uint8
	Data      []byte
}

// DefineQuantizationTable is a DQT segment.
type DefineQuantizationTable struct {
	Tables []QuantizationTable
}

// Marshal encodes the segment.
func (m DefineQuantizationTable) Marshal(buf []byte) []byte {
	buf = append(buf, []byte{0xFF, MarkerDefineQuantizationTable}...)

	// length
	s := 2
	for _, t := range m.Tables {
		s += 1 + len(t.Data)
	}
	buf = append(buf, []byte{byte(s >> 8), byte(s)}...)

	for _, t := range m.Tables {
		buf = append(buf, []byte{t.Precision<<4 | t.ID}...)
		buf = append(buf, t.Data...)
	}

	return buf
}

// quantizationSlot is a table found by readQuantizationTables.
// Size is zero when the slot is empty.
type quantizationSlot struct {
	Size int
	Data View
}

// readQuantizationTables reads a DQT segment, starting from its length field.
// Tables read before an error remain valid.
func readQuantizationTables(r *reader, tables *[maxQuantizationTable]quantizationSlot) error {
	if r.size() <= r.offset+1 {
		return ErrDQTTooShort{}
	}

	l := r.readUint16()
	if l < 2 {
		return ErrDQTSmallSize{Length: l}
	}

	size := int(l)

	// clamp to available data
	if r.offset+size > r.size() {
		size = r.size() - r.offset
	}

	size -= 2

	for size > 0 {
		if r.offset+1 > r.size() {
			break
		}

		b := r.readUint8()

		id := b & 0x0F
		if id == 15 {
			return ErrDQTInvalidID{}
		}

		tableSize := 64
		if (b >> 4) != 0 {
			tableSize = 128
		}

		if size < tableSize+1 {
			return ErrDQTNoTable{
				Remaining: size,
				Needed:    tableSize + 1,
			}
		}

		tables[id] = quantizationSlot{
			Size: tableSize,
			Data: newView(r.buf, r.offset, tableSize),
		}

		size -= tableSize + 1
		r.offset += tableSize
	}

	return nil
}
