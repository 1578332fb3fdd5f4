package jpeg

// ComponentInfo describes a component of a frame.
type ComponentInfo struct {
	ID                uint8
	Sampling          uint8
	QuantizationTable uint8
}

// StartOfFrame1 is a SOF0 segment (baseline DCT) with 3 components.
type StartOfFrame1 struct {
	Type                   uint8
	Width                  int // pixels
	Height                 int // pixels
	QuantizationTableCount uint8
}

// Marshal encodes the segment.
func (m StartOfFrame1) Marshal(buf []byte) []byte {
	buf = append(buf, []byte{0xFF, MarkerStartOfFrame1}...)
	buf = append(buf, []byte{0, startOfFrameMinSize}...)             // length
	buf = append(buf, []byte{8}...)                                   // precision
	buf = append(buf, []byte{byte(m.Height >> 8), byte(m.Height)}...) // height
	buf = append(buf, []byte{byte(m.Width >> 8), byte(m.Width)}...)   // width
	buf = append(buf, []byte{3}...)                                   // components
	if (m.Type & 0x3f) == 0 {                                         // component 0
		buf = append(buf, []byte{0x00, 0x21, 0}...)
	} else {
		buf = append(buf, []byte{0x00, 0x22, 0}...)
	}

	var secondQuantizationTable byte
	if m.QuantizationTableCount == 2 {
		secondQuantizationTable = 1
	}

	buf = append(buf, []byte{1, 0x11, secondQuantizationTable}...) // component 1
	buf = append(buf, []byte{2, 0x11, secondQuantizationTable}...) // component 2
	return buf
}

func roundUp8(v uint16) int {
	return (int(v) + 7) &^ 7
}

// readStartOfFrame reads a SOF0 segment, starting from its length field.
// Dimensions are written into pay as soon as they are read.
func readStartOfFrame(r *reader, pay *Payload, info *[3]ComponentInfo) error {
	if r.offset+startOfFrameMinSize > r.size() {
		return ErrSOFWrongSize{
			Size:   r.size(),
			Needed: r.offset + startOfFrameMinSize,
		}
	}

	l := r.readUint16()
	if l < startOfFrameMinSize {
		return ErrSOFWrongLength{Length: l}
	}

	precision := r.readUint8()
	if precision != 8 {
		return ErrSOFBadPrecision{Precision: precision}
	}

	height := r.readUint16()
	width := r.readUint16()

	if height == 0 || width == 0 {
		return ErrSOFInvalidDimension{Width: width, Height: height}
	}

	if height > maxDimension {
		height = 0
	}
	if width > maxDimension {
		width = 0
	}

	if height == 0 || width == 0 {
		pay.Height = 0
		pay.Width = 0
	} else {
		pay.Height = roundUp8(height) / 8
		pay.Width = roundUp8(width) / 8
	}

	count := r.readUint8()
	if count != 3 {
		return ErrSOFBadComponents{Count: count}
	}

	// insertion from the last element to the first.
	// Slot 0 is never shifted and the first two components keep their order.
	n := 0
	for i := 0; i < 3; i++ {
		elem := ComponentInfo{
			ID:                r.readUint8(),
			Sampling:          r.readUint8(),
			QuantizationTable: r.readUint8(),
		}

		j := n
		for ; j > 1; j-- {
			if info[j-1].ID < elem.ID {
				break
			}
			info[j] = info[j-1]
		}
		info[j] = elem
		n++
	}

	switch info[0].Sampling {
	case 0x21:
		pay.Type = 0

	case 0x22:
		pay.Type = 1

	default:
		return ErrSOFInvalidComponent{Sampling: samplings(info)}
	}

	if info[1].Sampling != 0x11 || info[2].Sampling != 0x11 {
		return ErrSOFInvalidComponent{Sampling: samplings(info)}
	}

	return nil
}

func samplings(info *[3]ComponentInfo) [3]uint8 {
	return [3]uint8{info[0].Sampling, info[1].Sampling, info[2].Sampling}
}
