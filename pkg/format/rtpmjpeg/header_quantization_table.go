package rtpmjpeg

import (
	"fmt"
)

// tableSize returns the size of table i given a precision mask.
func tableSize(precision uint8, i int) int {
	if (precision>>i)&0x01 != 0 {
		return 128
	}
	return 64
}

type headerQuantizationTable struct {
	MBZ       uint8
	Precision uint8
	Tables    [][]byte
}

func (h *headerQuantizationTable) unmarshal(byts []byte) (int, error) {
	if len(byts) < 4 {
		return 0, fmt.Errorf("buffer is too short")
	}

	h.MBZ = byts[0]
	h.Precision = byts[1]

	length := int(byts[2])<<8 | int(byts[3])
	if length == 0 {
		return 0, fmt.Errorf("quantization tables not included")
	}

	if (len(byts) - 4) < length {
		return 0, fmt.Errorf("buffer is too short")
	}

	h.Tables = h.Tables[:0]
	n := 0

	for i := 0; n < length; i++ {
		if i >= 2 {
			return 0, fmt.Errorf("too many quantization tables")
		}

		size := tableSize(h.Precision, i)
		if (length - n) < size {
			return 0, fmt.Errorf("table length %d is not supported", length)
		}

		h.Tables = append(h.Tables, byts[4+n:4+n+size])
		n += size
	}

	return 4 + length, nil
}

func (h headerQuantizationTable) marshal(byts []byte) []byte {
	byts = append(byts, h.MBZ)
	byts = append(byts, h.Precision)

	l := 0
	for _, t := range h.Tables {
		l += len(t)
	}
	byts = append(byts, []byte{byte(l >> 8), byte(l)}...)

	for i := 0; i < len(h.Tables); i++ {
		byts = append(byts, h.Tables[i]...)
	}

	return byts
}
