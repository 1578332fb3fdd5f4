package rtpmjpeg

import (
	"fmt"

	"github.com/bluenviron/jpegstreamer/pkg/codecs/jpeg"
)

// headerRestartMarker is the restart marker header.
// Specification: RFC2435, section 3.1.7
type headerRestartMarker struct {
	Interval uint16

	// the packet starts a restart interval.
	First bool

	// the packet ends a restart interval.
	Last bool

	// 14 bits. When First and Last are set and Count is 0x3FFF,
	// the whole frame must be reassembled before decoding.
	Count uint16
}

func newHeaderRestartMarker(rh jpeg.RestartMarkerHeader) headerRestartMarker {
	return headerRestartMarker{
		Interval: rh.Interval,
		First:    (rh.Count & 0x8000) != 0,
		Last:     (rh.Count & 0x4000) != 0,
		Count:    rh.Count & 0x3FFF,
	}
}

func (h *headerRestartMarker) unmarshal(byts []byte) (int, error) {
	if len(byts) < 4 {
		return 0, fmt.Errorf("buffer is too short")
	}

	h.Interval = uint16(byts[0])<<8 | uint16(byts[1])
	h.First = (byts[2] >> 7) != 0
	h.Last = ((byts[2] >> 6) & 0x01) != 0
	h.Count = uint16(byts[2]&0x3F)<<8 | uint16(byts[3])
	return 4, nil
}

func (h headerRestartMarker) marshal(byts []byte) []byte {
	b := byte(h.Count>>8) & 0x3F
	if h.First {
		b |= 0x80
	}
	if h.Last {
		b |= 0x40
	}

	return append(byts, byte(h.Interval>>8), byte(h.Interval), b, byte(h.Count))
}
