// Package jpeg contains a JPEG/JFIF marker parser that extracts the fields
// needed to send a baseline JPEG image with RTP/JPEG (RFC 2435).
package jpeg

import (
	"fmt"
)

// standard JPEG markers.
const (
	MarkerPrefix                  = 0xFF
	MarkerStartOfFrame1           = 0xC0
	MarkerDefineHuffmanTable      = 0xC4
	MarkerJPG                     = 0xC8
	MarkerStartOfImage            = 0xD8
	MarkerEndOfImage              = 0xD9
	MarkerStartOfScan             = 0xDA
	MarkerDefineQuantizationTable = 0xDB
	MarkerDefineRestartInterval   = 0xDD
	MarkerApplication0            = 0xE0
	MarkerApplication4            = 0xE4
	MarkerApplication15           = 0xEF
	MarkerJPG0                    = 0xF0
	MarkerJPG13                   = 0xFD
	MarkerComment                 = 0xFE
)

// MarkerJFIF is the APP0 marker used by JFIF files.
const MarkerJFIF = MarkerApplication0

const (
	maxDimension         = 2040
	maxQuantizationTable = 15
	startOfFrameMinSize  = 17
)

// Marker is the second byte of a JPEG marker code.
type Marker uint8

// String implements fmt.Stringer.
func (m Marker) String() string {
	switch {
	case m == MarkerStartOfFrame1:
		return "SOF0"
	case m == MarkerDefineHuffmanTable:
		return "DHT"
	case m == MarkerJPG:
		return "JPG"
	case m == MarkerStartOfImage:
		return "SOI"
	case m == MarkerEndOfImage:
		return "EOI"
	case m == MarkerStartOfScan:
		return "SOS"
	case m == MarkerDefineQuantizationTable:
		return "DQT"
	case m == MarkerDefineRestartInterval:
		return "DRI"
	case m == MarkerComment:
		return "COM"
	case m > MarkerStartOfFrame1 && m <= 0xCF && m != 0xCC:
		return fmt.Sprintf("SOF%d", m-MarkerStartOfFrame1)
	case m >= 0xD0 && m <= 0xD7:
		return fmt.Sprintf("RST%d", m-0xD0)
	case m >= MarkerApplication0 && m <= MarkerApplication15:
		return fmt.Sprintf("APP%d", m-MarkerApplication0)
	case m >= MarkerJPG0 && m <= MarkerJPG13:
		return fmt.Sprintf("JPG%d", m-MarkerJPG0)
	}
	return fmt.Sprintf("0x%.2x", uint8(m))
}

// isSkippable returns whether the marker starts a segment that carries
// nothing needed by RTP/JPEG and can be jumped over using its length.
func (m Marker) isSkippable() bool {
	return m == MarkerJPG ||
		(m >= MarkerJPG0 && m <= MarkerJPG13) ||
		(m >= MarkerApplication0 && m <= MarkerApplication15)
}

// hasLength returns whether Parser reads a length field after the marker.
// Other markers are treated as standalone.
func (m Marker) hasLength() bool {
	switch m {
	case MarkerComment,
		MarkerDefineHuffmanTable,
		MarkerStartOfFrame1,
		MarkerDefineQuantizationTable,
		MarkerDefineRestartInterval,
		MarkerStartOfScan:
		return true
	}
	return m.isSkippable()
}
