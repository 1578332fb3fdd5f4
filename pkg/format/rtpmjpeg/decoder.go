package rtpmjpeg

import (
	"errors"
	"fmt"

	"github.com/pion/rtp"

	"github.com/bluenviron/jpegstreamer/pkg/codecs/jpeg"
)

// ErrMorePacketsNeeded is returned when more packets are needed.
var ErrMorePacketsNeeded = errors.New("need more packets")

// ErrNonStartingPacketAndNoPrevious is returned when we received a non-starting
// fragment of an image and we didn't received anything before.
// It's normal to receive this when we are decoding a stream that has been already
// running for some time.
var ErrNonStartingPacketAndNoPrevious = errors.New(
	"received a non-starting fragment without any previous starting fragment")

// Decoder is a RTP/M-JPEG decoder.
// Specification: https://datatracker.ietf.org/doc/html/rfc2435
type Decoder struct {
	firstPacketReceived bool
	fragmentsSize       int
	fragments           [][]byte
	firstJpegHeader     headerJPEG
	restartHeader       headerRestartMarker
	tables              [][]byte
}

// Init initializes the decoder.
func (d *Decoder) Init() error {
	return nil
}

func (d *Decoder) resetFragments() {
	d.fragments = d.fragments[:0]
	d.fragmentsSize = 0
}

// Decode decodes an image from a RTP packet.
func (d *Decoder) Decode(pkt *rtp.Packet) ([]byte, error) {
	byts := pkt.Payload

	var jh headerJPEG
	n, err := jh.unmarshal(byts)
	if err != nil {
		d.resetFragments()
		return nil, err
	}
	byts = byts[n:]

	if jh.Width == 0 || jh.Height == 0 {
		d.resetFragments()
		return nil, fmt.Errorf("invalid size %dx%d", jh.Width, jh.Height)
	}

	var rh headerRestartMarker
	if jh.hasRestartMarkers() {
		n, err = rh.unmarshal(byts)
		if err != nil {
			d.resetFragments()
			return nil, err
		}
		byts = byts[n:]
	}

	if jh.FragmentOffset == 0 {
		d.resetFragments() // discard pending fragmented packets

		if jh.hasRestartMarkers() && !rh.First {
			return nil, fmt.Errorf("first fragment doesn't start a restart interval")
		}

		if jh.Quantization >= 128 {
			var qth headerQuantizationTable
			n, err = qth.unmarshal(byts)
			if err != nil {
				return nil, err
			}
			byts = byts[n:]

			// tables point into the packet, that is owned by the caller.
			d.tables = d.tables[:0]
			for _, t := range qth.Tables {
				d.tables = append(d.tables, append([]byte(nil), t...))
			}
		} else {
			luma, chroma := makeTables(jh.Quantization)
			d.tables = [][]byte{luma, chroma}
		}

		d.fragmentsSize = len(byts)
		d.fragments = append(d.fragments, byts)
		d.firstJpegHeader = jh
		d.restartHeader = rh
		d.firstPacketReceived = true
	} else {
		if len(d.fragments) == 0 {
			if !d.firstPacketReceived {
				return nil, ErrNonStartingPacketAndNoPrevious
			}

			return nil, fmt.Errorf("received a non-starting fragment")
		}

		if int(jh.FragmentOffset) != d.fragmentsSize {
			d.resetFragments() // discard pending fragmented packets
			return nil, fmt.Errorf("received wrong fragment")
		}

		if jh.hasRestartMarkers() != d.firstJpegHeader.hasRestartMarkers() ||
			rh.Interval != d.restartHeader.Interval {
			d.resetFragments()
			return nil, fmt.Errorf("restart interval changed")
		}

		d.fragmentsSize += len(byts)
		d.fragments = append(d.fragments, byts)
	}

	if !pkt.Marker {
		return nil, ErrMorePacketsNeeded
	}

	// the frame is complete only if its last restart interval is complete.
	if jh.hasRestartMarkers() && !rh.Last {
		d.resetFragments()
		return nil, fmt.Errorf("last fragment doesn't end a restart interval")
	}

	data := make([]byte, d.fragmentsSize)
	pos := 0

	for _, frag := range d.fragments {
		pos += copy(data[pos:], frag)
	}

	d.resetFragments()

	return d.marshalImage(data), nil
}

func (d *Decoder) marshalImage(data []byte) []byte {
	var buf []byte

	buf = jpeg.StartOfImage{}.Marshal(buf)

	var dqt jpeg.DefineQuantizationTable
	id := uint8(0)
	for _, t := range d.tables {
		var precision uint8
		if len(t) == 128 {
			precision = 1
		}

		dqt.Tables = append(dqt.Tables, jpeg.QuantizationTable{
			ID:        id,
			Precision: precision,
			Data:      t,
		})
		id++
	}
	buf = dqt.Marshal(buf)

	buf = jpeg.StartOfFrame1{
		Type:                   d.firstJpegHeader.Type,
		Width:                  d.firstJpegHeader.Width,
		Height:                 d.firstJpegHeader.Height,
		QuantizationTableCount: id,
	}.Marshal(buf)

	if d.firstJpegHeader.hasRestartMarkers() {
		buf = jpeg.DefineRestartInterval{
			Interval: d.restartHeader.Interval,
		}.Marshal(buf)
	}

	buf = jpeg.DefineHuffmanTable{
		Codes:       lumDcCodeLens,
		Symbols:     lumDcSymbols,
		TableNumber: 0,
		TableClass:  0,
	}.Marshal(buf)

	buf = jpeg.DefineHuffmanTable{
		Codes:       lumAcCodelens,
		Symbols:     lumAcSymbols,
		TableNumber: 0,
		TableClass:  1,
	}.Marshal(buf)

	buf = jpeg.DefineHuffmanTable{
		Codes:       chmDcCodelens,
		Symbols:     chmDcSymbols,
		TableNumber: 1,
		TableClass:  0,
	}.Marshal(buf)

	buf = jpeg.DefineHuffmanTable{
		Codes:       chmAcCodelens,
		Symbols:     chmAcSymbols,
		TableNumber: 1,
		TableClass:  1,
	}.Marshal(buf)

	buf = jpeg.StartOfScan{}.Marshal(buf)

	buf = append(buf, data...)

	if len(data) < 2 || data[len(data)-2] != 0xFF || data[len(data)-1] != jpeg.MarkerEndOfImage {
		buf = jpeg.EndOfImage{}.Marshal(buf)
	}

	return buf
}
