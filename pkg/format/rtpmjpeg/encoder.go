package rtpmjpeg

import (
	"crypto/rand"
	"fmt"

	"github.com/pion/rtp"

	"github.com/bluenviron/jpegstreamer/pkg/codecs/jpeg"
)

const (
	defaultPayloadMaxSize = 1460 // 1500 (UDP MTU) - 20 (IP header) - 8 (UDP header) - 12 (RTP header)
)

func randUint32() (uint32, error) {
	var b [4]byte
	_, err := rand.Read(b[:])
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// Encoder is a RTP/M-JPEG encoder.
// Specification: https://datatracker.ietf.org/doc/html/rfc2435
type Encoder struct {
	// SSRC of packets (optional).
	// It defaults to a random value.
	SSRC *uint32

	// initial sequence number of packets (optional).
	// It defaults to a random value.
	InitialSequenceNumber *uint16

	// maximum size of packet payloads (optional).
	// It defaults to 1460.
	PayloadMaxSize int

	// called when a non-fatal error is found while parsing images (optional).
	OnDecodeError func(error)

	sequenceNumber uint16
	parser         *jpeg.Parser
	qd             jpeg.QuantizationData
}

// Init initializes the encoder.
func (e *Encoder) Init() error {
	if e.SSRC == nil {
		v, err := randUint32()
		if err != nil {
			return err
		}
		e.SSRC = &v
	}
	if e.InitialSequenceNumber == nil {
		v, err := randUint32()
		if err != nil {
			return err
		}
		v2 := uint16(v)
		e.InitialSequenceNumber = &v2
	}
	if e.PayloadMaxSize == 0 {
		e.PayloadMaxSize = defaultPayloadMaxSize
	}

	e.sequenceNumber = *e.InitialSequenceNumber
	e.parser = &jpeg.Parser{OnDecodeError: e.OnDecodeError}
	return nil
}

// Encode encodes an image into RTP/M-JPEG packets.
func (e *Encoder) Encode(image []byte) ([]*rtp.Packet, error) {
	e.qd.Reset()

	pay := e.parser.Parse(image, 0, &e.qd)
	if !pay.IsValid() {
		return nil, fmt.Errorf("invalid image")
	}

	return e.EncodePayload(&pay, &e.qd)
}

// EncodePayload encodes a payload built by jpeg.Parser into RTP/M-JPEG packets.
// Timestamps of packets are left to the caller.
func (e *Encoder) EncodePayload(pay *jpeg.Payload, qd *jpeg.QuantizationData) ([]*rtp.Packet, error) {
	if !pay.IsValid() {
		return nil, fmt.Errorf("invalid payload")
	}

	if pay.Width == 0 || pay.Height == 0 {
		return nil, fmt.Errorf("an image with size bigger than %dx%d can't be sent with RTP", maxDimension, maxDimension)
	}

	data := pay.Data.Bytes()
	if len(data) == 0 {
		return nil, fmt.Errorf("image data not found")
	}

	jh := headerJPEG{
		TypeSpecific: 0,
		Type:         pay.Type,
		Quantization: pay.Quantization,
		Width:        pay.Width * 8,
		Height:       pay.Height * 8,
	}

	var qth *headerQuantizationTable
	if pay.Quantization >= 128 {
		var err error
		qth, err = newHeaderQuantizationTable(qd)
		if err != nil {
			return nil, err
		}
	}

	var rh *headerRestartMarker
	if pay.HasRestartMarkers() {
		tmp := newHeaderRestartMarker(pay.Restart)
		rh = &tmp
	}

	first := true
	offset := 0
	var ret []*rtp.Packet

	for {
		var buf []byte

		jh.FragmentOffset = uint32(offset)
		buf = jh.marshal(buf)

		if rh != nil {
			buf = rh.marshal(buf)
		}

		if first {
			first = false

			if qth != nil {
				buf = qth.marshal(buf)
			}
		}

		remaining := e.PayloadMaxSize - len(buf)
		if remaining <= 0 {
			return nil, fmt.Errorf("payload max size (%d) is too small", e.PayloadMaxSize)
		}

		ldata := len(data)
		if remaining > ldata {
			remaining = ldata
		}

		buf = append(buf, data[:remaining]...)
		data = data[remaining:]
		offset += remaining

		ret = append(ret, &rtp.Packet{
			Header: rtp.Header{
				Version:        rtpVersion,
				PayloadType:    PayloadType,
				SequenceNumber: e.sequenceNumber,
				SSRC:           *e.SSRC,
				Marker:         len(data) == 0,
			},
			Payload: buf,
		})
		e.sequenceNumber++

		if len(data) == 0 {
			break
		}
	}

	return ret, nil
}

func newHeaderQuantizationTable(qd *jpeg.QuantizationData) (*headerQuantizationTable, error) {
	qth := &headerQuantizationTable{
		Precision: qd.Precision,
	}

	tables := qd.Tables

	for i := 0; i < 2 && len(tables) != 0; i++ {
		size := tableSize(qd.Precision, i)
		if len(tables) < size {
			return nil, fmt.Errorf("quantization table %d is too short", i)
		}

		qth.Tables = append(qth.Tables, tables[:size])
		tables = tables[size:]
	}

	if len(qth.Tables) == 0 {
		return nil, fmt.Errorf("quantization tables not found")
	}

	if len(tables) != 0 {
		return nil, fmt.Errorf("too many quantization tables")
	}

	return qth, nil
}
