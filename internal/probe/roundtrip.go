package probe

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bluenviron/jpegstreamer/pkg/codecs/jpeg"
	"github.com/bluenviron/jpegstreamer/pkg/format"
	"github.com/bluenviron/jpegstreamer/pkg/format/rtpmjpeg"
)

// RoundTrip is the result of sending an image through the RTP packetizer
// and rebuilding it with the depacketizer.
type RoundTrip struct {
	Packets int
	Err     error
}

func runRoundTrip(image []byte) *RoundTrip {
	rt := &RoundTrip{}
	rt.Packets, rt.Err = roundTrip(image)
	return rt
}

func roundTrip(image []byte) (int, error) {
	var qd1 jpeg.QuantizationData
	pay1 := (&jpeg.Parser{}).Parse(image, 0, &qd1)
	if !pay1.IsValid() {
		return 0, fmt.Errorf("invalid image")
	}

	// the format goes through SDP, as it would between a sender and a receiver.
	md := (&format.MJPEG{Width: pay1.Width * 8, Height: pay1.Height * 8}).MediaDescription(0, "")

	tmp, err := format.Unmarshal(md, md.MediaName.Formats[0])
	if err != nil {
		return 0, err
	}

	forma, ok := tmp.(*format.MJPEG)
	if !ok {
		return 0, fmt.Errorf("unexpected format %T", tmp)
	}

	enc, err := forma.CreateEncoder()
	if err != nil {
		return 0, err
	}

	pkts, err := enc.EncodePayload(&pay1, &qd1)
	if err != nil {
		return 0, err
	}

	dec, err := forma.CreateDecoder()
	if err != nil {
		return 0, err
	}

	var decoded []byte

	for _, pkt := range pkts {
		decoded, err = dec.Decode(pkt)
		if err != nil && !errors.Is(err, rtpmjpeg.ErrMorePacketsNeeded) {
			return 0, err
		}
	}

	if decoded == nil {
		return 0, fmt.Errorf("no image decoded")
	}

	var qd2 jpeg.QuantizationData
	pay2 := (&jpeg.Parser{}).Parse(decoded, 0, &qd2)

	switch {
	case !pay2.IsValid():
		return 0, fmt.Errorf("decoded image is invalid")

	case pay1.Type != pay2.Type:
		return 0, fmt.Errorf("type mismatch: %d != %d", pay1.Type, pay2.Type)

	case pay1.Width != pay2.Width || pay1.Height != pay2.Height:
		return 0, fmt.Errorf("size mismatch: %dx%d != %dx%d",
			pay1.Width, pay1.Height, pay2.Width, pay2.Height)

	case pay1.Restart.Interval != pay2.Restart.Interval:
		return 0, fmt.Errorf("restart interval mismatch: %d != %d",
			pay1.Restart.Interval, pay2.Restart.Interval)

	case qd1.Precision != qd2.Precision || !bytes.Equal(qd1.Tables, qd2.Tables):
		return 0, fmt.Errorf("quantization tables mismatch")

	case !bytes.HasPrefix(pay2.Data.Bytes(), pay1.Data.Bytes()):
		return 0, fmt.Errorf("scan data mismatch")
	}

	return len(pkts), nil
}
