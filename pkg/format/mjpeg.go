package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pion/rtp"
	psdp "github.com/pion/sdp/v3"

	"github.com/bluenviron/jpegstreamer/pkg/format/rtpmjpeg"
)

// MJPEG is the RTP format for the Motion-JPEG codec.
// Specification: https://datatracker.ietf.org/doc/html/rfc2435
type MJPEG struct {
	// size of images, in pixels (optional).
	Width  int
	Height int

	// frames per second (optional).
	FrameRate float64
}

func (f *MJPEG) unmarshal(ctx *unmarshalContext) error {
	if ctx.mediaType != "" && ctx.mediaType != "video" {
		return fmt.Errorf("invalid media type: %v", ctx.mediaType)
	}

	if v := getFormatAttribute(ctx.attributes, ctx.payloadType, "framesize"); v != "" {
		parts := strings.SplitN(v, "-", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid framesize: %v", v)
		}

		w, err := strconv.ParseUint(parts[0], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid framesize: %v", v)
		}

		h, err := strconv.ParseUint(parts[1], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid framesize: %v", v)
		}

		f.Width = int(w)
		f.Height = int(h)
	}

	if v := getAttribute(ctx.attributes, "framerate"); v != "" {
		tmp, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid framerate: %v", v)
		}
		f.FrameRate = tmp
	}

	return nil
}

// Codec implements Format.
func (f *MJPEG) Codec() string {
	return "M-JPEG"
}

// ClockRate implements Format.
func (f *MJPEG) ClockRate() int {
	return rtpmjpeg.ClockRate
}

// PayloadType implements Format.
func (f *MJPEG) PayloadType() uint8 {
	return rtpmjpeg.PayloadType
}

// RTPMap implements Format.
func (f *MJPEG) RTPMap() string {
	return "JPEG/90000"
}

// FMTP implements Format.
func (f *MJPEG) FMTP() map[string]string {
	return nil
}

// PTSEqualsDTS implements Format.
func (f *MJPEG) PTSEqualsDTS(*rtp.Packet) bool {
	return true
}

// MediaDescription returns a SDP media description of the format.
func (f *MJPEG) MediaDescription(port int, control string) *psdp.MediaDescription {
	pt := strconv.FormatUint(uint64(f.PayloadType()), 10)

	md := &psdp.MediaDescription{
		MediaName: psdp.MediaName{
			Media:   "video",
			Port:    psdp.RangedPort{Value: port},
			Protos:  []string{"RTP", "AVP"},
			Formats: []string{pt},
		},
		Attributes: []psdp.Attribute{
			{
				Key:   "rtpmap",
				Value: pt + " " + f.RTPMap(),
			},
		},
	}

	if f.Width > 0 && f.Height > 0 {
		md.Attributes = append(md.Attributes, psdp.Attribute{
			Key:   "framesize",
			Value: pt + " " + strconv.FormatInt(int64(f.Width), 10) + "-" + strconv.FormatInt(int64(f.Height), 10),
		})
	}

	if f.FrameRate > 0 {
		md.Attributes = append(md.Attributes, psdp.Attribute{
			Key:   "framerate",
			Value: strconv.FormatFloat(f.FrameRate, 'f', 6, 64),
		})
	}

	if control != "" {
		md.Attributes = append(md.Attributes, psdp.Attribute{
			Key:   "control",
			Value: control,
		})
	}

	return md
}

// CreateDecoder creates a decoder able to decode the content of the format.
func (f *MJPEG) CreateDecoder() (*rtpmjpeg.Decoder, error) {
	d := &rtpmjpeg.Decoder{}

	err := d.Init()
	if err != nil {
		return nil, err
	}

	return d, nil
}

// CreateEncoder creates an encoder able to encode the content of the format.
func (f *MJPEG) CreateEncoder() (*rtpmjpeg.Encoder, error) {
	e := &rtpmjpeg.Encoder{}

	err := e.Init()
	if err != nil {
		return nil, err
	}

	return e, nil
}
