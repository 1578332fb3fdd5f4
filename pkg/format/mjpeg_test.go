package format

import (
	"testing"

	"github.com/pion/rtp"
	psdp "github.com/pion/sdp/v3"
	"github.com/stretchr/testify/require"
)

func TestMJPEGAttributes(t *testing.T) {
	format := &MJPEG{}
	require.Equal(t, "M-JPEG", format.Codec())
	require.Equal(t, 90000, format.ClockRate())
	require.Equal(t, uint8(26), format.PayloadType())
	require.Equal(t, "JPEG/90000", format.RTPMap())
	require.Equal(t, map[string]string(nil), format.FMTP())
	require.Equal(t, true, format.PTSEqualsDTS(&rtp.Packet{}))
}

func TestMJPEGMediaDescription(t *testing.T) {
	for _, ca := range []struct {
		name    string
		format  *MJPEG
		port    int
		control string
		md      *psdp.MediaDescription
	}{
		{
			"base",
			&MJPEG{},
			0,
			"",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "video",
					Protos:  []string{"RTP", "AVP"},
					Formats: []string{"26"},
				},
				Attributes: []psdp.Attribute{
					{Key: "rtpmap", Value: "26 JPEG/90000"},
				},
			},
		},
		{
			"full",
			&MJPEG{
				Width:     640,
				Height:    480,
				FrameRate: 25,
			},
			5004,
			"trackID=0",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "video",
					Port:    psdp.RangedPort{Value: 5004},
					Protos:  []string{"RTP", "AVP"},
					Formats: []string{"26"},
				},
				Attributes: []psdp.Attribute{
					{Key: "rtpmap", Value: "26 JPEG/90000"},
					{Key: "framesize", Value: "26 640-480"},
					{Key: "framerate", Value: "25.000000"},
					{Key: "control", Value: "trackID=0"},
				},
			},
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			md := ca.format.MediaDescription(ca.port, ca.control)
			require.Equal(t, ca.md, md)

			dec, err := Unmarshal(md, md.MediaName.Formats[0])
			require.NoError(t, err)
			require.Equal(t, ca.format, dec)
		})
	}
}

func TestMJPEGDecEncoder(t *testing.T) {
	format := &MJPEG{}

	enc, err := format.CreateEncoder()
	require.NoError(t, err)

	image := []byte{
		0xff, 0xd8, // SOI
		0xff, 0xdb, 0x00, 0x43, 0x00, // DQT, table 0
	}
	for i := 0; i < 64; i++ {
		image = append(image, byte(i+1))
	}
	image = append(image,
		0xff, 0xc0, 0x00, 0x11, 0x08, 0x00, 0x10, 0x00, 0x10, 0x03, // SOF0 16x16
		0x00, 0x21, 0x00,
		0x01, 0x11, 0x00,
		0x02, 0x11, 0x00,
		0xff, 0xda, 0x00, 0x0c, 0x03, 0x00, 0x00, 0x01, 0x11, 0x02, 0x11, 0x00, 0x3f, 0x00, // SOS
		0x01, 0x02, 0x03, 0x04, 0xff, 0xd9,
	)

	pkts, err := enc.Encode(image)
	require.NoError(t, err)
	require.Len(t, pkts, 1)
	require.Equal(t, format.PayloadType(), pkts[0].PayloadType)

	dec, err := format.CreateDecoder()
	require.NoError(t, err)

	byts, err := dec.Decode(pkts[0])
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0xff, 0xd9}, byts[len(byts)-6:])
}
