package format

import (
	"testing"

	psdp "github.com/pion/sdp/v3"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal(t *testing.T) {
	for _, ca := range []struct {
		name   string
		md     *psdp.MediaDescription
		format Format
	}{
		{
			"static payload type",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "video",
					Protos:  []string{"RTP", "AVP"},
					Formats: []string{"26"},
				},
			},
			&MJPEG{},
		},
		{
			"dynamic payload type",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "video",
					Protos:  []string{"RTP", "AVP"},
					Formats: []string{"96"},
				},
				Attributes: []psdp.Attribute{
					{Key: "rtpmap", Value: "96 JPEG/90000"},
				},
			},
			&MJPEG{},
		},
		{
			"framesize and framerate",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "video",
					Protos:  []string{"RTP", "AVP"},
					Formats: []string{"26"},
				},
				Attributes: []psdp.Attribute{
					{Key: "rtpmap", Value: "26 JPEG/90000"},
					{Key: "framesize", Value: "26 1920-1080"},
					{Key: "framerate", Value: "29.970000"},
				},
			},
			&MJPEG{
				Width:     1920,
				Height:    1080,
				FrameRate: 29.97,
			},
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			format, err := Unmarshal(ca.md, ca.md.MediaName.Formats[0])
			require.NoError(t, err)
			require.Equal(t, ca.format, format)
		})
	}
}

func TestUnmarshalErrors(t *testing.T) {
	for _, ca := range []struct {
		name string
		md   *psdp.MediaDescription
		err  string
	}{
		{
			"invalid payload type",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "video",
					Formats: []string{"aaa"},
				},
			},
			"strconv.ParseUint: parsing \"aaa\": invalid syntax",
		},
		{
			"unsupported format",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "video",
					Formats: []string{"96"},
				},
				Attributes: []psdp.Attribute{
					{Key: "rtpmap", Value: "96 H264/90000"},
				},
			},
			"unsupported format: payload type 96, rtpmap 'H264/90000'",
		},
		{
			"invalid media type",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "audio",
					Formats: []string{"26"},
				},
			},
			"invalid media type: audio",
		},
		{
			"invalid framesize",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "video",
					Formats: []string{"26"},
				},
				Attributes: []psdp.Attribute{
					{Key: "framesize", Value: "26 640x480"},
				},
			},
			"invalid framesize: 640x480",
		},
		{
			"invalid framerate",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "video",
					Formats: []string{"26"},
				},
				Attributes: []psdp.Attribute{
					{Key: "framerate", Value: "fast"},
				},
			},
			"invalid framerate: fast",
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			_, err := Unmarshal(ca.md, ca.md.MediaName.Formats[0])
			require.EqualError(t, err, ca.err)
		})
	}
}
