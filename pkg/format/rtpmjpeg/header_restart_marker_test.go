package rtpmjpeg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bluenviron/jpegstreamer/pkg/codecs/jpeg"
)

var casesRestartMarker = []struct {
	name string
	enc  []byte
	dec  headerRestartMarker
}{
	{
		"whole frame",
		[]byte{0x04, 0xd2, 0xff, 0xff},
		headerRestartMarker{
			Interval: 1234,
			First:    true,
			Last:     true,
			Count:    0x3fff,
		},
	},
	{
		"starts an interval",
		[]byte{0x00, 0x10, 0x81, 0x02},
		headerRestartMarker{
			Interval: 16,
			First:    true,
			Count:    0x102,
		},
	},
	{
		"ends an interval",
		[]byte{0x00, 0x10, 0x40, 0x07},
		headerRestartMarker{
			Interval: 16,
			Last:     true,
			Count:    7,
		},
	},
	{
		"middle of an interval",
		[]byte{0x00, 0x08, 0x3f, 0xfe},
		headerRestartMarker{
			Interval: 8,
			Count:    0x3ffe,
		},
	},
}

func TestHeaderRestartMarkerUnmarshal(t *testing.T) {
	for _, ca := range casesRestartMarker {
		t.Run(ca.name, func(t *testing.T) {
			var h headerRestartMarker
			n, err := h.unmarshal(ca.enc)
			require.NoError(t, err)
			require.Equal(t, 4, n)
			require.Equal(t, ca.dec, h)
		})
	}
}

func TestHeaderRestartMarkerMarshal(t *testing.T) {
	for _, ca := range casesRestartMarker {
		t.Run(ca.name, func(t *testing.T) {
			buf := ca.dec.marshal(nil)
			require.Equal(t, ca.enc, buf)
		})
	}
}

func TestHeaderRestartMarkerUnmarshalErrors(t *testing.T) {
	var h headerRestartMarker
	_, err := h.unmarshal([]byte{0x00, 0x10, 0xff})
	require.EqualError(t, err, "buffer is too short")
}

func TestNewHeaderRestartMarker(t *testing.T) {
	// DRI segments are always sent as whole frames
	var qd jpeg.QuantizationData
	pay := (&jpeg.Parser{}).Parse(testImage{typ: 1, interval: 16, scan: testScan(10)}.marshal(), 0, &qd)
	require.True(t, pay.HasRestartMarkers())

	require.Equal(t, headerRestartMarker{
		Interval: 16,
		First:    true,
		Last:     true,
		Count:    0x3fff,
	}, newHeaderRestartMarker(pay.Restart))

	require.Equal(t, headerRestartMarker{
		Interval: 4,
		Last:     true,
		Count:    3,
	}, newHeaderRestartMarker(jpeg.RestartMarkerHeader{Interval: 4, Count: 0x4003}))
}
