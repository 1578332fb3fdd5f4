package rtpmjpeg

import (
	"testing"

	"github.com/pion/rtp"
	"github.com/stretchr/testify/require"

	"github.com/bluenviron/jpegstreamer/pkg/codecs/jpeg"
)

func decodeAll(t *testing.T, d *Decoder, pkts []*rtp.Packet) []byte {
	var image []byte

	for i, pkt := range pkts {
		var err error
		image, err = d.Decode(pkt)

		if i != len(pkts)-1 {
			require.Equal(t, ErrMorePacketsNeeded, err)
		} else {
			require.NoError(t, err)
		}
	}

	return image
}

func TestDecodeRoundTrip(t *testing.T) {
	for _, ca := range []struct {
		name  string
		image testImage
	}{
		{
			"type 0",
			testImage{typ: 0, scan: testScan(5000)},
		},
		{
			"type 1",
			testImage{typ: 1, scan: testScan(100)},
		},
		{
			"restart markers",
			testImage{typ: 1, interval: 32, scan: testScan(3000)},
		},
		{
			"16 bit tables",
			testImage{typ: 0, precision: 1, scan: testScan(3000)},
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			var qd1 jpeg.QuantizationData
			pay1 := (&jpeg.Parser{}).Parse(ca.image.marshal(), 0, &qd1)
			require.True(t, pay1.IsValid())

			e := newTestEncoder(t)
			pkts, err := e.EncodePayload(&pay1, &qd1)
			require.NoError(t, err)

			d := &Decoder{}
			err = d.Init()
			require.NoError(t, err)

			image := decodeAll(t, d, pkts)

			var qd2 jpeg.QuantizationData
			pay2 := (&jpeg.Parser{}).Parse(image, 0, &qd2)
			require.True(t, pay2.IsValid())

			require.Equal(t, pay1.Type, pay2.Type)
			require.Equal(t, pay1.Width, pay2.Width)
			require.Equal(t, pay1.Height, pay2.Height)
			require.Equal(t, pay1.Restart, pay2.Restart)
			require.Equal(t, qd1, qd2)
			require.Equal(t, append(ca.image.scan, 0xFF, jpeg.MarkerEndOfImage), pay2.Data.Bytes())
		})
	}
}

func TestDecodeQFactor(t *testing.T) {
	d := &Decoder{}
	err := d.Init()
	require.NoError(t, err)

	image, err := d.Decode(&rtp.Packet{
		Header: rtp.Header{
			Version:     2,
			Marker:      true,
			PayloadType: 26,
		},
		Payload: []byte{
			0x00, 0x00, 0x00, 0x00, 0x00, 0x32, 0x02, 0x02,
			0x01, 0x02, 0x03, 0xff, jpeg.MarkerEndOfImage,
		},
	})
	require.NoError(t, err)

	var qd jpeg.QuantizationData
	pay := (&jpeg.Parser{}).Parse(image, 0, &qd)
	require.True(t, pay.IsValid())
	require.Equal(t, uint8(0), pay.Type)
	require.Equal(t, 2, pay.Width)
	require.Equal(t, 2, pay.Height)

	// at Q=50 the tables are the ones of the example
	luma := make([]byte, 64)
	chroma := make([]byte, 64)
	for i := 0; i < 64; i++ {
		luma[i] = byte(lumaQuantizer[i])
		chroma[i] = byte(chromaQuantizer[i])
	}
	require.Equal(t, append(luma, chroma...), qd.Tables)

	// EOI is not duplicated
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0xff, jpeg.MarkerEndOfImage}, pay.Data.Bytes())
}

func TestDecodeErrors(t *testing.T) {
	d := &Decoder{}
	err := d.Init()
	require.NoError(t, err)

	_, err = d.Decode(&rtp.Packet{
		Header:  rtp.Header{Marker: true},
		Payload: []byte{0x00, 0x00, 0x00, 0x10, 0x01, 0xff, 0x50, 0x3c, 0x01},
	})
	require.Equal(t, ErrNonStartingPacketAndNoPrevious, err)

	_, err = d.Decode(&rtp.Packet{
		Payload: []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0xff, 0x50, 0x3c, 0x00, 0x00, 0x00, 0x00},
	})
	require.EqualError(t, err, "quantization tables not included")

	_, err = d.Decode(&rtp.Packet{
		Payload: []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0xff, 0x00, 0x3c},
	})
	require.EqualError(t, err, "invalid size 0x480")

	_, err = d.Decode(&rtp.Packet{
		Payload: []byte{0x00, 0x00, 0x00, 0x00, 0x41, 0xff, 0x50, 0x3c, 0x00},
	})
	require.EqualError(t, err, "buffer is too short")

	_, err = d.Decode(&rtp.Packet{
		Payload: []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x32, 0x50, 0x3c, 0x01, 0x02},
	})
	require.Equal(t, ErrMorePacketsNeeded, err)

	_, err = d.Decode(&rtp.Packet{
		Header:  rtp.Header{Marker: true},
		Payload: []byte{0x00, 0x00, 0x00, 0x05, 0x01, 0x32, 0x50, 0x3c, 0x03},
	})
	require.EqualError(t, err, "received wrong fragment")

	_, err = d.Decode(&rtp.Packet{
		Header:  rtp.Header{Marker: true},
		Payload: []byte{0x00, 0x00, 0x00, 0x02, 0x01, 0x32, 0x50, 0x3c, 0x03},
	})
	require.EqualError(t, err, "received a non-starting fragment")
}

func TestDecodeRestartMarkers(t *testing.T) {
	jpegHeader := func(offset byte) []byte {
		return []byte{0x00, 0x00, 0x00, offset, 0x40, 0x32, 0x02, 0x02}
	}

	packet := func(marker bool, offset byte, restartHeader []byte, data ...byte) *rtp.Packet {
		return &rtp.Packet{
			Header:  rtp.Header{Marker: marker},
			Payload: append(append(jpegHeader(offset), restartHeader...), data...),
		}
	}

	t.Run("partial frame", func(t *testing.T) {
		d := &Decoder{}
		err := d.Init()
		require.NoError(t, err)

		image, err := d.Decode(packet(true, 0, []byte{0x00, 0x10, 0xc0, 0x01}, 0x01, 0x02))
		require.NoError(t, err)

		var qd jpeg.QuantizationData
		pay := (&jpeg.Parser{}).Parse(image, 0, &qd)
		require.True(t, pay.IsValid())
		require.Equal(t, uint8(64), pay.Type)
		require.Equal(t, uint16(16), pay.Restart.Interval)
	})

	t.Run("first fragment without F", func(t *testing.T) {
		d := &Decoder{}
		err := d.Init()
		require.NoError(t, err)

		_, err = d.Decode(packet(true, 0, []byte{0x00, 0x10, 0x40, 0x01}, 0x01))
		require.EqualError(t, err, "first fragment doesn't start a restart interval")
	})

	t.Run("last fragment without L", func(t *testing.T) {
		d := &Decoder{}
		err := d.Init()
		require.NoError(t, err)

		_, err = d.Decode(packet(true, 0, []byte{0x00, 0x10, 0x80, 0x01}, 0x01))
		require.EqualError(t, err, "last fragment doesn't end a restart interval")
	})

	t.Run("interval changed", func(t *testing.T) {
		d := &Decoder{}
		err := d.Init()
		require.NoError(t, err)

		_, err = d.Decode(packet(false, 0, []byte{0x00, 0x10, 0xff, 0xff}, 0x01, 0x02, 0x03, 0x04))
		require.Equal(t, ErrMorePacketsNeeded, err)

		_, err = d.Decode(packet(true, 4, []byte{0x00, 0x20, 0xff, 0xff}, 0x05))
		require.EqualError(t, err, "restart interval changed")
	})
}

func TestMakeTables(t *testing.T) {
	luma, chroma := makeTables(1)
	require.Equal(t, byte(255), luma[0])
	require.Equal(t, byte(255), chroma[63])

	luma, chroma = makeTables(99)
	require.Equal(t, byte(1), luma[0])
	require.Equal(t, byte(2), chroma[63])

	luma, _ = makeTables(75)
	require.Equal(t, byte(8), luma[0])
}

func FuzzDecoder(f *testing.F) {
	f.Fuzz(func(_ *testing.T, a []byte, am bool, b []byte, bm bool) {
		d := &Decoder{}
		d.Init() //nolint:errcheck

		d.Decode(&rtp.Packet{ //nolint:errcheck
			Header: rtp.Header{
				Version:        2,
				Marker:         am,
				PayloadType:    26,
				SequenceNumber: 17645,
				Timestamp:      2289527317,
				SSRC:           0x9dbb7812,
			},
			Payload: a,
		})

		d.Decode(&rtp.Packet{ //nolint:errcheck
			Header: rtp.Header{
				Version:        2,
				Marker:         bm,
				PayloadType:    26,
				SequenceNumber: 17646,
				Timestamp:      2289527317,
				SSRC:           0x9dbb7812,
			},
			Payload: b,
		})
	})
}
