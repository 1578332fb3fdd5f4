package rtpmjpeg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

var casesQuantizationTable = []struct {
	name string
	enc  []byte
	dec  headerQuantizationTable
}{
	{
		"8 bit",
		append([]byte{0x0, 0x0, 0x0, 0x80},
			append(bytes.Repeat([]byte{0x01}, 64), bytes.Repeat([]byte{0x02}, 64)...)...),
		headerQuantizationTable{
			Tables: [][]byte{
				bytes.Repeat([]byte{0x01}, 64),
				bytes.Repeat([]byte{0x02}, 64),
			},
		},
	},
	{
		"16 bit luma",
		append([]byte{0x0, 0x1, 0x0, 0xc0},
			append(bytes.Repeat([]byte{0x01}, 128), bytes.Repeat([]byte{0x02}, 64)...)...),
		headerQuantizationTable{
			Precision: 1,
			Tables: [][]byte{
				bytes.Repeat([]byte{0x01}, 128),
				bytes.Repeat([]byte{0x02}, 64),
			},
		},
	},
	{
		"single table",
		append([]byte{0x0, 0x0, 0x0, 0x40}, bytes.Repeat([]byte{0x03}, 64)...),
		headerQuantizationTable{
			Tables: [][]byte{
				bytes.Repeat([]byte{0x03}, 64),
			},
		},
	},
}

func TestHeaderQuantizationTableUnmarshal(t *testing.T) {
	for _, ca := range casesQuantizationTable {
		t.Run(ca.name, func(t *testing.T) {
			var h headerQuantizationTable
			n, err := h.unmarshal(ca.enc)
			require.NoError(t, err)
			require.Equal(t, len(ca.enc), n)
			require.Equal(t, ca.dec, h)
		})
	}
}

func TestHeaderQuantizationTableMarshal(t *testing.T) {
	for _, ca := range casesQuantizationTable {
		t.Run(ca.name, func(t *testing.T) {
			buf := ca.dec.marshal(nil)
			require.Equal(t, ca.enc, buf)
		})
	}
}

func TestHeaderQuantizationTableUnmarshalErrors(t *testing.T) {
	for _, ca := range []struct {
		name string
		enc  []byte
		err  string
	}{
		{
			"too short",
			[]byte{0x0, 0x0},
			"buffer is too short",
		},
		{
			"no tables",
			[]byte{0x0, 0x0, 0x0, 0x0},
			"quantization tables not included",
		},
		{
			"missing data",
			append([]byte{0x0, 0x0, 0x0, 0x80}, bytes.Repeat([]byte{0x01}, 64)...),
			"buffer is too short",
		},
		{
			"partial table",
			append([]byte{0x0, 0x0, 0x0, 0x50}, bytes.Repeat([]byte{0x01}, 80)...),
			"table length 80 is not supported",
		},
		{
			"too many tables",
			append([]byte{0x0, 0x0, 0x0, 0xc0}, bytes.Repeat([]byte{0x01}, 192)...),
			"too many quantization tables",
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			var h headerQuantizationTable
			_, err := h.unmarshal(ca.enc)
			require.EqualError(t, err, ca.err)
		})
	}
}
