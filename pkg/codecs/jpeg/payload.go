package jpeg

// default values of the RTP/JPEG header fields that are not derived from the image.
const (
	DefaultQuality      = 255
	DefaultQuantization = 255
	DefaultType         = 1
)

// View is a portion of a buffer owned by someone else.
// It is valid as long as the buffer is not modified.
type View struct {
	buf    []byte
	Offset int
	Length int
}

func newView(buf []byte, offset int, length int) View {
	return View{
		buf:    buf,
		Offset: offset,
		Length: length,
	}
}

// Bytes returns the content of the view.
// The returned slice shares memory with the original buffer.
func (v View) Bytes() []byte {
	if v.buf == nil {
		return nil
	}
	return v.buf[v.Offset : v.Offset+v.Length]
}

// RestartMarkerHeader is the content of a DRI segment, in the form
// used by the RTP/JPEG restart marker header.
type RestartMarkerHeader struct {
	Interval uint16
	Count    uint16
}

// QuantizationData receives the quantization tables of luma and chroma.
// It is filled by Parser.Parse, which never clears it:
// it must be reset by the caller before each call.
type QuantizationData struct {
	// luma table followed by chroma table, 64 or 128 bytes each.
	Tables []byte

	// bit i is set when table i has 16-bit precision.
	Precision uint8
}

// Reset clears the content.
func (q *QuantizationData) Reset() {
	q.Tables = q.Tables[:0]
	q.Precision = 0
}

// Payload contains the RTP/JPEG header fields and the scan data of an image.
type Payload struct {
	Type         uint8
	Quality      uint8
	Quantization uint8

	// in 8-pixel units. -1 when the image can't be sent.
	Width  int
	Height int

	// scan data, from the end of the SOS header to the end of the image.
	Data View

	// restart interval. Interval is zero when restart markers are not used.
	Restart RestartMarkerHeader

	Timestamp uint64
}

func newPayload() Payload {
	return Payload{
		Type:         DefaultType,
		Quality:      DefaultQuality,
		Quantization: DefaultQuantization,
		Width:        -1,
		Height:       -1,
	}
}

// IsValid returns whether the payload was successfully built.
func (p Payload) IsValid() bool {
	return p.Width >= 0 && p.Height >= 0
}

// Size returns the size of the scan data.
func (p Payload) Size() int {
	return p.Data.Length
}

// HasRestartMarkers returns whether Type signals the presence of restart markers.
func (p Payload) HasRestartMarkers() bool {
	return p.Type >= 64 && p.Type < 128
}
