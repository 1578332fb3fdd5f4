package jpeg

// Segment is a marker segment of an image.
type Segment struct {
	Marker Marker

	// position of the marker prefix.
	Offset int

	// value of the length field. Zero for standalone markers.
	Length int

	// content that follows the length field, clamped to the end of the image.
	Data []byte
}

// SegmentReader walks the marker segments of an image with the same rules
// used by Parser. It stops after SOS, since scan data follows; if the image
// ends with EOI, that EOI is returned as last segment.
type SegmentReader struct {
	r       reader
	scan    bool
	eoiSent bool
}

// NewSegmentReader allocates a SegmentReader.
func NewSegmentReader(image []byte) *SegmentReader {
	return &SegmentReader{r: reader{buf: image}}
}

// Next returns the next segment, or false when there are no more.
func (sr *SegmentReader) Next() (Segment, bool) {
	if sr.scan {
		return sr.trailingEOI()
	}

	m, ok := sr.r.nextMarker()
	if !ok {
		return Segment{}, false
	}

	seg := Segment{
		Marker: m,
		Offset: sr.r.offset - 2,
	}

	if m.hasLength() && sr.r.remaining() >= 2 {
		seg.Length = int(sr.r.readUint16())

		end := sr.r.offset + seg.Length - 2
		if end > sr.r.size() {
			end = sr.r.size()
		}
		if end > sr.r.offset {
			seg.Data = sr.r.buf[sr.r.offset:end]
			sr.r.offset = end
		}
	}

	if m == MarkerStartOfScan {
		sr.scan = true
	}

	return seg, true
}

func (sr *SegmentReader) trailingEOI() (Segment, bool) {
	if sr.eoiSent {
		return Segment{}, false
	}
	sr.eoiSent = true

	buf := sr.r.buf
	n := len(buf)

	if n-2 < sr.r.offset || buf[n-2] != MarkerPrefix || buf[n-1] != MarkerEndOfImage {
		return Segment{}, false
	}

	return Segment{Marker: MarkerEndOfImage, Offset: n - 2}, true
}
