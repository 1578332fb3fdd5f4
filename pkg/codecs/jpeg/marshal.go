package jpeg

// StartOfImage is a SOI marker.
type StartOfImage struct{}

// Marshal encodes the marker.
func (StartOfImage) Marshal(buf []byte) []byte {
	return append(buf, []byte{0xFF, MarkerStartOfImage}...)
}

// EndOfImage is a EOI marker.
type EndOfImage struct{}

// Marshal encodes the marker.
func (EndOfImage) Marshal(buf []byte) []byte {
	return append(buf, []byte{0xFF, MarkerEndOfImage}...)
}

// DefineHuffmanTable is a DHT segment.
type DefineHuffmanTable struct {
	Codes       []byte
	Symbols     []byte
	TableNumber int
	TableClass  int
}

// Marshal encodes the segment.
func (m DefineHuffmanTable) Marshal(buf []byte) []byte {
	buf = append(buf, []byte{0xFF, MarkerDefineHuffmanTable}...)
	s := 3 + len(m.Codes) + len(m.Symbols)
	buf = append(buf, []byte{byte(s >> 8), byte(s)}...) // length
	buf = append(buf, []byte{byte(m.TableClass<<4) | byte(m.TableNumber)}...)
	buf = append(buf, m.Codes...)
	buf = append(buf, m.Symbols...)
	return buf
}

// StartOfScan is a SOS segment covering the 3 components of a RFC 2435 image.
type StartOfScan struct{}

// Marshal encodes the segment.
func (StartOfScan) Marshal(buf []byte) []byte {
	buf = append(buf, []byte{0xFF, MarkerStartOfScan}...)
	buf = append(buf, []byte{0, 12}...)   // length
	buf = append(buf, []byte{3}...)       // components
	buf = append(buf, []byte{0, 0}...)    // component 0
	buf = append(buf, []byte{1, 0x11}...) // component 1
	buf = append(buf, []byte{2, 0x11}...) // component 2
	buf = append(buf, []byte{0, 63, 0}...)
	return buf
}
