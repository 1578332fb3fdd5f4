package jpeg

type testComponent struct {
	id       uint8
	sampling uint8
	qt       uint8
}

var defaultComponents = []testComponent{
	{1, 0x21, 0},
	{2, 0x11, 1},
	{3, 0x11, 1},
}

func testTable(seed byte, size int) []byte {
	t := make([]byte, size)
	for i := range t {
		t[i] = seed + byte(i)
	}
	return t
}

func segment(marker uint8, content []byte) []byte {
	l := len(content) + 2
	buf := []byte{0xFF, marker, byte(l >> 8), byte(l)}
	return append(buf, content...)
}

func sofSegment(height uint16, width uint16, comps []testComponent) []byte {
	content := []byte{
		8,
		byte(height >> 8), byte(height),
		byte(width >> 8), byte(width),
		byte(len(comps)),
	}
	for _, c := range comps {
		content = append(content, c.id, c.sampling, c.qt)
	}
	return segment(MarkerStartOfFrame1, content)
}

func dqtSegment(tables ...QuantizationTable) []byte {
	return DefineQuantizationTable{Tables: tables}.Marshal(nil)
}

func driSegment(interval uint16) []byte {
	return DefineRestartInterval{Interval: interval}.Marshal(nil)
}

func sosSegment() []byte {
	return StartOfScan{}.Marshal(nil)
}

func scanData(n int) []byte {
	d := make([]byte, n)
	for i := range d {
		d[i] = byte(i)
	}
	return d
}

type testImage struct {
	sampling   uint8
	comps      []testComponent
	height     uint16
	width      uint16
	tables     []QuantizationTable
	dri        *uint16
	extra      [][]byte
	scanLength int
}

func (ti testImage) marshal() []byte {
	comps := ti.comps
	if comps == nil {
		comps = append([]testComponent(nil), defaultComponents...)
		if ti.sampling != 0 {
			comps[0].sampling = ti.sampling
		}
	}

	tables := ti.tables
	if tables == nil {
		tables = []QuantizationTable{
			{ID: 0, Data: testTable(1, 64)},
			{ID: 1, Data: testTable(101, 64)},
		}
	}

	height := ti.height
	if height == 0 {
		height = 480
	}

	width := ti.width
	if width == 0 {
		width = 640
	}

	buf := StartOfImage{}.Marshal(nil)
	for _, e := range ti.extra {
		buf = append(buf, e...)
	}
	buf = append(buf, sofSegment(height, width, comps)...)
	buf = append(buf, dqtSegment(tables...)...)
	if ti.dri != nil {
		buf = append(buf, driSegment(*ti.dri)...)
	}
	buf = append(buf, sosSegment()...)
	buf = append(buf, scanData(ti.scanLength)...)
	return buf
}

func uint16Ptr(v uint16) *uint16 {
	return &v
}

type errorCollector struct {
	errs []error
}

func (c *errorCollector) parser() *Parser {
	return &Parser{
		OnDecodeError: func(err error) {
			c.errs = append(c.errs, err)
		},
	}
}
