package jpeg

// Parser extracts RTP/JPEG fields from JPEG images.
// Specification: https://datatracker.ietf.org/doc/html/rfc2435
type Parser struct {
	// called when a non-fatal error is found (optional).
	OnDecodeError func(error)
}

func (p *Parser) onDecodeError(err error) {
	if p.OnDecodeError != nil {
		p.OnDecodeError(err)
	}
}

// Parse parses an image and builds a Payload.
//
// Quantization tables of luma and chroma are appended to qd, and their
// precision is added to qd.Precision.
// When the image can't be sent, the returned payload is not valid (see Payload.IsValid).
// Views contained in the payload point into image.
func (p *Parser) Parse(image []byte, timestamp uint64, qd *QuantizationData) Payload {
	pay := newPayload()
	r := &reader{buf: image}

	var tables [maxQuantizationTable]quantizationSlot
	var info [3]ComponentInfo
	var dri RestartMarkerHeader

	scanStart := 0
	sosFound := false
	sofFound := false
	dqtFound := false
	driFound := false

	for !sosFound && r.offset < r.size() {
		m := r.scanMarker()

		switch {
		case m == MarkerJFIF,
			m == MarkerComment,
			m == MarkerDefineHuffmanTable,
			m == MarkerApplication4:
			err := r.skipSegment(m)
			if err != nil {
				p.onDecodeError(err)
			}

		case m == MarkerStartOfFrame1:
			err := readStartOfFrame(r, &pay, &info)
			if err != nil {
				p.onDecodeError(err)
			} else {
				sofFound = true
			}

		case m == MarkerDefineQuantizationTable:
			err := readQuantizationTables(r, &tables)
			if err != nil {
				p.onDecodeError(err)
			}
			dqtFound = true

		case m == MarkerStartOfScan:
			sosFound = true
			scanStart = r.offset
			scanStart += int(r.readUint16())

		case m == MarkerEndOfImage:
			p.onDecodeError(ErrEOIBeforeSOS{})

		case m == MarkerStartOfImage:

		case m == MarkerDefineRestartInterval:
			ok, err := readRestartInterval(r, &dri)
			if err != nil {
				p.onDecodeError(err)
			}
			if ok {
				driFound = true
			}

		case m.isSkippable():
			err := r.skipSegment(m)
			if err != nil {
				p.onDecodeError(err)
			}

		default:
			// scanMarker will resynchronize on the next marker.
			p.onDecodeError(ErrUnhandledMarker{Marker: m})
		}
	}

	if !dqtFound || !sofFound {
		p.onDecodeError(ErrUnsupportedJPEG{SOFFound: sofFound, DQTFound: dqtFound})
		return newPayload()
	}

	if pay.Width < 0 || pay.Height < 0 {
		p.onDecodeError(ErrNoDimension{})
		return newPayload()
	}

	if !sosFound {
		p.onDecodeError(ErrSOSNotFound{})
		return newPayload()
	}

	if driFound {
		pay.Type += 64
		pay.Restart = dri
	}

	p.appendQuantizationTables(&tables, &info, qd)

	if scanStart > len(image) {
		scanStart = len(image)
	}

	pay.Data = newView(image, scanStart, len(image)-scanStart)
	pay.Timestamp = timestamp

	return pay
}

// appendQuantizationTables appends the luma and chroma tables.
// Chroma components share the same table, therefore component 2 is skipped.
func (p *Parser) appendQuantizationTables(
	tables *[maxQuantizationTable]quantizationSlot,
	info *[3]ComponentInfo,
	qd *QuantizationData,
) {
	for i := 0; i < 2; i++ {
		qt := info[i].QuantizationTable

		if int(qt) >= len(tables) || tables[qt].Size == 0 {
			p.onDecodeError(ErrInvalidQuantizationTable{Component: i, Index: qt})
			continue
		}

		if tables[qt].Size != 64 {
			qd.Precision |= 1 << i
		}

		qd.Tables = append(qd.Tables, tables[qt].Data.Bytes()...)
	}
}
