// Package probe inspects JPEG files and reports whether they can be streamed.
package probe

import (
	"fmt"
	"io"

	mcjpeg "github.com/bluenviron/mediacommon/v2/pkg/codecs/jpeg"

	"github.com/bluenviron/jpegstreamer/pkg/codecs/jpeg"
)

// Report is the result of a probe.
type Report struct {
	Size         int
	Segments     []jpeg.Segment
	Payload      jpeg.Payload
	Quantization jpeg.QuantizationData

	// errors reported by the parser.
	Errors []error

	// error returned by the strict segment decoders, if any.
	StrictError error

	// filled only when requested.
	RoundTrip *RoundTrip
}

func segments(image []byte) []jpeg.Segment {
	var ret []jpeg.Segment
	sr := jpeg.NewSegmentReader(image)

	for {
		seg, ok := sr.Next()
		if !ok {
			return ret
		}
		ret = append(ret, seg)
	}
}

// strictCheck decodes segments with the strict decoders of mediacommon.
func strictCheck(segs []jpeg.Segment) error {
	if len(segs) == 0 || segs[0].Marker != jpeg.MarkerStartOfImage {
		return fmt.Errorf("SOI not found")
	}

	sofFound := false

	for _, seg := range segs[1:] {
		switch seg.Marker {
		case jpeg.MarkerStartOfFrame1:
			var sof mcjpeg.StartOfFrame1
			err := sof.Unmarshal(seg.Data)
			if err != nil {
				return fmt.Errorf("SOF: %w", err)
			}

			if sof.Type > 63 {
				return fmt.Errorf("JPEG type %d is not supported", sof.Type)
			}
			sofFound = true

		case jpeg.MarkerDefineQuantizationTable:
			var dqt mcjpeg.DefineQuantizationTable
			err := dqt.Unmarshal(seg.Data)
			if err != nil {
				return fmt.Errorf("DQT: %w", err)
			}

		case jpeg.MarkerDefineRestartInterval:
			var dri mcjpeg.DefineRestartInterval
			err := dri.Unmarshal(seg.Data)
			if err != nil {
				return fmt.Errorf("DRI: %w", err)
			}

		case jpeg.MarkerStartOfScan:
			if !sofFound {
				return fmt.Errorf("SOF not found")
			}

			var sos mcjpeg.StartOfScan
			err := sos.Unmarshal(seg.Data)
			if err != nil {
				return fmt.Errorf("SOS: %w", err)
			}
			return nil
		}
	}

	return fmt.Errorf("SOS not found")
}

// Probe inspects an image.
// When roundTrip is true, the image is also sent through the RTP packetizer and back.
func Probe(image []byte, roundTrip bool) *Report {
	r := &Report{
		Size: len(image),
	}

	p := &jpeg.Parser{
		OnDecodeError: func(err error) {
			r.Errors = append(r.Errors, err)
		},
	}
	r.Payload = p.Parse(image, 0, &r.Quantization)

	r.Segments = segments(image)
	r.StrictError = strictCheck(r.Segments)

	if roundTrip {
		r.RoundTrip = runRoundTrip(image)
	}

	return r
}

// Streamable returns whether the image can be sent with RTP.
func (r *Report) Streamable() bool {
	if r.RoundTrip != nil && r.RoundTrip.Err != nil {
		return false
	}

	return r.Payload.IsValid() && r.Payload.Width != 0 && r.Payload.Height != 0
}

// Write writes a human-readable report.
func (r *Report) Write(w io.Writer) {
	fmt.Fprintf(w, "size: %d bytes\n", r.Size)

	fmt.Fprintf(w, "segments:\n")
	for _, seg := range r.Segments {
		if seg.Length != 0 {
			fmt.Fprintf(w, "  %-6s offset %d, length %d\n", seg.Marker, seg.Offset, seg.Length)
		} else {
			fmt.Fprintf(w, "  %-6s offset %d\n", seg.Marker, seg.Offset)
		}
	}

	if r.Payload.IsValid() {
		fmt.Fprintf(w, "payload:\n")
		fmt.Fprintf(w, "  type: %d\n", r.Payload.Type)
		fmt.Fprintf(w, "  size: %dx%d (8-pixel blocks)\n", r.Payload.Width, r.Payload.Height)
		if r.Payload.HasRestartMarkers() {
			fmt.Fprintf(w, "  restart interval: %d\n", r.Payload.Restart.Interval)
		}
		fmt.Fprintf(w, "  quantization tables: %d bytes, precision %d\n",
			len(r.Quantization.Tables), r.Quantization.Precision)
		fmt.Fprintf(w, "  scan data: %d bytes\n", r.Payload.Size())
	} else {
		fmt.Fprintf(w, "payload: invalid\n")
	}

	for _, err := range r.Errors {
		fmt.Fprintf(w, "error: %v\n", err)
	}

	if r.StrictError != nil {
		fmt.Fprintf(w, "strict decoding: %v\n", r.StrictError)
	} else {
		fmt.Fprintf(w, "strict decoding: ok\n")
	}

	if r.RoundTrip != nil {
		if r.RoundTrip.Err != nil {
			fmt.Fprintf(w, "round trip: %v\n", r.RoundTrip.Err)
		} else {
			fmt.Fprintf(w, "round trip: ok, %d packets\n", r.RoundTrip.Packets)
		}
	}

	fmt.Fprintf(w, "streamable: %v\n", r.Streamable())
}
