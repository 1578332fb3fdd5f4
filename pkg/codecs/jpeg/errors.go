package jpeg

import (
	"fmt"
)

// ErrSegmentTooShort is reported when a segment length runs past the end of the image.
type ErrSegmentTooShort struct {
	Marker Marker
}

// Error implements the error interface.
func (e ErrSegmentTooShort) Error() string {
	return fmt.Sprintf("not enough data for segment %v", e.Marker)
}

// ErrSOFWrongSize is reported when there are not enough bytes for a SOF segment.
type ErrSOFWrongSize struct {
	Size   int
	Needed int
}

// Error implements the error interface.
func (e ErrSOFWrongSize) Error() string {
	return fmt.Sprintf("wrong size %d (needed %d)", e.Size, e.Needed)
}

// ErrSOFWrongLength is reported when the declared SOF length is too small.
type ErrSOFWrongLength struct {
	Length uint16
}

// Error implements the error interface.
func (e ErrSOFWrongLength) Error() string {
	return fmt.Sprintf("wrong SOF length %d", e.Length)
}

// ErrSOFBadPrecision is reported when the sample precision is not 8.
type ErrSOFBadPrecision struct {
	Precision uint8
}

// Error implements the error interface.
func (e ErrSOFBadPrecision) Error() string {
	return fmt.Sprintf("wrong precision %d, expecting 8", e.Precision)
}

// ErrSOFInvalidDimension is reported when a dimension is zero.
type ErrSOFInvalidDimension struct {
	Width  uint16
	Height uint16
}

// Error implements the error interface.
func (e ErrSOFInvalidDimension) Error() string {
	return fmt.Sprintf("wrong dimension, size %dx%d", e.Width, e.Height)
}

// ErrSOFBadComponents is reported when the image doesn't have 3 components.
type ErrSOFBadComponents struct {
	Count uint8
}

// Error implements the error interface.
func (e ErrSOFBadComponents) Error() string {
	return fmt.Sprintf("wrong number of components (%d)", e.Count)
}

// ErrSOFInvalidComponent is reported when the sampling factors are not supported by RFC 2435.
type ErrSOFInvalidComponent struct {
	Sampling [3]uint8
}

// Error implements the error interface.
func (e ErrSOFInvalidComponent) Error() string {
	return fmt.Sprintf("invalid component sampling %02x %02x %02x",
		e.Sampling[0], e.Sampling[1], e.Sampling[2])
}

// ErrDQTTooShort is reported when there are not enough bytes for a DQT segment.
type ErrDQTTooShort struct{}

// Error implements the error interface.
func (e ErrDQTTooShort) Error() string {
	return "not enough data for DQT"
}

// ErrDQTSmallSize is reported when the declared DQT length is smaller than 2.
type ErrDQTSmallSize struct {
	Length uint16
}

// Error implements the error interface.
func (e ErrDQTSmallSize) Error() string {
	return fmt.Sprintf("quant_size too small (%d < 2)", e.Length)
}

// ErrDQTInvalidID is reported when a quantization table has ID 15.
type ErrDQTInvalidID struct{}

// Error implements the error interface.
func (e ErrDQTInvalidID) Error() string {
	return "invalid quantization table id"
}

// ErrDQTNoTable is reported when a DQT segment ends in the middle of a table.
type ErrDQTNoTable struct {
	Remaining int
	Needed    int
}

// Error implements the error interface.
func (e ErrDQTNoTable) Error() string {
	return fmt.Sprintf("not enough data for table (%d < %d)", e.Remaining, e.Needed)
}

// ErrDRIWrongSize is reported when there are not enough bytes for a DRI segment.
type ErrDRIWrongSize struct{}

// Error implements the error interface.
func (e ErrDRIWrongSize) Error() string {
	return "not enough data for DRI"
}

// ErrDRIWrongLength is reported when the declared DRI length is too small.
type ErrDRIWrongLength struct {
	Length uint16
}

// Error implements the error interface.
func (e ErrDRIWrongLength) Error() string {
	return fmt.Sprintf("DRI size too small (%d)", e.Length)
}

// ErrEOIBeforeSOS is reported when the image ends before the start of scan.
type ErrEOIBeforeSOS struct{}

// Error implements the error interface.
func (e ErrEOIBeforeSOS) Error() string {
	return "EOI reached before SOS"
}

// ErrUnhandledMarker is reported when a marker is neither parsed nor skipped.
type ErrUnhandledMarker struct {
	Marker Marker
}

// Error implements the error interface.
func (e ErrUnhandledMarker) Error() string {
	return fmt.Sprintf("unhandled marker 0x%02x", uint8(e.Marker))
}

// ErrInvalidQuantizationTable is reported when a component refers to
// a quantization table that is out of range or was never defined.
type ErrInvalidQuantizationTable struct {
	Component int
	Index     uint8
}

// Error implements the error interface.
func (e ErrInvalidQuantizationTable) Error() string {
	return fmt.Sprintf("component %d refers to invalid quantization table %d", e.Component, e.Index)
}

// ErrUnsupportedJPEG is reported when the image lacks a SOF or a DQT segment.
type ErrUnsupportedJPEG struct {
	SOFFound bool
	DQTFound bool
}

// Error implements the error interface.
func (e ErrUnsupportedJPEG) Error() string {
	switch {
	case !e.SOFFound && !e.DQTFound:
		return "unsupported JPEG: SOF and DQT not found"
	case !e.SOFFound:
		return "unsupported JPEG: SOF not found"
	default:
		return "unsupported JPEG: DQT not found"
	}
}

// ErrNoDimension is reported when the image dimensions were never read.
type ErrNoDimension struct{}

// Error implements the error interface.
func (e ErrNoDimension) Error() string {
	return "no dimension"
}

// ErrSOSNotFound is reported when the image ends before a SOS segment.
type ErrSOSNotFound struct{}

// Error implements the error interface.
func (e ErrSOSNotFound) Error() string {
	return "SOS not found"
}
