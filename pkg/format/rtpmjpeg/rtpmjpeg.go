// Package rtpmjpeg contains a RTP/M-JPEG decoder and encoder.
package rtpmjpeg

const (
	rtpVersion   = 2
	maxDimension = 2040
)

const (
	// ClockRate is the clock rate of RTP timestamps.
	ClockRate = 90000

	// PayloadType is the static payload type of JPEG (RFC 3551).
	PayloadType = 26
)
