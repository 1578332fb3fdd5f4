// Package rtptime contains a RTP timestamp encoder.
package rtptime

import (
	"crypto/rand"
	"time"
)

func randUint32() (uint32, error) {
	var b [4]byte
	_, err := rand.Read(b[:])
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// avoid an int64 overflow and preserve resolution by splitting division into two parts:
// first add the integer part, then the decimal part.
func multiplyAndDivide(v, m, d time.Duration) time.Duration {
	secs := v / d
	dec := v % d
	return (secs*m + dec*m/d)
}

// Encoder converts presentation timestamps into RTP timestamps.
type Encoder struct {
	// clock rate of the format.
	ClockRate int

	// timestamp of the first frame (optional).
	// It defaults to a random value.
	InitialTimestamp *uint32

	clockRate time.Duration
}

// Initialize initializes the Encoder.
func (e *Encoder) Initialize() error {
	if e.InitialTimestamp == nil {
		v, err := randUint32()
		if err != nil {
			return err
		}
		e.InitialTimestamp = &v
	}

	e.clockRate = time.Duration(e.ClockRate)
	return nil
}

// Encode encodes a timestamp, relative to the first frame.
// The result wraps around as RTP timestamps do.
func (e *Encoder) Encode(pts time.Duration) uint32 {
	return *e.InitialTimestamp + uint32(multiplyAndDivide(pts, e.clockRate, time.Second))
}
