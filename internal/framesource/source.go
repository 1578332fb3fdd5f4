// Package framesource contains a source that replays a JPEG image as a video.
package framesource

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bluenviron/jpegstreamer/internal/logger"
	"github.com/bluenviron/jpegstreamer/pkg/codecs/jpeg"
)

// ErrInvalidFrame is returned when the image can't be sent with RTP/JPEG.
var ErrInvalidFrame = errors.New("invalid frame")

// Load reads an image from disk.
func Load(path string) ([]byte, error) {
	byts, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read image: %w", err)
	}
	return byts, nil
}

// Frame is a frame produced by a Source.
type Frame struct {
	// frame number, starting from 0.
	Number uint64

	// presentation timestamp, relative to the first frame.
	PTS time.Duration

	// absolute time of the frame.
	NTP time.Time

	Payload      jpeg.Payload
	Quantization jpeg.QuantizationData
}

// Source produces frames from a JPEG image at a fixed frame rate.
// Each session owns its Source.
type Source struct {
	Image     []byte
	FrameRate float64
	TimeNow   func() time.Time
	Log       *logger.Logger

	// session identifier, used in logs.
	ID uuid.UUID

	mutex         sync.Mutex
	parser        *jpeg.Parser
	log           *logger.Logger
	frameDuration time.Duration
	width         int
	height        int
	frameCount    uint64
	startTime     time.Time
}

// Initialize initializes a Source.
// It checks that the image can be sent.
func (s *Source) Initialize() error {
	if s.FrameRate <= 0 {
		return fmt.Errorf("invalid frame rate: %v", s.FrameRate)
	}
	if s.TimeNow == nil {
		s.TimeNow = time.Now
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	s.log = s.Log.With("source " + s.ID.String())

	s.parser = &jpeg.Parser{
		OnDecodeError: func(err error) {
			s.log.Warnf("%v", err)
		},
	}

	s.frameDuration = time.Duration(float64(time.Second) / s.FrameRate)

	var qd jpeg.QuantizationData
	pay := s.parser.Parse(s.Image, 0, &qd)
	if !pay.IsValid() {
		return ErrInvalidFrame
	}

	if pay.Width == 0 || pay.Height == 0 {
		return fmt.Errorf("%w: image is bigger than 2040x2040", ErrInvalidFrame)
	}

	s.width = pay.Width * 8
	s.height = pay.Height * 8

	return nil
}

// FrameDuration returns the duration of a frame.
func (s *Source) FrameDuration() time.Duration {
	return s.frameDuration
}

// FrameCount returns the number of frames produced so far.
func (s *Source) FrameCount() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.frameCount
}

// Size returns the size of the image in pixels, rounded up to a multiple of 8.
func (s *Source) Size() (int, int) {
	return s.width, s.height
}

// NextFrame produces the next frame.
// The parser receives the current time in milliseconds as timestamp.
func (s *Source) NextFrame() (*Frame, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.TimeNow()

	if s.frameCount == 0 {
		s.startTime = now
	}

	f := &Frame{
		Number: s.frameCount,
		PTS:    time.Duration(s.frameCount) * s.frameDuration,
	}
	f.NTP = s.startTime.Add(f.PTS)

	f.Payload = s.parser.Parse(s.Image, uint64(now.UnixMilli()), &f.Quantization)
	if !f.Payload.IsValid() {
		return nil, ErrInvalidFrame
	}

	s.frameCount++

	s.log.Debugf("frame %d, size %d, timestamp %d", f.Number, f.Payload.Size(), f.Payload.Timestamp)

	return f, nil
}
