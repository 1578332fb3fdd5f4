// Package stream contains the loop that turns frames into RTP packets.
package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/pion/rtp"

	"github.com/bluenviron/jpegstreamer/internal/framesource"
	"github.com/bluenviron/jpegstreamer/internal/logger"
	"github.com/bluenviron/jpegstreamer/pkg/format/rtpmjpeg"
	"github.com/bluenviron/jpegstreamer/pkg/rtptime"
)

// PacketWriter writes RTP packets to a transport.
type PacketWriter interface {
	// ntp is the absolute time of the frame the packet belongs to.
	WritePacketRTP(pkt *rtp.Packet, ntp time.Time) error
}

// Streamer reads frames from a Source, encodes them and
// writes the resulting packets to a PacketWriter.
type Streamer struct {
	Source *framesource.Source
	Writer PacketWriter

	// maximum size of packet payloads (optional).
	PayloadMaxSize int

	// SSRC of packets (optional).
	SSRC *uint32

	// initial sequence number of packets (optional).
	InitialSequenceNumber *uint16

	// initial timestamp of packets (optional).
	InitialTimestamp *uint32

	Log *logger.Logger

	encoder     *rtpmjpeg.Encoder
	timeEncoder *rtptime.Encoder
}

// Initialize initializes a Streamer.
func (s *Streamer) Initialize() error {
	s.encoder = &rtpmjpeg.Encoder{
		SSRC:                  s.SSRC,
		InitialSequenceNumber: s.InitialSequenceNumber,
		PayloadMaxSize:        s.PayloadMaxSize,
	}
	err := s.encoder.Init()
	if err != nil {
		return err
	}

	s.timeEncoder = &rtptime.Encoder{
		ClockRate:        rtpmjpeg.ClockRate,
		InitialTimestamp: s.InitialTimestamp,
	}
	return s.timeEncoder.Initialize()
}

// SSRCValue returns the SSRC of packets.
func (s *Streamer) SSRCValue() uint32 {
	return *s.encoder.SSRC
}

// WriteFrame reads a frame and writes its packets.
func (s *Streamer) WriteFrame() error {
	f, err := s.Source.NextFrame()
	if err != nil {
		return err
	}

	pkts, err := s.encoder.EncodePayload(&f.Payload, &f.Quantization)
	if err != nil {
		return fmt.Errorf("unable to encode frame %d: %w", f.Number, err)
	}

	ts := s.timeEncoder.Encode(f.PTS)

	for _, pkt := range pkts {
		pkt.Timestamp = ts

		err = s.Writer.WritePacketRTP(pkt, f.NTP)
		if err != nil {
			return err
		}
	}

	s.Log.Debugf("frame %d written in %d packets, RTP timestamp %d", f.Number, len(pkts), ts)

	return nil
}

// Run writes a frame every frame duration, until the context is canceled.
func (s *Streamer) Run(ctx context.Context) error {
	s.Log.Infof("streaming at %v per frame, SSRC %08x", s.Source.FrameDuration(), s.SSRCValue())

	ticker := time.NewTicker(s.Source.FrameDuration())
	defer ticker.Stop()

	for {
		err := s.WriteFrame()
		if err != nil {
			return err
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil
		}
	}
}
