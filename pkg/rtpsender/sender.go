// Package rtpsender contains a utility to send RTP packets.
package rtpsender

import (
	"sync"
	"time"

	"github.com/pion/rtcp"
	"github.com/pion/rtp"
)

// seconds between 1900-01-01 (NTP epoch) and 1970-01-01 (Unix epoch).
const ntpEpochOffset = 2208988800

// encodeNTP encodes a timestamp in NTP format.
// Specification: RFC3550, section 4
func encodeNTP(t time.Time) uint64 {
	secs := uint64(t.Unix() + ntpEpochOffset)
	fractional := (uint64(t.Nanosecond()) << 32) / uint64(time.Second)
	return secs<<32 | fractional
}

// Sender is a utility to send RTP packets.
// It is in charge of generating RTCP sender reports.
type Sender struct {
	ClockRate int
	Period    time.Duration

	// canonical name, sent with reports (optional).
	CNAME string

	TimeNow         func() time.Time
	WritePacketRTCP func([]rtcp.Packet)

	mutex sync.RWMutex

	// data from RTP packets
	firstRTPPacketSent bool
	lastTimeRTP        uint32
	lastTimeNTP        time.Time
	lastTimeSystem     time.Time
	localSSRC          uint32
	lastSequenceNumber uint16
	packetCount        uint32
	octetCount         uint32

	terminate chan struct{}
	done      chan struct{}
}

// Initialize initializes a Sender.
func (rs *Sender) Initialize() {
	if rs.TimeNow == nil {
		rs.TimeNow = time.Now
	}

	rs.terminate = make(chan struct{})
	rs.done = make(chan struct{})

	go rs.run()
}

// Close closes the Sender.
func (rs *Sender) Close() {
	close(rs.terminate)
	<-rs.done
}

func (rs *Sender) run() {
	defer close(rs.done)

	t := time.NewTicker(rs.Period)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			pkts := rs.report()
			if pkts != nil {
				rs.WritePacketRTCP(pkts)
			}

		case <-rs.terminate:
			return
		}
	}
}

// report returns a compound packet made of a sender report and,
// if a CNAME is set, a source description.
func (rs *Sender) report() []rtcp.Packet {
	rs.mutex.RLock()
	defer rs.mutex.RUnlock()

	if !rs.firstRTPPacketSent || rs.ClockRate == 0 {
		return nil
	}

	systemTimeDiff := rs.TimeNow().Sub(rs.lastTimeSystem)
	ntpTime := rs.lastTimeNTP.Add(systemTimeDiff)
	rtpTime := rs.lastTimeRTP + uint32(systemTimeDiff.Seconds()*float64(rs.ClockRate))

	pkts := []rtcp.Packet{
		&rtcp.SenderReport{
			SSRC:        rs.localSSRC,
			NTPTime:     encodeNTP(ntpTime),
			RTPTime:     rtpTime,
			PacketCount: rs.packetCount,
			OctetCount:  rs.octetCount,
		},
	}

	if rs.CNAME != "" {
		pkts = append(pkts, &rtcp.SourceDescription{
			Chunks: []rtcp.SourceDescriptionChunk{{
				Source: rs.localSSRC,
				Items: []rtcp.SourceDescriptionItem{{
					Type: rtcp.SDESCNAME,
					Text: rs.CNAME,
				}},
			}},
		})
	}

	return pkts
}

// ProcessPacket extracts data from RTP packets.
// ntp is the absolute time of the frame the packet belongs to.
func (rs *Sender) ProcessPacket(pkt *rtp.Packet, ntp time.Time) {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	rs.firstRTPPacketSent = true
	rs.lastTimeRTP = pkt.Timestamp
	rs.lastTimeNTP = ntp
	rs.lastTimeSystem = rs.TimeNow()
	rs.localSSRC = pkt.SSRC
	rs.lastSequenceNumber = pkt.SequenceNumber

	rs.packetCount++
	rs.octetCount += uint32(len(pkt.Payload))
}

// Stats are statistics.
type Stats struct {
	LastSequenceNumber uint16
	LastRTP            uint32
	LastNTP            time.Time
	PacketCount        uint32
	OctetCount         uint32
}

// Stats returns statistics.
func (rs *Sender) Stats() *Stats {
	rs.mutex.RLock()
	defer rs.mutex.RUnlock()

	if !rs.firstRTPPacketSent {
		return nil
	}

	return &Stats{
		LastSequenceNumber: rs.lastSequenceNumber,
		LastRTP:            rs.lastTimeRTP,
		LastNTP:            rs.lastTimeNTP,
		PacketCount:        rs.packetCount,
		OctetCount:         rs.octetCount,
	}
}
