// Package udpsender contains a sender that pushes the M-JPEG stream
// to a unicast or multicast UDP destination.
package udpsender

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	psdp "github.com/pion/sdp/v3"
	"golang.org/x/net/ipv4"

	"github.com/bluenviron/jpegstreamer/internal/logger"
	"github.com/bluenviron/jpegstreamer/pkg/format"
	"github.com/bluenviron/jpegstreamer/pkg/format/rtpmjpeg"
	"github.com/bluenviron/jpegstreamer/pkg/rtpsender"
)

// Sender sends RTP packets to Destination and RTCP sender reports
// to the port that follows it.
type Sender struct {
	// address of the receiver.
	Destination string

	// TTL of multicast packets.
	MulticastTTL int

	// period of RTCP sender reports (optional).
	// It defaults to 5 seconds.
	RTCPPeriod time.Duration

	// canonical name sent with sender reports (optional).
	CNAME string

	Log *logger.Logger

	rtpAddr    *net.UDPAddr
	rtpConn    *net.UDPConn
	rtcpConn   *net.UDPConn
	rtcpSender *rtpsender.Sender

	receiverMissing bool
}

// Initialize opens the sockets.
func (s *Sender) Initialize() error {
	if s.RTCPPeriod == 0 {
		s.RTCPPeriod = 5 * time.Second
	}

	addr, err := net.ResolveUDPAddr("udp4", s.Destination)
	if err != nil {
		return err
	}

	if addr.Port == 0 || addr.Port%2 != 0 {
		return fmt.Errorf("destination port must be even, got %d", addr.Port)
	}

	s.rtpAddr = addr

	s.rtpConn, err = s.dial(addr)
	if err != nil {
		return err
	}

	s.rtcpConn, err = s.dial(&net.UDPAddr{IP: addr.IP, Port: addr.Port + 1})
	if err != nil {
		s.rtpConn.Close()
		return err
	}

	s.rtcpSender = &rtpsender.Sender{
		ClockRate:       rtpmjpeg.ClockRate,
		Period:          s.RTCPPeriod,
		CNAME:           s.CNAME,
		WritePacketRTCP: s.writePacketsRTCP,
	}
	s.rtcpSender.Initialize()

	s.Log.Infof("sending to %v (RTCP on port %d)", addr, addr.Port+1)

	return nil
}

func (s *Sender) dial(addr *net.UDPAddr) (*net.UDPConn, error) {
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return nil, err
	}

	if addr.IP.IsMulticast() {
		err = ipv4.NewPacketConn(conn).SetMulticastTTL(s.MulticastTTL)
		if err != nil {
			conn.Close()
			return nil, err
		}
	}

	return conn, nil
}

// Close closes the sockets.
func (s *Sender) Close() {
	s.rtcpSender.Close()
	s.rtpConn.Close()
	s.rtcpConn.Close()
}

// WritePacketRTP implements stream.PacketWriter.
func (s *Sender) WritePacketRTP(pkt *rtp.Packet, ntp time.Time) error {
	buf, err := pkt.Marshal()
	if err != nil {
		return err
	}

	_, err = s.rtpConn.Write(buf)
	if err != nil {
		// ICMP port unreachable, returned when the receiver is not started yet.
		if !errors.Is(err, syscall.ECONNREFUSED) {
			return err
		}

		if !s.receiverMissing {
			s.receiverMissing = true
			s.Log.Warnf("receiver is not reachable, sending anyway: %v", err)
		}
	}

	s.rtcpSender.ProcessPacket(pkt, ntp)
	return nil
}

func (s *Sender) writePacketsRTCP(pkts []rtcp.Packet) {
	buf, err := rtcp.Marshal(pkts)
	if err != nil {
		s.Log.Warnf("unable to marshal RTCP packets: %v", err)
		return
	}

	_, err = s.rtcpConn.Write(buf)
	if err != nil && !errors.Is(err, syscall.ECONNREFUSED) {
		s.Log.Warnf("unable to write RTCP packets: %v", err)
	}
}

// Stats returns statistics about sent packets, or nil if nothing has been sent yet.
func (s *Sender) Stats() *rtpsender.Stats {
	return s.rtcpSender.Stats()
}

// SessionDescription returns a SDP that allows receivers to read the stream.
func (s *Sender) SessionDescription(forma *format.MJPEG) *psdp.SessionDescription {
	address := &psdp.Address{Address: s.rtpAddr.IP.String()}
	if s.rtpAddr.IP.IsMulticast() {
		ttl := s.MulticastTTL
		address.TTL = &ttl
	}

	return &psdp.SessionDescription{
		Origin: psdp.Origin{
			Username:       "-",
			SessionID:      uint64(time.Now().Unix()),
			SessionVersion: 1,
			NetworkType:    "IN",
			AddressType:    "IP4",
			UnicastAddress: "0.0.0.0",
		},
		SessionName: "JPEG stream",
		ConnectionInformation: &psdp.ConnectionInformation{
			NetworkType: "IN",
			AddressType: "IP4",
			Address:     address,
		},
		TimeDescriptions: []psdp.TimeDescription{
			{Timing: psdp.Timing{StartTime: 0, StopTime: 0}},
		},
		MediaDescriptions: []*psdp.MediaDescription{
			forma.MediaDescription(s.rtpAddr.Port, ""),
		},
	}
}

// WriteSDP writes the session description into a file.
func (s *Sender) WriteSDP(path string, forma *format.MJPEG) error {
	byts, err := s.SessionDescription(forma).Marshal()
	if err != nil {
		return err
	}

	err = os.WriteFile(path, byts, 0o644)
	if err != nil {
		return err
	}

	s.Log.Infof("SDP written to %s", path)
	return nil
}
