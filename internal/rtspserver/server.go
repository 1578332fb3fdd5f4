// Package rtspserver contains a RTSP server that serves the M-JPEG stream.
package rtspserver

import (
	"net"
	"strings"
	"sync"
	"time"

	"github.com/bluenviron/gortsplib/v5"
	"github.com/bluenviron/gortsplib/v5/pkg/base"
	"github.com/bluenviron/gortsplib/v5/pkg/description"
	"github.com/bluenviron/gortsplib/v5/pkg/format"
	"github.com/pion/rtp"

	"github.com/bluenviron/jpegstreamer/internal/conf"
	"github.com/bluenviron/jpegstreamer/internal/logger"
)

// Server is a RTSP server that serves a single M-JPEG stream.
type Server struct {
	Conf conf.RTSP
	Log  *logger.Logger

	server *gortsplib.Server
	stream *gortsplib.ServerStream
	media  *description.Media
	mutex  sync.RWMutex
}

// Initialize starts the server.
func (s *Server) Initialize() error {
	// prevent clients from connecting to the server until the stream is properly set up
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.server = &gortsplib.Server{
		Handler:           s,
		RTSPAddress:       s.Conf.Address,
		UDPRTPAddress:     s.Conf.UDPRTPAddress,
		UDPRTCPAddress:    s.Conf.UDPRTCPAddress,
		MulticastIPRange:  s.Conf.MulticastIPRange,
		MulticastRTPPort:  s.Conf.MulticastRTPPort,
		MulticastRTCPPort: s.Conf.MulticastRTCPPort,
	}

	err := s.server.Start()
	if err != nil {
		return err
	}

	s.media = &description.Media{
		Type:    description.MediaTypeVideo,
		Formats: []format.Format{&format.MJPEG{}},
	}

	s.stream = &gortsplib.ServerStream{
		Server: s.server,
		Desc: &description.Session{
			Medias: []*description.Media{s.media},
		},
	}
	err = s.stream.Initialize()
	if err != nil {
		s.server.Close()
		return err
	}

	s.Log.Infof("stream is available at %s", s.URL())

	return nil
}

// Close closes the server.
func (s *Server) Close() {
	s.stream.Close()
	s.server.Close()
}

// Wait waits until a fatal error.
func (s *Server) Wait() error {
	return s.server.Wait()
}

// URL returns the URL of the stream.
func (s *Server) URL() string {
	host, port, err := net.SplitHostPort(s.Conf.Address)
	if err != nil {
		host, port = "", "554"
	}
	if host == "" {
		host = "localhost"
	}

	return "rtsp://" + net.JoinHostPort(host, port) + "/" + s.Conf.Path
}

// WritePacketRTP implements stream.PacketWriter.
func (s *Server) WritePacketRTP(pkt *rtp.Packet, ntp time.Time) error {
	return s.stream.WritePacketRTPWithNTP(s.media, pkt, ntp)
}

func (s *Server) matchPath(path string) bool {
	path = strings.Trim(path, "/")
	return path == s.Conf.Path || strings.HasPrefix(path, s.Conf.Path+"/")
}

// OnConnOpen implements gortsplib.ServerHandlerOnConnOpen.
func (s *Server) OnConnOpen(ctx *gortsplib.ServerHandlerOnConnOpenCtx) {
	s.Log.Infof("conn %v opened", ctx.Conn.NetConn().RemoteAddr())
}

// OnConnClose implements gortsplib.ServerHandlerOnConnClose.
func (s *Server) OnConnClose(ctx *gortsplib.ServerHandlerOnConnCloseCtx) {
	s.Log.Infof("conn %v closed: %v", ctx.Conn.NetConn().RemoteAddr(), ctx.Error)
}

// OnSessionOpen implements gortsplib.ServerHandlerOnSessionOpen.
func (s *Server) OnSessionOpen(_ *gortsplib.ServerHandlerOnSessionOpenCtx) {
	s.Log.Infof("session opened")
}

// OnSessionClose implements gortsplib.ServerHandlerOnSessionClose.
func (s *Server) OnSessionClose(ctx *gortsplib.ServerHandlerOnSessionCloseCtx) {
	s.Log.Infof("session closed: %v", ctx.Error)
}

// OnDescribe implements gortsplib.ServerHandlerOnDescribe.
func (s *Server) OnDescribe(
	ctx *gortsplib.ServerHandlerOnDescribeCtx,
) (*base.Response, *gortsplib.ServerStream, error) {
	s.Log.Debugf("DESCRIBE %s", ctx.Path)

	if !s.matchPath(ctx.Path) {
		return &base.Response{
			StatusCode: base.StatusNotFound,
		}, nil, nil
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return &base.Response{
		StatusCode: base.StatusOK,
	}, s.stream, nil
}

// OnSetup implements gortsplib.ServerHandlerOnSetup.
func (s *Server) OnSetup(
	ctx *gortsplib.ServerHandlerOnSetupCtx,
) (*base.Response, *gortsplib.ServerStream, error) {
	s.Log.Debugf("SETUP %s", ctx.Path)

	if !s.matchPath(ctx.Path) {
		return &base.Response{
			StatusCode: base.StatusNotFound,
		}, nil, nil
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return &base.Response{
		StatusCode: base.StatusOK,
	}, s.stream, nil
}

// OnPlay implements gortsplib.ServerHandlerOnPlay.
func (s *Server) OnPlay(ctx *gortsplib.ServerHandlerOnPlayCtx) (*base.Response, error) {
	s.Log.Debugf("PLAY %s", ctx.Path)

	return &base.Response{
		StatusCode: base.StatusOK,
	}, nil
}
