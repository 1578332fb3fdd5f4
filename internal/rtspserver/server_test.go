package rtspserver

import (
	"bufio"
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/bluenviron/gortsplib/v5/pkg/base"
	"github.com/pion/rtp"
	"github.com/stretchr/testify/require"

	"github.com/bluenviron/jpegstreamer/internal/conf"
	"github.com/bluenviron/jpegstreamer/internal/logger"
)

func describe(t *testing.T, path string) *base.Response {
	nconn, err := net.Dial("tcp", "127.0.0.1:8554")
	require.NoError(t, err)
	defer nconn.Close()

	_, err = nconn.Write([]byte("DESCRIBE rtsp://127.0.0.1:8554/" + path + " RTSP/1.0\r\n" +
		"CSeq: 1\r\n" +
		"Accept: application/sdp\r\n" +
		"\r\n"))
	require.NoError(t, err)

	var res base.Response
	err = res.Unmarshal(bufio.NewReader(nconn))
	require.NoError(t, err)

	return &res
}

func TestServer(t *testing.T) {
	var buf bytes.Buffer

	s := &Server{
		Conf: conf.RTSP{
			Address: "127.0.0.1:8554",
			Path:    "JPEG",
		},
		Log: logger.New(&buf, logger.Info),
	}
	err := s.Initialize()
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, "rtsp://127.0.0.1:8554/JPEG", s.URL())
	require.Contains(t, buf.String(), "[INFO] stream is available at rtsp://127.0.0.1:8554/JPEG\n")

	res := describe(t, "JPEG")
	require.Equal(t, base.StatusOK, res.StatusCode)
	require.Contains(t, string(res.Body), "m=video 0 RTP/AVP 26")

	res = describe(t, "other")
	require.Equal(t, base.StatusNotFound, res.StatusCode)

	err = s.WritePacketRTP(&rtp.Packet{
		Header: rtp.Header{
			Version:     2,
			Marker:      true,
			PayloadType: 26,
		},
		Payload: []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x32, 0x02, 0x02, 0x01},
	}, time.Now())
	require.NoError(t, err)
}

func TestServerMatchPath(t *testing.T) {
	s := &Server{Conf: conf.RTSP{Path: "JPEG"}}

	for _, ca := range []struct {
		path string
		ok   bool
	}{
		{"/JPEG", true},
		{"JPEG", true},
		{"/JPEG/", true},
		{"/JPEG/trackID=0", true},
		{"/JPEGX", false},
		{"/other", false},
		{"", false},
	} {
		require.Equal(t, ca.ok, s.matchPath(ca.path), ca.path)
	}
}

func TestServerURL(t *testing.T) {
	for _, ca := range []struct {
		address string
		url     string
	}{
		{":7070", "rtsp://localhost:7070/JPEG"},
		{"192.168.1.2:554", "rtsp://192.168.1.2:554/JPEG"},
		{"[::1]:8554", "rtsp://[::1]:8554/JPEG"},
	} {
		s := &Server{Conf: conf.RTSP{Address: ca.address, Path: "JPEG"}}
		require.Equal(t, ca.url, s.URL())
	}
}
