// Package conf contains the configuration of the streamer.
package conf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bluenviron/jpegstreamer/internal/logger"
)

// RTSP contains the configuration of the RTSP server.
type RTSP struct {
	Address           string `yaml:"address"`
	Path              string `yaml:"path"`
	UDPRTPAddress     string `yaml:"udpRTPAddress"`
	UDPRTCPAddress    string `yaml:"udpRTCPAddress"`
	MulticastIPRange  string `yaml:"multicastIPRange"`
	MulticastRTPPort  int    `yaml:"multicastRTPPort"`
	MulticastRTCPPort int    `yaml:"multicastRTCPPort"`
}

// UDP contains the configuration of the RTP/UDP sender.
type UDP struct {
	// address of the receiver, unicast or multicast.
	Destination string `yaml:"destination"`

	// TTL of multicast packets.
	MulticastTTL int `yaml:"multicastTTL"`

	// path of the SDP file to write (optional).
	SDPFile string `yaml:"sdpFile"`

	RTCPPeriod time.Duration `yaml:"rtcpPeriod"`
}

// Conf is the configuration.
type Conf struct {
	LogLevel       string  `yaml:"logLevel"`
	Image          string  `yaml:"image"`
	FPS            float64 `yaml:"fps"`
	PayloadMaxSize int     `yaml:"payloadMaxSize"`
	RTSP           RTSP    `yaml:"rtsp"`
	UDP            UDP     `yaml:"udp"`
}

// SetDefaults sets the default values.
func (c *Conf) SetDefaults() {
	c.LogLevel = "info"
	c.Image = "image.jpg"
	c.FPS = 25
	c.PayloadMaxSize = 1460
	c.RTSP = RTSP{
		Address:           ":7070",
		Path:              "JPEG",
		UDPRTPAddress:     ":8000",
		UDPRTCPAddress:    ":8001",
		MulticastIPRange:  "224.1.0.0/16",
		MulticastRTPPort:  8002,
		MulticastRTCPPort: 8003,
	}
	c.UDP = UDP{
		Destination:  "127.0.0.1:5004",
		MulticastTTL: 1,
		RTCPPeriod:   5 * time.Second,
	}
}

// Load loads the configuration from a YAML file.
// Values not present in the file keep their defaults.
// When path is empty, the default configuration is returned.
func Load(path string) (*Conf, error) {
	c := &Conf{}
	c.SetDefaults()

	if path != "" {
		byts, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		err = c.unmarshal(byts)
		if err != nil {
			return nil, fmt.Errorf("unable to load '%s': %w", path, err)
		}
	}

	err := c.Validate()
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Conf) unmarshal(byts []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(byts))
	dec.KnownFields(true)

	err := dec.Decode(c)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// Validate checks the configuration.
func (c *Conf) Validate() error {
	_, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}

	if c.Image == "" {
		return fmt.Errorf("image is empty")
	}

	if c.FPS <= 0 || c.FPS > 1000 {
		return fmt.Errorf("invalid fps: %v", c.FPS)
	}

	if c.PayloadMaxSize < 64 {
		return fmt.Errorf("invalid payload max size: %d", c.PayloadMaxSize)
	}

	if c.RTSP.Address == "" {
		return fmt.Errorf("RTSP address is empty")
	}

	c.RTSP.Path = strings.Trim(c.RTSP.Path, "/")
	if c.RTSP.Path == "" {
		return fmt.Errorf("RTSP path is empty")
	}

	if c.RTSP.MulticastIPRange != "" {
		_, _, err = net.ParseCIDR(c.RTSP.MulticastIPRange)
		if err != nil {
			return fmt.Errorf("invalid multicast IP range: %w", err)
		}
	}

	if c.UDP.Destination != "" {
		_, err = net.ResolveUDPAddr("udp", c.UDP.Destination)
		if err != nil {
			return fmt.Errorf("invalid UDP destination: %w", err)
		}
	}

	if c.UDP.MulticastTTL < 1 || c.UDP.MulticastTTL > 255 {
		return fmt.Errorf("invalid multicast TTL: %d", c.UDP.MulticastTTL)
	}

	if c.UDP.RTCPPeriod <= 0 {
		return fmt.Errorf("invalid RTCP period: %v", c.UDP.RTCPPeriod)
	}

	return nil
}
