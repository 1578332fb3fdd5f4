package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bluenviron/jpegstreamer/internal/framesource"
	"github.com/bluenviron/jpegstreamer/internal/stream"
	"github.com/bluenviron/jpegstreamer/internal/udpsender"
	"github.com/bluenviron/jpegstreamer/pkg/format"
)

// DefineSendCommand defines the command that sends the image to a UDP destination.
func DefineSendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "send",
		Short:        "Send the image to a unicast or multicast UDP destination",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         RunSend,
	}

	cmd.Flags().StringP("destination", "d", "", "address of the receiver")
	cmd.Flags().String("sdp", "", "write a SDP file that describes the stream")
	cmd.Flags().Int("ttl", 0, "TTL of multicast packets")

	return cmd
}

// RunSend runs the send command.
func RunSend(cmd *cobra.Command, _ []string) error {
	c, err := loadConf(cmd)
	if err != nil {
		return err
	}

	log := newLogger(c)

	image, err := framesource.Load(c.Image)
	if err != nil {
		return err
	}

	src := &framesource.Source{
		Image:     image,
		FrameRate: c.FPS,
		Log:       log,
	}
	err = src.Initialize()
	if err != nil {
		return err
	}

	sender := &udpsender.Sender{
		Destination:  c.UDP.Destination,
		MulticastTTL: c.UDP.MulticastTTL,
		RTCPPeriod:   c.UDP.RTCPPeriod,
		CNAME:        src.ID.String(),
		Log:          log.With("udp"),
	}
	err = sender.Initialize()
	if err != nil {
		return err
	}
	defer sender.Close()

	if c.UDP.SDPFile != "" {
		width, height := src.Size()

		err = sender.WriteSDP(c.UDP.SDPFile, &format.MJPEG{
			Width:     width,
			Height:    height,
			FrameRate: c.FPS,
		})
		if err != nil {
			return err
		}
	}

	st := &stream.Streamer{
		Source:         src,
		Writer:         sender,
		PayloadMaxSize: c.PayloadMaxSize,
		Log:            log,
	}
	err = st.Initialize()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = st.Run(ctx)

	if stats := sender.Stats(); stats != nil {
		log.Infof("sent %d packets, %d bytes", stats.PacketCount, stats.OctetCount)
	}

	return err
}
