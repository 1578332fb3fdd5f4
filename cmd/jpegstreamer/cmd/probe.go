package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bluenviron/jpegstreamer/internal/framesource"
	"github.com/bluenviron/jpegstreamer/internal/probe"
)

// DefineProbeCommand defines the command that inspects an image.
func DefineProbeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "probe <image>",
		Short:        "Print the segments of an image and whether it can be streamed",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunProbe,
	}

	cmd.Flags().Bool("roundtrip", false, "packetize the image, depacketize it and compare the result")

	return cmd
}

// RunProbe runs the probe command.
func RunProbe(cmd *cobra.Command, args []string) error {
	image, err := framesource.Load(args[0])
	if err != nil {
		return err
	}

	roundTrip, _ := cmd.Flags().GetBool("roundtrip")

	r := probe.Probe(image, roundTrip)
	r.Write(cmd.OutOrStdout())

	if !r.Streamable() {
		return fmt.Errorf("'%s' can't be streamed", args[0])
	}

	return nil
}
