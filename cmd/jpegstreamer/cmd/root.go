// Package cmd contains the commands of jpegstreamer.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bluenviron/jpegstreamer/internal/conf"
	"github.com/bluenviron/jpegstreamer/internal/logger"
)

// AppName is the name of the executable.
const AppName = "jpegstreamer"

// Execute runs the root command.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: AppName + " - stream a JPEG image with RTP",
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "path of a YAML configuration file")
	rootCmd.PersistentFlags().String("image", "", "path of the JPEG image to stream")
	rootCmd.PersistentFlags().Float64("fps", 0, "frames per second")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(DefineServeCommand())
	rootCmd.AddCommand(DefineSendCommand())
	rootCmd.AddCommand(DefineProbeCommand())

	return rootCmd
}

// loadConf loads the configuration file and applies flags on top of it.
func loadConf(cmd *cobra.Command) (*conf.Conf, error) {
	path, _ := cmd.Flags().GetString("config")

	c, err := conf.Load(path)
	if err != nil {
		return nil, err
	}

	setString := func(name string, dst *string) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}

	setString("image", &c.Image)
	setString("log-level", &c.LogLevel)
	setString("rtsp-address", &c.RTSP.Address)
	setString("path", &c.RTSP.Path)
	setString("destination", &c.UDP.Destination)
	setString("sdp", &c.UDP.SDPFile)

	if cmd.Flags().Changed("fps") {
		c.FPS, _ = cmd.Flags().GetFloat64("fps")
	}
	if f := cmd.Flags().Lookup("ttl"); f != nil && f.Changed {
		c.UDP.MulticastTTL, _ = cmd.Flags().GetInt("ttl")
	}

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	return c, nil
}

func newLogger(c *conf.Conf) *logger.Logger {
	level, _ := logger.ParseLevel(c.LogLevel)
	return logger.New(os.Stderr, level)
}
