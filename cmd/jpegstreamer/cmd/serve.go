package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bluenviron/jpegstreamer/internal/framesource"
	"github.com/bluenviron/jpegstreamer/internal/rtspserver"
	"github.com/bluenviron/jpegstreamer/internal/stream"
)

// DefineServeCommand defines the command that serves the image with RTSP.
func DefineServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Serve the image with a RTSP server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         RunServe,
	}

	cmd.Flags().String("rtsp-address", "", "address of the RTSP listener")
	cmd.Flags().String("path", "", "path of the stream")

	return cmd
}

// RunServe runs the serve command.
func RunServe(cmd *cobra.Command, _ []string) error {
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

	srv := &rtspserver.Server{
		Conf: c.RTSP,
		Log:  log.With("rtsp"),
	}
	err = srv.Initialize()
	if err != nil {
		return err
	}
	defer srv.Close()

	st := &stream.Streamer{
		Source:         src,
		Writer:         srv,
		PayloadMaxSize: c.PayloadMaxSize,
		Log:            log,
	}
	err = st.Initialize()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runErr := make(chan error, 1)
	go func() {
		runErr <- st.Run(ctx)
	}()

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Wait()
	}()

	select {
	case err = <-runErr:
	case err = <-srvErr:
		cancel()
		<-runErr
	}

	log.Infof("shutting down")
	return err
}
