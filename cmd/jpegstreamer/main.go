// Command jpegstreamer streams a JPEG image as a RTP/M-JPEG video.
package main

import (
	"os"

	"github.com/bluenviron/jpegstreamer/cmd/jpegstreamer/cmd"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
