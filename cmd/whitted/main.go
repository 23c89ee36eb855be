// whitted - Whitted-style ray tracer
// Render reference scenes or loaded meshes to PNG/PPM files, optionally
// publishing them to S3, or explore them live in the terminal.
//
// View controls:
//
//	A/D, left/right - Orbit around the focus point
//	W/S, up/down    - Tilt the camera
//	+/-             - Zoom in/out
//	R               - Reset view
//	Esc/Q           - Quit
package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "whitted",
	})

	root := newRootCmd(logger)
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "whitted",
		Short: "Recursive ray tracer with reflection, refraction and shadows",
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	root.AddCommand(newRenderCmd(logger), newViewCmd(logger))
	return root
}
