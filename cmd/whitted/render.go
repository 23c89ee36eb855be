package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/whitted/pkg/publish"
	"github.com/taigrr/whitted/pkg/render"
)

var errBadSize = errors.New("width, height and ssaa must be positive")

type renderOptions struct {
	sceneOptions
	width   int
	height  int
	ssaa    int
	out     string
	upload  bool
	envFile string
}

func newRenderCmd(logger *log.Logger) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to an image file",
		Example: `  whitted render --out spheres.png
  whitted render --model teapot.glb --width 1280 --height 720 --ssaa 2
  whitted render --fresnel schlick --out out.ppm --upload`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, opts, logger)
		},
	}
	opts.register(cmd)
	f := cmd.Flags()
	f.IntVarP(&opts.width, "width", "W", 640, "Image width in pixels")
	f.IntVarP(&opts.height, "height", "H", 480, "Image height in pixels")
	f.IntVar(&opts.ssaa, "ssaa", 1, "Supersampling factor per axis")
	f.StringVarP(&opts.out, "out", "o", "out.png", "Output file (.png or .ppm)")
	f.BoolVar(&opts.upload, "upload", false, "Upload the image to S3 after rendering")
	f.StringVar(&opts.envFile, "env", ".env", "Env file with WHITTED_S3_* settings")
	return cmd
}

func runRender(cmd *cobra.Command, opts *renderOptions, logger *log.Logger) error {
	if opts.width <= 0 || opts.height <= 0 || opts.ssaa <= 0 {
		return errBadSize
	}
	ext := filepath.Ext(opts.out)
	if render.ContentType(ext) == "application/octet-stream" {
		return fmt.Errorf("unsupported output format %q (use .png or .ppm)", ext)
	}

	// Resolve the publisher first so a bad config fails before the render.
	var publisher *publish.S3Publisher
	if opts.upload {
		var err error
		publisher, err = publish.NewS3Publisher(publish.ConfigFromEnv(opts.envFile))
		if err != nil {
			return err
		}
	}

	start := time.Now()
	s, err := opts.build()
	if err != nil {
		return err
	}
	tracer, err := opts.tracer(s)
	if err != nil {
		return err
	}
	logger.Debug("scene ready", "scene", opts.scene, "objects", len(s.Objects), "lights", len(s.Lights), "took", time.Since(start))

	w, h := opts.width*opts.ssaa, opts.height*opts.ssaa
	workers := opts.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger.Debug("rendering", "width", w, "height", h, "tiles", len(render.Tiles(h, workers)), "depth", tracer.MaxDepth)

	img := render.NewImage(w, h)
	start = time.Now()
	if err := opts.renderer(tracer).Render(s.View, img); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if opts.ssaa > 1 {
		img = img.Downsample(opts.width, opts.height)
	}
	logger.Info("rendered", "size", fmt.Sprintf("%dx%d", opts.width, opts.height), "ssaa", opts.ssaa, "took", time.Since(start).Round(time.Millisecond))

	var buf bytes.Buffer
	if err := img.Encode(&buf, ext); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := os.WriteFile(opts.out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	logger.Info("saved", "path", opts.out, "bytes", buf.Len())

	if publisher != nil {
		location, err := publisher.Publish(cmd.Context(), filepath.Base(opts.out), render.ContentType(ext), buf.Bytes())
		if err != nil {
			return err
		}
		logger.Info("uploaded", "location", location)
	}
	return nil
}
