// Package render turns a scene into pixels: primary rays from a view,
// recursive Whitted shading, and a tiled parallel driver that fills an Image.
package render

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"github.com/taigrr/whitted/pkg/math3d"
)

// ErrInvalidImage is returned when an image cannot be rendered into.
var ErrInvalidImage = errors.New("invalid image")

// Image is a row-major buffer of linear RGB colors.
type Image struct {
	Width  int
	Height int
	Pixels []math3d.Vec3
}

// NewImage creates a black image with the given dimensions.
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]math3d.Vec3, width*height),
	}
}

// Validate reports whether the image can be rendered into.
func (img *Image) Validate() error {
	switch {
	case img == nil:
		return fmt.Errorf("%w: nil image", ErrInvalidImage)
	case img.Width <= 0 || img.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidImage, img.Width, img.Height)
	case len(img.Pixels) != img.Width*img.Height:
		return fmt.Errorf("%w: %d pixels for %dx%d", ErrInvalidImage, len(img.Pixels), img.Width, img.Height)
	}
	return nil
}

// Fill sets every pixel to c.
func (img *Image) Fill(c math3d.Vec3) {
	for i := range img.Pixels {
		img.Pixels[i] = c
	}
}

// Set sets the pixel at (x, y). Out-of-range coordinates are ignored.
func (img *Image) Set(x, y int, c math3d.Vec3) {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return
	}
	img.Pixels[y*img.Width+x] = c
}

// At returns the pixel at (x, y), or black if out of range.
func (img *Image) At(x, y int) math3d.Vec3 {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return math3d.Vec3{}
	}
	return img.Pixels[y*img.Width+x]
}

// toColorful clamps a pixel into displayable range.
func toColorful(c math3d.Vec3) colorful.Color {
	return colorful.Color{R: c.X, G: c.Y, B: c.Z}.Clamped()
}

// RGBA8 quantizes a pixel to 8 bits per channel, clamping to [0,1].
func RGBA8(c math3d.Vec3) color.RGBA {
	r, g, b := toColorful(c).RGB255()
	return color.RGBA{r, g, b, 255}
}

// ToRGBA converts the image to a standard Go image.RGBA.
func (img *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := range img.Height {
		for x := range img.Width {
			out.SetRGBA(x, y, RGBA8(img.Pixels[y*img.Width+x]))
		}
	}
	return out
}

// toRGBA64 converts the image at 16 bits per channel for resampling.
func (img *Image) toRGBA64() *image.RGBA64 {
	out := image.NewRGBA64(image.Rect(0, 0, img.Width, img.Height))
	for y := range img.Height {
		for x := range img.Width {
			c := toColorful(img.Pixels[y*img.Width+x])
			out.SetRGBA64(x, y, color.RGBA64{
				R: uint16(c.R*0xffff + 0.5),
				G: uint16(c.G*0xffff + 0.5),
				B: uint16(c.B*0xffff + 0.5),
				A: 0xffff,
			})
		}
	}
	return out
}

// Downsample resamples the image to width x height with a Lanczos filter.
// Colors are clamped to [0,1] first.
func (img *Image) Downsample(width, height int) *Image {
	if width == img.Width && height == img.Height {
		out := NewImage(width, height)
		copy(out.Pixels, img.Pixels)
		return out
	}
	scaled := resize.Resize(uint(width), uint(height), img.toRGBA64(), resize.Lanczos3)

	out := NewImage(width, height)
	b := scaled.Bounds()
	for y := range height {
		for x := range width {
			r, g, bl, _ := scaled.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.Pixels[y*width+x] = math3d.V3(
				float64(r)/0xffff,
				float64(g)/0xffff,
				float64(bl)/0xffff,
			)
		}
	}
	return out
}

// WritePNG encodes the image as PNG.
func (img *Image) WritePNG(w io.Writer) error {
	return png.Encode(w, img.ToRGBA())
}

// WritePPM encodes the image as binary PPM (P6).
func (img *Image) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return err
	}
	for _, p := range img.Pixels {
		c := RGBA8(p)
		if _, err := bw.Write([]byte{c.R, c.G, c.B}); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Encode writes the image in the format named by ext (".png" or ".ppm").
func (img *Image) Encode(w io.Writer, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return img.WritePNG(w)
	case ".ppm":
		return img.WritePPM(w)
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}
}

// ContentType returns the MIME type for an image extension.
func ContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".ppm":
		return "image/x-portable-pixmap"
	default:
		return "application/octet-stream"
	}
}

// Save writes the image to path, choosing the encoder by extension.
func (img *Image) Save(path string) error {
	ext := filepath.Ext(path)
	if ContentType(ext) == "application/octet-stream" {
		return fmt.Errorf("unsupported image format %q", ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := img.Encode(f, ext); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
