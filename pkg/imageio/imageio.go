// Package imageio is the image store: it decodes, encodes and thumbnails
// raster images for the compositor and the batch runner.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp" // decode support for .webp inputs

	"github.com/xinyangwy/PhotoWatermark2-wzl/pkg/watermark"
)

// DefaultJPEGQuality is used when an encode request carries no usable quality.
const DefaultJPEGQuality = 90

var supportedInput = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true,
	".gif": true, ".webp": true, ".tiff": true, ".tif": true,
}

// SupportedInput reports whether the path has a loadable image extension.
func SupportedInput(path string) bool {
	return supportedInput[strings.ToLower(filepath.Ext(path))]
}

// Store reads and writes raster images on the local filesystem.
type Store struct{}

// NewStore creates an image store.
func NewStore() *Store {
	return &Store{}
}

// Decode loads and decodes the image at path.
func (s *Store) Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, &watermark.AssetError{Path: path, Err: err}
	}
	return img, nil
}

// Encode writes img to path in the given format ("jpeg", "png", "bmp").
// An unknown format falls back to the path's extension. Quality applies to
// JPEG only; transparency is flattened onto white for formats without an
// alpha channel.
func (s *Store) Encode(img image.Image, path string, format string, quality int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &watermark.IOError{Path: path, Err: err}
	}

	f := strings.ToLower(format)
	switch f {
	case "jpeg", "jpg", "png", "bmp":
	default:
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	out, err := os.Create(path)
	if err != nil {
		return &watermark.IOError{Path: path, Err: err}
	}
	defer out.Close()

	switch f {
	case "jpeg", "jpg":
		if quality < 1 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		err = jpeg.Encode(out, flattenToRGB(img, color.NRGBA{R: 255, G: 255, B: 255, A: 255}), &jpeg.Options{Quality: quality})
	case "png":
		err = png.Encode(out, img)
	case "bmp":
		err = bmp.Encode(out, flattenToRGB(img, color.NRGBA{R: 255, G: 255, B: 255, A: 255}))
	default:
		err = fmt.Errorf("unsupported output format: %q", format)
	}
	if err != nil {
		return &watermark.IOError{Path: path, Err: err}
	}
	return nil
}

// Thumbnail scales img down to fit inside a w x h box, preserving aspect
// ratio. Images already inside the box are returned untouched.
func (s *Store) Thumbnail(img image.Image, w, h int) image.Image {
	if img.Bounds().Dx() <= w && img.Bounds().Dy() <= h {
		return img
	}
	return imaging.Fit(img, w, h, imaging.Lanczos)
}

// flattenToRGB composites img over an opaque background, dropping alpha.
func flattenToRGB(img image.Image, bg color.NRGBA) image.Image {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, &image.Uniform{C: bg}, image.Point{}, draw.Src)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Over)
	return rgba
}
