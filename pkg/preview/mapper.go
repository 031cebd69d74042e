// Package preview translates between the on-screen preview coordinate space
// and the full-resolution image coordinate space.
package preview

import (
	"image"
	"math"
)

// Offset is a scroll offset in screen pixels.
type Offset struct {
	X float64
	Y float64
}

// Mapper converts between screen and image coordinates for a preview that
// may be zoomed and scrolled. Zoom is the ratio of displayed pixmap size to
// original image size; a preview downscaled to fit a viewport has Zoom < 1.
type Mapper struct {
	Zoom   float64
	Scroll Offset
}

// ToImage maps a screen-space point into image-space coordinates.
func (m Mapper) ToImage(x, y float64) (float64, float64) {
	z := m.zoom()
	return (x + m.Scroll.X) / z, (y + m.Scroll.Y) / z
}

// ToScreen maps an image-space point into screen-space coordinates.
func (m Mapper) ToScreen(x, y float64) (float64, float64) {
	z := m.zoom()
	return x*z - m.Scroll.X, y*z - m.Scroll.Y
}

// DragDelta converts a drag movement reported in screen pixels into
// image-space pixels. Screen deltas are divided by the zoom factor: on a
// downscaled preview one screen pixel covers more than one image pixel.
func (m Mapper) DragDelta(dx, dy float64) (float64, float64) {
	z := m.zoom()
	return dx / z, dy / z
}

// ImagePoint rounds image-space coordinates to the integer pixel position
// used in a watermark spec. Clamping against the watermark box is applied
// later by the compositor.
func ImagePoint(x, y float64) image.Point {
	return image.Pt(int(math.Round(x)), int(math.Round(y)))
}

// FitZoom returns the zoom factor that fits an image inside a viewport
// without upscaling: 1.0 when the image already fits.
func FitZoom(imgW, imgH, viewW, viewH int) float64 {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 1.0
	}
	z := math.Min(float64(viewW)/float64(imgW), float64(viewH)/float64(imgH))
	if z > 1.0 {
		return 1.0
	}
	return z
}

func (m Mapper) zoom() float64 {
	if m.Zoom <= 0 {
		return 1.0
	}
	return m.Zoom
}
