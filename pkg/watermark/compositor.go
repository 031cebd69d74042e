// Package watermark renders text and image watermarks onto photographs.
// It owns placement, rotation, tiling and blending; file handling and UI
// concerns live with the callers.
package watermark

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"

	"github.com/xinyangwy/PhotoWatermark2-wzl/pkg/colorutil"
)

// Compositor renders one watermark onto one source image per render call.
// It is stateless apart from the font cache and safe for reuse across calls.
type Compositor struct {
	fonts  *FontManager
	logger *logrus.Logger
}

// NewCompositor creates a compositor. A nil font manager or logger is
// replaced with a default one.
func NewCompositor(fonts *FontManager, logger *logrus.Logger) *Compositor {
	if fonts == nil {
		fonts = NewFontManager()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Compositor{fonts: fonts, logger: logger}
}

// Render composites the watermark described by spec over a copy of src.
// The result always has the same pixel dimensions as src; src and spec are
// never mutated. All failures are returned as values, never panics.
func (c *Compositor) Render(src image.Image, spec *Spec) (*image.NRGBA, error) {
	if src == nil {
		return nil, &AssetError{Err: errors.New("source image is nil")}
	}
	if src.Bounds().Dx() < 1 || src.Bounds().Dy() < 1 {
		return nil, &AssetError{Err: errors.New("source image is empty")}
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	dst := imaging.Clone(src)
	imgW, imgH := dst.Bounds().Dx(), dst.Bounds().Dy()

	tile, alpha, err := c.renderTile(spec, imgW)
	if err != nil {
		return nil, err
	}
	tileW, tileH := tile.Bounds().Dx(), tile.Bounds().Dy()

	if spec.Tiling {
		// Tiles keep the base, unrotated watermark content; rotation and
		// background do not apply in tiled mode.
		for _, at := range tilePlacements(imgW, imgH, tileW, tileH, spec.TileSpacing) {
			drawTile(dst, tile, at, alpha)
		}
		return dst, nil
	}

	pos, err := c.resolvePosition(spec, imgW, imgH, tileW, tileH)
	if err != nil {
		return nil, err
	}

	if spec.Kind == KindText && spec.Background != nil {
		pad := spec.Margin
		bgRect := image.Rect(pos.X-pad, pos.Y-pad, pos.X+tileW+pad, pos.Y+tileH+pad)
		bgCol := colorutil.WithAlphaPercent(spec.Background.Color, spec.Background.Opacity)
		draw.Draw(dst, bgRect, image.NewUniform(bgCol), image.Point{}, draw.Over)
	}

	if rot := normalizeRotation(spec.Rotation); rot != 0 {
		// Rotate the content about its own center; the anchor box itself is
		// computed from the unrotated dimensions.
		rotated := imaging.Rotate(tile, -float64(rot), color.NRGBA{})
		at := image.Pt(
			pos.X+tileW/2-rotated.Bounds().Dx()/2,
			pos.Y+tileH/2-rotated.Bounds().Dy()/2,
		)
		drawTile(dst, rotated, at, alpha)
		return dst, nil
	}

	drawTile(dst, tile, pos, alpha)
	return dst, nil
}

// renderTile produces the watermark content as a standalone image plus the
// global alpha it should be composited with. Text bakes color and opacity
// into the glyphs and composites at full alpha; image watermarks keep the
// source pixels and blend through the alpha mask.
func (c *Compositor) renderTile(spec *Spec, imgW int) (image.Image, uint8, error) {
	switch spec.Kind {
	case KindText:
		tile, err := c.renderTextTile(spec, imgW)
		return tile, 255, err
	case KindImage:
		tile, err := c.renderImageTile(spec)
		return tile, alphaPercent(spec.Opacity), err
	default:
		return nil, 0, &ValidationError{Field: "watermark_type", Reason: "must be text or image"}
	}
}

func (c *Compositor) renderTextTile(spec *Spec, imgW int) (image.Image, error) {
	size := spec.FontSize
	if size == 0 {
		// Resolution-relative default: an eighth of the image width.
		size = imgW / 8
		if size < 20 {
			size = 20
		}
	}

	face, err := c.fonts.Face(spec.FontFamily, float64(size), spec.Bold, spec.Italic)
	if err != nil {
		return nil, &ValidationError{Field: "font_size", Reason: err.Error()}
	}

	text := strings.TrimSpace(spec.Text)
	metrics := face.Metrics()
	w := font.MeasureString(face, text).Ceil()
	h := (metrics.Ascent + metrics.Descent).Ceil()
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	col := colorutil.WithAlphaPercent(spec.Color, spec.Opacity)

	dc := gg.NewContext(w, h)
	dc.SetFontFace(face)
	dc.SetColor(col)
	dc.DrawString(text, 0, float64(metrics.Ascent.Ceil()))
	return dc.Image(), nil
}

func (c *Compositor) renderImageTile(spec *Spec) (image.Image, error) {
	if spec.Scale == 100 {
		return spec.Mark, nil
	}
	factor := float64(spec.Scale) / 100.0
	w := int(math.Round(float64(spec.Mark.Bounds().Dx()) * factor))
	h := int(math.Round(float64(spec.Mark.Bounds().Dy()) * factor))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return imaging.Resize(spec.Mark, w, h, imaging.Lanczos), nil
}

// resolvePosition maps the spec's position onto a top-left coordinate for a
// tileW x tileH box inside an imgW x imgH image.
func (c *Compositor) resolvePosition(spec *Spec, imgW, imgH, tileW, tileH int) (image.Point, error) {
	if spec.Position == PositionCustom {
		if spec.CustomPos == nil {
			return image.Point{}, &ValidationError{Field: "custom_position", Reason: "required for custom position"}
		}
		return clampToBounds(*spec.CustomPos, imgW, imgH, tileW, tileH), nil
	}
	if !spec.Position.Known() && spec.Position != "" {
		// Unrecognized strings keep rendering at center; the warning makes
		// typos in persisted settings visible.
		c.logger.WithField("position", string(spec.Position)).
			Warn("Unknown watermark position, falling back to center")
	}
	return resolveAnchor(spec.Position, imgW, imgH, tileW, tileH, spec.Margin), nil
}

// tilePlacements computes the brick-pattern tile grid. Odd rows shift right
// by half a tile; placements past the image edge are kept and later clipped
// by the canvas so coverage reaches the borders.
func tilePlacements(imgW, imgH, tileW, tileH, spacing int) []image.Point {
	cols := (imgW + spacing) / (tileW + spacing)
	rows := (imgH + spacing) / (tileH + spacing)

	pts := make([]image.Point, 0, (rows+1)*(cols+1))
	for row := 0; row <= rows; row++ {
		for col := 0; col <= cols; col++ {
			x := col * (tileW + spacing)
			if row%2 == 1 {
				x += tileW / 2
			}
			pts = append(pts, image.Pt(x, row*(tileH+spacing)))
		}
	}
	return pts
}

// drawTile alpha-blends tile over dst at the given top-left point, scaled by
// a global alpha. The draw package clips boxes that overflow the canvas.
func drawTile(dst *image.NRGBA, tile image.Image, at image.Point, alpha uint8) {
	r := image.Rectangle{Min: at, Max: at.Add(tile.Bounds().Size())}
	draw.DrawMask(dst, r, tile, tile.Bounds().Min,
		image.NewUniform(color.Alpha{A: alpha}), image.Point{}, draw.Over)
}

func alphaPercent(pct int) uint8 {
	return uint8(math.Round(255.0 * float64(pct) / 100.0))
}
