package watermark

import (
	"image"
	"image/color"
	"strings"
)

// Kind selects the watermark variant.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Background describes the optional filled rectangle behind a text watermark.
type Background struct {
	Color   color.NRGBA
	Opacity int // 0-100
}

// Spec is the immutable parameter set for one render request. The compositor
// never mutates a caller-provided spec; batch jobs take a Clone at start.
type Spec struct {
	Kind Kind

	Opacity     int // 0-100 percent
	Position    Position
	Margin      int // pixels, anchor positions only
	Rotation    int // degrees, normalized mod 360 at render time
	Tiling      bool
	TileSpacing int          // pixels, tiled mode only
	CustomPos   *image.Point // required when Position == PositionCustom

	// Text variant.
	Text       string
	FontFamily string
	FontSize   int // 0 derives max(20, imageWidth/8) at render time
	Bold       bool
	Italic     bool
	Color      color.NRGBA
	Background *Background

	// Image variant. Mark is owned by the caller; the compositor holds it
	// for the duration of one render call only.
	Mark  image.Image
	Scale int // percent, 100 = original size
}

// Clone returns a deep copy of the spec. The snapshot-at-start rule for
// batch jobs depends on this: edits to the original after cloning must not
// affect the copy.
func (s *Spec) Clone() *Spec {
	c := *s
	if s.CustomPos != nil {
		p := *s.CustomPos
		c.CustomPos = &p
	}
	if s.Background != nil {
		b := *s.Background
		c.Background = &b
	}
	return &c
}

// Validate checks spec fields that do not depend on the source image.
// Font size derivation is deferred to render time, so FontSize 0 is legal.
func (s *Spec) Validate() error {
	switch s.Kind {
	case KindText:
		if strings.TrimSpace(s.Text) == "" {
			return &ValidationError{Field: "text", Reason: "must not be empty"}
		}
		if s.FontSize < 0 {
			return &ValidationError{Field: "font_size", Reason: "must be positive"}
		}
		if s.Background != nil && (s.Background.Opacity < 0 || s.Background.Opacity > 100) {
			return &ValidationError{Field: "bg_opacity", Reason: "must be in 0-100"}
		}
	case KindImage:
		if s.Mark == nil {
			return &AssetError{Err: errNilMark}
		}
		if s.Scale <= 0 {
			return &ValidationError{Field: "scale", Reason: "must be positive"}
		}
	default:
		return &ValidationError{Field: "watermark_type", Reason: "must be text or image"}
	}

	if s.Opacity < 0 || s.Opacity > 100 {
		return &ValidationError{Field: "opacity", Reason: "must be in 0-100"}
	}
	if s.Margin < 0 {
		return &ValidationError{Field: "margin", Reason: "must not be negative"}
	}
	if s.TileSpacing < 0 {
		return &ValidationError{Field: "tile_spacing", Reason: "must not be negative"}
	}
	if s.Position == PositionCustom && s.CustomPos == nil {
		return &ValidationError{Field: "custom_position", Reason: "required for custom position"}
	}
	return nil
}

// normalizeRotation folds any integer degree value into [0, 360).
func normalizeRotation(deg int) int {
	return ((deg % 360) + 360) % 360
}
