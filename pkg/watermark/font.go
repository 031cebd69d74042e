package watermark

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// FontManager resolves font families to renderable faces. Lookups try the
// configured system font paths first and fall back to the embedded Go fonts,
// so rendering never fails for lack of a font file.
type FontManager struct {
	systemFontPaths []string

	mu    sync.Mutex
	cache map[string]*truetype.Font
}

// NewFontManager creates a font manager with default system font paths.
func NewFontManager() *FontManager {
	return &FontManager{
		systemFontPaths: []string{
			"/usr/share/fonts/truetype/dejavu",
			"/usr/share/fonts/truetype/msttcorefonts",
			"/usr/share/fonts/TTF",
			"/System/Library/Fonts",
			"/System/Library/Fonts/Supplemental",
			"/Library/Fonts",
			"C:\\Windows\\Fonts",
		},
		cache: make(map[string]*truetype.Font),
	}
}

// SetSystemFontPaths replaces the directories searched for font files.
func (fm *FontManager) SetSystemFontPaths(paths []string) {
	fm.systemFontPaths = paths
}

// Face returns a face for the given family at the given size. Family may be
// a font file path or a family name ("Arial", "DejaVu Sans"); bold and
// italic select the matching style variant where one can be found.
func (fm *FontManager) Face(family string, size float64, bold, italic bool) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %.1f", size)
	}

	fnt := fm.resolve(family, bold, italic)
	return truetype.NewFace(fnt, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func (fm *FontManager) resolve(family string, bold, italic bool) *truetype.Font {
	key := fmt.Sprintf("%s|%t|%t", strings.ToLower(family), bold, italic)

	fm.mu.Lock()
	defer fm.mu.Unlock()
	if f, ok := fm.cache[key]; ok {
		return f
	}

	f := fm.load(family, bold, italic)
	fm.cache[key] = f
	return f
}

// load tries, in order: family as an explicit file path, a style-suffixed
// file in the system font directories, then the embedded Go fonts.
func (fm *FontManager) load(family string, bold, italic bool) *truetype.Font {
	if family != "" {
		if f, err := parseFontFile(family); err == nil {
			return f
		}
		for _, name := range styleCandidates(family, bold, italic) {
			for _, dir := range fm.systemFontPaths {
				path := filepath.Join(dir, name)
				if _, err := os.Stat(path); err != nil {
					continue
				}
				if f, err := parseFontFile(path); err == nil {
					return f
				}
			}
		}
	}
	return embeddedFont(bold, italic)
}

func parseFontFile(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font file %s: %w", path, err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font file %s: %w", path, err)
	}
	return f, nil
}

// styleCandidates produces likely file names for a family and style, e.g.
// "DejaVu Sans" bold -> DejaVuSans-Bold.ttf.
func styleCandidates(family string, bold, italic bool) []string {
	base := strings.ReplaceAll(family, " ", "")
	var style string
	switch {
	case bold && italic:
		style = "BoldItalic"
	case bold:
		style = "Bold"
	case italic:
		style = "Italic"
	}

	var names []string
	if style != "" {
		names = append(names,
			base+"-"+style+".ttf",
			base+" "+style+".ttf",
			strings.ToLower(base+style)+".ttf",
		)
	}
	names = append(names, base+".ttf", strings.ToLower(base)+".ttf")
	return names
}

func embeddedFont(bold, italic bool) *truetype.Font {
	var data []byte
	switch {
	case bold && italic:
		data = gobolditalic.TTF
	case bold:
		data = gobold.TTF
	case italic:
		data = goitalic.TTF
	default:
		data = goregular.TTF
	}
	// The embedded Go fonts always parse.
	f, _ := truetype.Parse(data)
	return f
}
