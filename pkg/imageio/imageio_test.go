package imageio

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xinyangwy/PhotoWatermark2-wzl/pkg/watermark"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{R: 200, G: 40, B: 40, A: 255}), image.Point{}, draw.Src)
	return img
}

func TestSupportedInput(t *testing.T) {
	for _, p := range []string{"a.jpg", "b.JPEG", "c.png", "d.bmp", "e.gif", "f.tiff", "g.webp"} {
		assert.True(t, SupportedInput(p), p)
	}
	for _, p := range []string{"a.txt", "b.pdf", "noext", "c.svg"} {
		assert.False(t, SupportedInput(p), p)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	store := NewStore()
	src := testImage(32, 24)

	for _, format := range []string{"png", "jpeg", "bmp"} {
		path := filepath.Join(t.TempDir(), "out."+format)
		require.NoError(t, store.Encode(src, path, format, 90), format)

		got, err := store.Decode(path)
		require.NoError(t, err, format)
		assert.Equal(t, 32, got.Bounds().Dx(), format)
		assert.Equal(t, 24, got.Bounds().Dy(), format)
	}
}

func TestEncodePNGLossless(t *testing.T) {
	store := NewStore()
	src := testImage(16, 16)
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, store.Encode(src, path, "png", 0))

	got, err := store.Decode(path)
	require.NoError(t, err)
	r, g, b, a := got.At(4, 4).RGBA()
	assert.Equal(t, color.NRGBA{R: 200, G: 40, B: 40, A: 255},
		color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)})
}

func TestEncodeFormatFromExtension(t *testing.T) {
	store := NewStore()
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, store.Encode(testImage(8, 8), path, "", 0))

	// A PNG signature, not a JPEG one.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, byte(0x89), data[0])
	assert.Equal(t, []byte("PNG"), data[1:4])
}

func TestEncodeCreatesDirectories(t *testing.T) {
	store := NewStore()
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.png")
	require.NoError(t, store.Encode(testImage(8, 8), path, "png", 0))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestEncodeJPEGFlattensAlpha(t *testing.T) {
	store := NewStore()
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8)) // fully transparent
	path := filepath.Join(t.TempDir(), "out.jpg")
	require.NoError(t, store.Encode(src, path, "jpeg", 95))

	got, err := store.Decode(path)
	require.NoError(t, err)
	r, _, _, a := got.At(4, 4).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	// Transparent pixels land on the white background.
	assert.Greater(t, r, uint32(0xf000))
}

func TestEncodeUnknownFormat(t *testing.T) {
	store := NewStore()
	path := filepath.Join(t.TempDir(), "out.xyz")
	err := store.Encode(testImage(8, 8), path, "", 0)
	var ioErr *watermark.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestDecodeMissingFile(t *testing.T) {
	store := NewStore()
	_, err := store.Decode(filepath.Join(t.TempDir(), "missing.png"))
	var aerr *watermark.AssetError
	require.ErrorAs(t, err, &aerr)
	assert.Contains(t, aerr.Path, "missing.png")
}

func TestDecodeCorruptFile(t *testing.T) {
	store := NewStore()
	path := filepath.Join(t.TempDir(), "corrupt.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := store.Decode(path)
	var aerr *watermark.AssetError
	assert.ErrorAs(t, err, &aerr)
}

func TestThumbnail(t *testing.T) {
	store := NewStore()

	small := testImage(50, 40)
	assert.Same(t, small, store.Thumbnail(small, 100, 100))

	big := testImage(400, 200)
	thumb := store.Thumbnail(big, 100, 100)
	assert.Equal(t, 100, thumb.Bounds().Dx())
	assert.Equal(t, 50, thumb.Bounds().Dy())
}
