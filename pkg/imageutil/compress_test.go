package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 90, A: 255})
		}
	}
	return img
}

// noise defeats PNG compression so byte-ceiling fixtures stay large.
func noise(w, h int) *image.RGBA {
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		if i%4 == 3 {
			img.Pix[i] = 255
		} else {
			img.Pix[i] = uint8(rng.Intn(256))
		}
	}
	return img
}

func TestCompressPassThrough(t *testing.T) {
	in := encodeJPEG(t, gradient(100, 80))
	out, err := Compress(in)
	require.NoError(t, err)
	assert.Equal(t, in, out, "small input must stay byte-identical")
}

func TestCompressPassThroughKeepsFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gradient(50, 50)))

	out, err := Compress(buf.Bytes())
	require.NoError(t, err)
	_, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestCompressShrinksOversizeDimensions(t *testing.T) {
	in := encodeJPEG(t, gradient(2400, 600))
	out, err := Compress(in)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.LessOrEqual(t, cfg.Width, MaxDimension)
	assert.LessOrEqual(t, cfg.Height, MaxDimension)
	assert.LessOrEqual(t, len(out), MaxBytes)
	// Aspect ratio survives the shrink.
	assert.Equal(t, 4, cfg.Width/cfg.Height)
}

func TestCompressReencodesOversizeBytes(t *testing.T) {
	// A large PNG blows the byte ceiling even at legal dimensions and
	// must come back as a smaller JPEG.
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, noise(1500, 1500)))
	require.Greater(t, buf.Len(), MaxBytes, "fixture must exceed the ceiling")

	out, err := Compress(buf.Bytes())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out), MaxBytes)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 1500, cfg.Width)
	assert.Equal(t, 1500, cfg.Height)
}

func TestCompressRejectsNonImage(t *testing.T) {
	_, err := Compress([]byte("definitely not pixels"))
	assert.Error(t, err)
}
