package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/acne-dermatologist/internal/domain/ai"
	"github.com/bryanwahyu/acne-dermatologist/internal/domain/skin"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalize_TransparentPNGBecomesOpaqueJPEG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	for x := 0; x < 20; x++ {
		for y := 0; y < 10; y++ {
			src.Set(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 0})
		}
	}

	out, err := NewNormalizer(Options{}).Normalize(bytes.NewReader(encodePNG(t, src)))
	require.NoError(t, err)
	assert.Equal(t, ai.MIMETypeJPEG, out.MIMEType)

	decoded, format, err := image.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 20, decoded.Bounds().Dx())
	assert.Equal(t, 10, decoded.Bounds().Dy())

	// fully transparent pixels end up on the white canvas
	r, g, b, a := decoded.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestNormalize_GrayscaleIsExpanded(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 8, 8))
	out, err := NewNormalizer(Options{}).Normalize(bytes.NewReader(encodePNG(t, src)))
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	_, isGray := decoded.(*image.Gray)
	assert.False(t, isGray, "expected a colour jpeg, got grayscale")
}

func TestNormalize_Downscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	out, err := NewNormalizer(Options{MaxDimension: 100}).Normalize(bytes.NewReader(encodePNG(t, src)))
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestNormalize_DecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		opts  Options
	}{
		{"garbage", []byte("definitely not an image"), Options{}},
		{"empty", nil, Options{}},
		{"too large", bytes.Repeat([]byte{0xff}, 64), Options{MaxBytes: 32}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNormalizer(tt.opts).Normalize(bytes.NewReader(tt.input))
			var de *skin.DecodeError
			require.True(t, errors.As(err, &de), "expected DecodeError, got %v", err)
		})
	}
}

func TestNormalize_TooLargeMessage(t *testing.T) {
	_, err := NewNormalizer(Options{MaxBytes: 4}).Normalize(strings.NewReader("0123456789"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum size")
}

func TestFitWithin(t *testing.T) {
	w, h := fitWithin(1000, 10, 100)
	assert.Equal(t, 100, w)
	assert.Equal(t, 1, h)

	w, h = fitWithin(50, 80, 0)
	assert.Equal(t, 50, w)
	assert.Equal(t, 80, h)

	w, h = fitWithin(300, 600, 150)
	assert.Equal(t, 75, w)
	assert.Equal(t, 150, h)
}
