package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/bryanwahyu/acne-dermatologist/internal/domain/ai"
	"github.com/bryanwahyu/acne-dermatologist/internal/domain/skin"
)

const (
	DefaultMaxBytes = 10 * 1024 * 1024
	DefaultQuality  = 75
)

// Options configures the normalizer. Zero values select the defaults;
// MaxDimension 0 disables downscaling.
type Options struct {
	MaxBytes     int64
	MaxDimension int
	Quality      int
}

// Normalizer decodes an uploaded photo, flattens it to opaque RGB and
// re-encodes it as JPEG.
type Normalizer struct {
	maxBytes     int64
	maxDimension int
	quality      int
}

func NewNormalizer(opts Options) *Normalizer {
	n := &Normalizer{
		maxBytes:     opts.MaxBytes,
		maxDimension: opts.MaxDimension,
		quality:      opts.Quality,
	}
	if n.maxBytes <= 0 {
		n.maxBytes = DefaultMaxBytes
	}
	if n.quality <= 0 || n.quality > 100 {
		n.quality = DefaultQuality
	}
	return n
}

// Normalize implements skin.Normalizer. All failures are *skin.DecodeError.
func (n *Normalizer) Normalize(r io.Reader) (ai.Image, error) {
	limited := &io.LimitedReader{R: r, N: n.maxBytes + 1}
	raw, err := io.ReadAll(limited)
	if err != nil {
		return ai.Image{}, &skin.DecodeError{Err: fmt.Errorf("read upload: %w", err)}
	}
	if int64(len(raw)) > n.maxBytes {
		return ai.Image{}, &skin.DecodeError{Err: fmt.Errorf("image exceeds maximum size of %d bytes", n.maxBytes)}
	}
	if len(raw) == 0 {
		return ai.Image{}, &skin.DecodeError{Err: errors.New("empty upload")}
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return ai.Image{}, &skin.DecodeError{Err: err}
	}

	rgb := n.flatten(src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgb, &jpeg.Options{Quality: n.quality}); err != nil {
		return ai.Image{}, &skin.DecodeError{Err: fmt.Errorf("encode jpeg: %w", err)}
	}
	return ai.Image{Data: buf.Bytes(), MIMEType: ai.MIMETypeJPEG}, nil
}

// flatten paints src over an opaque white canvas, scaling it down first
// when it exceeds maxDimension. The result has no transparency left.
func (n *Normalizer) flatten(src image.Image) *image.RGBA {
	sb := src.Bounds()
	w, h := fitWithin(sb.Dx(), sb.Dy(), n.maxDimension)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	if w == sb.Dx() && h == sb.Dy() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Over)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	return dst
}

// fitWithin scales w×h so that neither side exceeds limit, keeping aspect.
func fitWithin(w, h, limit int) (int, int) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h
	}
	if w >= h {
		nh := h * limit / w
		if nh < 1 {
			nh = 1
		}
		return limit, nh
	}
	nw := w * limit / h
	if nw < 1 {
		nw = 1
	}
	return nw, limit
}
