package skin

import (
	"io"

	"github.com/bryanwahyu/acne-dermatologist/internal/domain/ai"
)

// Normalizer port: decode an upload and re-encode it for the model.
type Normalizer interface {
	Normalize(r io.Reader) (ai.Image, error)
}
