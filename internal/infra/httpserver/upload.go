package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bryanwahyu/acne-dermatologist/internal/domain/skin"
	"github.com/bryanwahyu/acne-dermatologist/internal/middleware"
)

// Form field names.
const (
	fieldImage    = "image"
	fieldAge      = "age"
	fieldSkinType = "skin_type"
)

const maxFormMemory = 32 << 20

// form is a parsed analyze submission. Upload is nil when no file was sent.
type form struct {
	Upload      *skin.Upload
	Age         string
	SkinTypeRaw string
	closer      io.Closer
}

func (f *form) Close() {
	if f.closer != nil {
		f.closer.Close()
	}
}

// readForm parses the multipart analyze form. Field values are always
// returned so the page can echo them back, even alongside an error.
func (r *Router) readForm(w http.ResponseWriter, req *http.Request) (*form, error) {
	if r.maxBody > 0 {
		req.Body = http.MaxBytesReader(w, req.Body, r.maxBody)
	}

	f := &form{}
	if err := req.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return f, &skin.DecodeError{Err: fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit-formOverhead)}
		case errors.Is(err, http.ErrNotMultipart):
			// urlencoded post without a file; fields still parse below
		default:
			return f, fmt.Errorf("%w: %v", skin.ErrNoInput, err)
		}
	}

	f.Age = req.FormValue(fieldAge)
	f.SkinTypeRaw = req.FormValue(fieldSkinType)

	file, hdr, err := req.FormFile(fieldImage)
	if err != nil {
		// missing file part: the workflow reports ErrNoInput
		return f, nil
	}
	f.closer = file
	f.Upload = &skin.Upload{
		Filename: hdr.Filename,
		Size:     hdr.Size,
		Reader:   file,
	}
	return f, nil
}

// profile validates the optional fields of a parsed form.
func (f *form) profile() (skin.Profile, error) {
	return middleware.ValidateProfile(f.Age, f.SkinTypeRaw)
}
