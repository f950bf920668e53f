package skin

import "errors"

var (
	// ErrNoInput is returned when analysis is triggered without a photo.
	ErrNoInput = errors.New("please upload an image first")
	// ErrUnsupportedUpload is returned for files outside AllowedExtensions.
	ErrUnsupportedUpload = errors.New("unsupported file type, use jpg, jpeg or png")
	// ErrInvalidSkinType is returned for selector values outside SkinTypes.
	ErrInvalidSkinType = errors.New("invalid skin type")
)

// DecodeError means the uploaded bytes could not be turned into an image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "could not read image: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
