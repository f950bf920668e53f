package ai

import "context"

// MIMETypeJPEG is the only image encoding sent to the model.
const MIMETypeJPEG = "image/jpeg"

// Image is an encoded photo ready for transmission.
type Image struct {
	Data     []byte
	MIMEType string
}

// Client sends one image plus prompt to a vision model and returns its text.
type Client interface {
	Analyze(ctx context.Context, image Image, prompt string) (string, error)
}
