package skin

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// SkinType enum
type SkinType string

const (
	SkinTypeUnknown     SkinType = ""
	SkinTypeOily        SkinType = "Oily"
	SkinTypeCombination SkinType = "Combination"
	SkinTypeDry         SkinType = "Dry"
	SkinTypeSensitive   SkinType = "Sensitive"
)

// SkinTypes lists the selector options in display order.
var SkinTypes = []SkinType{
	SkinTypeUnknown,
	SkinTypeOily,
	SkinTypeCombination,
	SkinTypeDry,
	SkinTypeSensitive,
}

// ParseSkinType accepts "" or one of the known values (exact match).
func ParseSkinType(s string) (SkinType, error) {
	for _, t := range SkinTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return SkinTypeUnknown, fmt.Errorf("%w: %q", ErrInvalidSkinType, s)
}

// Profile holds the two optional form fields.
type Profile struct {
	Age      string
	SkinType SkinType
}

// AllowedExtensions are the upload types the form accepts.
var AllowedExtensions = []string{".jpg", ".jpeg", ".png"}

// Upload is the photo as received from the form.
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// Empty reports whether nothing usable was uploaded.
func (u *Upload) Empty() bool {
	return u == nil || u.Reader == nil || u.Size == 0
}

// CheckExtension validates the filename against AllowedExtensions.
func (u *Upload) CheckExtension() error {
	ext := strings.ToLower(filepath.Ext(u.Filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedUpload, u.Filename)
}
