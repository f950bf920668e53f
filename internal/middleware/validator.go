package middleware

import (
	"strings"

	"github.com/bryanwahyu/acne-dermatologist/internal/domain/skin"
)

// Input validation and sanitization for the analyze form

// StripControl removes control characters except tab and newline, leaving
// everything else (spacing included) as typed.
func StripControl(input string) string {
	return strings.Map(func(r rune) rune {
		if (r < 32 && r != '\t' && r != '\n') || r == 0x7f {
			return -1
		}
		return r
	}, input)
}

// SanitizeAge cleans the optional age field. The value is free text and is
// otherwise passed through verbatim; blank handling belongs to the prompt.
func SanitizeAge(age string) string {
	return StripControl(age)
}

// ValidateSkinType parses the selector value.
func ValidateSkinType(v string) (skin.SkinType, error) {
	return skin.ParseSkinType(strings.TrimSpace(v))
}

// ValidateProfile turns raw form values into a skin.Profile.
func ValidateProfile(age, skinType string) (skin.Profile, error) {
	st, err := ValidateSkinType(skinType)
	if err != nil {
		return skin.Profile{}, err
	}
	return skin.Profile{Age: SanitizeAge(age), SkinType: st}, nil
}
