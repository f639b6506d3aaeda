package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateTagText validates the text of a tag before layout.
//
// The rules are intentionally conservative:
//   - No empty or whitespace-only text
//   - No control characters
//   - Maximum length of 256 characters
func ValidateTagText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidTag, "tag text cannot be empty")
	}

	if len(text) > 256 {
		return New(ErrCodeInvalidTag, "tag text too long (max 256 characters)")
	}

	for _, r := range text {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTag, "tag text contains control characters")
		}
	}

	return nil
}

// ValidateWeight rejects weights the font-size interpolation cannot handle.
func ValidateWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return New(ErrCodeInvalidTag, "tag weight must be finite, got %v", w)
	}
	return nil
}

// ValidateColor checks an optional tag color. The empty string means "pick a
// random color" and is always valid; otherwise the value must be a #rgb or
// #rrggbb hex literal.
func ValidateColor(c string) error {
	if c == "" {
		return nil
	}
	if !strings.HasPrefix(c, "#") || (len(c) != 4 && len(c) != 7) {
		return New(ErrCodeInvalidTag, "color %q is not a #rgb or #rrggbb literal", c)
	}
	for _, r := range c[1:] {
		if !isHexDigit(r) {
			return New(ErrCodeInvalidTag, "color %q contains a non-hex digit", c)
		}
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output file path. It rejects
// empty paths, unreasonable lengths, and control or null characters, which
// only ever show up through quoting accidents in shell scripts.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains control characters")
		}
	}

	if strings.Contains(path, "\x00") {
		return New(ErrCodeInvalidPath, "output path contains a null byte")
	}

	return nil
}

func isHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	}
	return false
}
