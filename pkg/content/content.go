package content

import (
	"regexp"
	"strings"
)

// ImagePlaceholder replaces inline image data in prompt context.
const ImagePlaceholder = "[image]"

var dataURIPattern = regexp.MustCompile(`data:[a-zA-Z0-9.+/-]+;base64,[A-Za-z0-9+/=]+`)

// StripDataURIs replaces every base64 data URI with ImagePlaceholder. Notes may
// embed generated images and those are useless (and huge) as model input.
func StripDataURIs(text string) string {
	return dataURIPattern.ReplaceAllString(text, ImagePlaceholder)
}

// Clip trims whitespace and cuts text to at most limit runes. A limit <= 0 disables clipping.
func Clip(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// ForPrompt prepares note content for a model: inline images removed, then clipped.
func ForPrompt(text string, limit int) string {
	return Clip(StripDataURIs(text), limit)
}

// TitleFrom derives a short title from the first non-empty line, without
// markdown heading or list markers.
func TitleFrom(text string, limit int) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#*->"))
		if line != "" {
			return Clip(line, limit)
		}
	}
	return ""
}
