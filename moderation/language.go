package moderation

import (
	"github.com/abadojack/whatlanggo"
)

// minDetectableLength avoids guessing a language from a couple of letters.
const minDetectableLength = 12

// DetectLanguage returns the ISO 639-1 code of text, or "" when unsure.
func DetectLanguage(text string) string {
	if len([]rune(text)) < minDetectableLength {
		return ""
	}
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
