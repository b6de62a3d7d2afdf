package transcribe

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// The detector only weighs the languages this pipeline actually meets:
// stream audio is English or CJK, translations target Chinese.
var detectorOnce = sync.OnceValue(func() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.English, lingua.Chinese, lingua.Japanese, lingua.Korean).
		Build()
})

// DetectLanguage samples the segment text and reports the dominant
// language, or false when there is too little text to judge.
func DetectLanguage(segments []Segment) (lingua.Language, bool) {
	var b strings.Builder
	for _, segment := range segments {
		b.WriteString(segment.Text)
		b.WriteByte(' ')
		if b.Len() > 2000 {
			break
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return lingua.Unknown, false
	}
	return detectorOnce().DetectLanguageOf(text)
}

// alreadyInTarget reports whether the transcript is already in the
// translation target language, making translation a no-op.
func alreadyInTarget(segments []Segment, targetLanguage string) bool {
	language, ok := DetectLanguage(segments)
	if !ok {
		return false
	}
	target := strings.ToLower(targetLanguage)
	switch {
	case strings.HasPrefix(target, "zh"):
		return language == lingua.Chinese
	case strings.HasPrefix(target, "en"):
		return language == lingua.English
	case strings.HasPrefix(target, "ja"):
		return language == lingua.Japanese
	case strings.HasPrefix(target, "ko"):
		return language == lingua.Korean
	default:
		return false
	}
}
