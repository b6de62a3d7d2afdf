package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// hashtagPattern matches #hashtag runs that clip titles often carry over
// from social captions.
var hashtagPattern = regexp.MustCompile(`#\S+`)

// fileNameReplacer removes filesystem-unsafe characters from a path segment.
var fileNameReplacer = strings.NewReplacer(
	"/", "",
	"\\", "",
	":", "",
	"*", "",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeDirName converts a clip title into a directory-safe segment:
// hashtags and unsafe characters are stripped, the result is NFC
// normalized, and interior whitespace collapses to single underscores.
// Returns "" when nothing safe remains.
func SanitizeDirName(title string) string {
	title = hashtagPattern.ReplaceAllString(title, "")
	title = fileNameReplacer.Replace(title)
	title = norm.NFC.String(title)
	fields := strings.Fields(title)
	return strings.Join(fields, "_")
}
