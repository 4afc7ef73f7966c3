package docproc

import (
	"regexp"
	"strings"
)

var (
	urlRe         = regexp.MustCompile(`https?://[^\s]+`)
	windowsPathRe = regexp.MustCompile(`[A-Za-z]:\\[^\s]+`)
	unixPathRe    = regexp.MustCompile(`(^|\s)/[^\s]+`)
	accountKeyRe  = regexp.MustCompile(`AccountKey=[^;\s]+`)
)

// SanitizeErrorMessage strips filesystem paths, internal URLs, and
// credential-bearing connection strings from an error message before it
// crosses the service boundary. Blob storage URLs are kept; they are the
// artifact locations callers need.
func SanitizeErrorMessage(msg string) string {
	msg = accountKeyRe.ReplaceAllString(msg, "AccountKey=[REDACTED]")
	msg = urlRe.ReplaceAllStringFunc(msg, func(m string) string {
		if strings.Contains(m, "blob.core.windows.net") {
			return m
		}
		return "[URL]"
	})
	msg = windowsPathRe.ReplaceAllString(msg, "[FILE_PATH]")
	msg = unixPathRe.ReplaceAllString(msg, "${1}[FILE_PATH]")
	return msg
}
