package sanitizer

import "regexp"

// CookieSanitizer redacts session identifiers, the one cookie-shaped thing
// this system can actually carry: a session-id query parameter on a
// navigate/assert_url code fragment's URL, or a flat "session: value" /
// "cookie: value" pair quoted back in an error message or a goal string.
// Playwright's cookie jar itself is never surfaced through generatedCode
// or a History Entry, so the teacher's raw Set-Cookie-header pattern has
// nothing to match in this system and is dropped.
type CookieSanitizer struct{}

var (
	cookieKeyValue = regexp.MustCompile(`(?i)(cookie|session[_-]?id|session[_-]?token)\s*[:=]\s*["']?([a-zA-Z0-9_-]{10,})["']?`)
	cookieURLQuery = regexp.MustCompile(`(?i)([?&](?:sid|sessionid|session_id)=)([^&'"\s]+)`)
)

func (s *CookieSanitizer) Sanitize(text string) string {
	text = cookieKeyValue.ReplaceAllString(text, `${1}: [REDACTED]`)
	text = cookieURLQuery.ReplaceAllString(text, `${1}[REDACTED]`)
	return text
}
