package sanitizer

import "regexp"

// EmailSanitizer redacts bare email addresses wherever they appear. Unlike
// the other rules in this package, an email's shape is self-describing —
// it doesn't need a locator keyword for context, because
// `.fill('shopper@example.com')` already contains a string that matches
// the address pattern on its own. No locator-aware variant is needed here;
// this is the one rule in the package that really is domain-agnostic.
type EmailSanitizer struct{}

var emailPattern = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)

func (s *EmailSanitizer) Sanitize(text string) string {
	return emailPattern.ReplaceAllString(text, `[REDACTED]`)
}
