package sanitizer

import "regexp"

// PasswordSanitizer redacts the literal typed into a password-labeled
// locator's .fill(...)/.pressSequentially(...) call — the generated-code
// shape internal/executor/primitives.go emits for Fill/TypeText — plus the
// teacher's flat "password: value" fallback for plain text that bypassed
// the Selector Synthesizer entirely (a goal string, an error message
// quoting user input).
type PasswordSanitizer struct{}

var (
	passwordLocatorFill = locatorFillPattern("password", "passwd", "pwd")
	passwordKeyValue    = regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*["']?([^"'\s]{3,})["']?`)
)

func (s *PasswordSanitizer) Sanitize(text string) string {
	text = passwordLocatorFill.ReplaceAllString(text, locatorFillReplacement)
	text = passwordKeyValue.ReplaceAllString(text, `${1}: [REDACTED]`)
	return text
}
