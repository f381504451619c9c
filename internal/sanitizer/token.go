package sanitizer

import "regexp"

// TokenSanitizer redacts bearer/API tokens wherever this system can embed
// one: a token-labeled locator's .fill(...) call, a token/session value
// baked into a navigate or assert_url code fragment's URL query string
// (`page.goto('https://.../callback?token=...')`), a flat key:value pair,
// or a bare bearer/stripe-style secret literal.
type TokenSanitizer struct{}

var (
	tokenLocatorFill = locatorFillPattern("token", "bearer", "authorization")
	tokenKeyValue    = regexp.MustCompile(`(?i)(token)\s*[:=]\s*["']?([a-zA-Z0-9_-]{20,})["']?`)
	tokenBearer      = regexp.MustCompile(`(?i)(bearer\s+)([a-zA-Z0-9_-]{20,})`)
	tokenAuthHeader  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*["']?bearer\s+)([a-zA-Z0-9_-]{20,})["']?`)
	tokenURLQuery    = regexp.MustCompile(`(?i)([?&](?:token|access[_-]?token|session[_-]?token)=)([^&'"\s]+)`)
	tokenBareSecret  = regexp.MustCompile(`sk-[a-zA-Z0-9]{32,}|pk_[a-zA-Z0-9]{32,}`)
)

func (s *TokenSanitizer) Sanitize(text string) string {
	text = tokenLocatorFill.ReplaceAllString(text, locatorFillReplacement)
	text = tokenKeyValue.ReplaceAllString(text, `${1}: [REDACTED]`)
	text = tokenBearer.ReplaceAllString(text, `${1}[REDACTED]`)
	text = tokenAuthHeader.ReplaceAllString(text, `${1}[REDACTED]`)
	text = tokenURLQuery.ReplaceAllString(text, `${1}[REDACTED]`)
	text = tokenBareSecret.ReplaceAllString(text, `[REDACTED]`)
	return text
}
