package sanitizer

import "regexp"

// APIKeySanitizer redacts API keys and access tokens embedded in a
// navigate/assert_url code fragment's URL query string
// (`page.goto('https://api.example.com/v1/data?api_key=...')`), plus a
// flat key:value fallback for plain text. Locator-labeled fill calls for
// an API-key field are covered by TokenSanitizer's broader "token" keyword
// set, so this rule's job is specifically the URL-embedded case the
// teacher's original regexes never addressed.
type APIKeySanitizer struct{}

var (
	apiKeyURLQuery = regexp.MustCompile(`(?i)([?&](?:api[_-]?key|access[_-]?key|key)=)([^&'"\s]+)`)
	apiKeyKeyValue = regexp.MustCompile(`(?i)(api[_-]?key|api[_-]?secret|secret[_-]?key|access[_-]?key)\s*[:=]\s*["']?([a-zA-Z0-9_-]{20,})["']?`)
)

func (s *APIKeySanitizer) Sanitize(text string) string {
	text = apiKeyURLQuery.ReplaceAllString(text, `${1}[REDACTED]`)
	text = apiKeyKeyValue.ReplaceAllString(text, `${1}: [REDACTED]`)
	return text
}
