// Package sanitizer is the second, defense-in-depth redaction layer
// (SPEC_FULL §3.2, §9.3): it strips password/token/cookie/card/API-key/
// email/phone/address substrings from anything that reaches a log line, a
// History Entry, or a Run Ledger record before it is written. The
// Observer's own in-page [REDACTED] substitution (spec §4.5 step 4) is the
// first layer, scoped to sensitive input values only; this package catches
// anything that still carries sensitive text regardless of where it came
// from — in particular the two shapes unique to this system: a Playwright
// code fragment emitted by the Selector Synthesizer/Executor
// (`getByRole('textbox', { name: 'Password' }).fill('hunter2')`) and a
// plain describeAction summary written to the History Log
// (`fill hunter2`). Grounded on the teacher's internal/sanitizer package
// (password.go..address.go's chained regexp rules), retargeted from
// generic Postgres-log-line scrubbing to these two code/summary shapes:
// each rule below matches its field's keyword against a locator built by
// internal/selector's GetByRole/GetByTestID/GetByPlaceholder/GetByText
// candidates (not arbitrary CSS) before redacting the literal that follows
// it, with the teacher's flat key:value pattern kept as a fallback for
// plain text that never went through the Selector Synthesizer. The
// teacher's Russian-locale address/phone patterns are dropped — this
// system has no assumption about the target site's locale, so a
// CIS-specific postal format would fire on arbitrary foreign addresses and
// miss everything else (see DESIGN.md).
package sanitizer

import (
	"regexp"
	"strings"
)

// sensitiveFieldKeywords names the form-field semantics this system cares
// about redacting, shared by the per-rule locator-aware regexes below and
// by SanitizeSelector/looksLikeSensitiveData.
var sensitiveFieldKeywords = []string{
	"password", "passwd", "pwd",
	"token", "secret", "api key", "api-key", "api_key", "apikey",
	"bearer", "authorization",
	"cookie", "session",
	"card", "cvv", "cvc", "expir",
	"email", "e-mail",
	"phone", "mobile", "telephone",
	"address", "street", "zip", "postal",
}

// DataSanitizer chains every rule and applies them in order.
type DataSanitizer struct {
	rules []SanitizerRule
}

// SanitizerRule is one redaction pass over text.
type SanitizerRule interface {
	Sanitize(text string) string
}

// New builds the full deterministic rule chain. There is no AI-backed
// variant: the teacher's LLM-assisted rule would add a round-trip to every
// sanitize call to catch what these regexes already catch for this
// domain's two input shapes (Playwright locator+fill code fragments, flat
// describeAction summaries) — see DESIGN.md.
func New() *DataSanitizer {
	return &DataSanitizer{
		rules: []SanitizerRule{
			&PasswordSanitizer{},
			&TokenSanitizer{},
			&CookieSanitizer{},
			&CardSanitizer{},
			&APIKeySanitizer{},
			&EmailSanitizer{},
			&PhoneSanitizer{},
			&AddressSanitizer{},
		},
	}
}

func (s *DataSanitizer) Sanitize(text string) string {
	if text == "" {
		return text
	}

	result := text
	for _, rule := range s.rules {
		result = rule.Sanitize(result)
	}

	return result
}

// SanitizeSelector redacts an entire locator-descriptive string (a role
// name, placeholder, or test ID surfaced by the Selector Synthesizer) when
// its text names a sensitive field, since even the field's label leaking
// into a log line can be informative on its own.
func (s *DataSanitizer) SanitizeSelector(selector string) string {
	if selector == "" {
		return selector
	}

	lower := strings.ToLower(selector)
	for _, keyword := range sensitiveFieldKeywords {
		if strings.Contains(lower, keyword) {
			return "[REDACTED]"
		}
	}

	return selector
}

// SanitizeValue redacts a single plan.Value (what a Fill/TypeText/Keypress
// action typed) when it looks like credential material on its own, with no
// surrounding field-name context to key off of.
func (s *DataSanitizer) SanitizeValue(value string) string {
	if value == "" {
		return value
	}

	if len(value) > 50 {
		return s.Sanitize(value)
	}

	if s.looksLikeSensitiveData(value) {
		return "[REDACTED]"
	}

	return s.Sanitize(value)
}

func (s *DataSanitizer) looksLikeSensitiveData(value string) bool {
	lower := strings.ToLower(value)
	for _, pattern := range sensitiveFieldKeywords {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	if len(value) > 20 && regexp.MustCompile(`^[a-zA-Z0-9_-]+$`).MatchString(value) {
		return true
	}

	return false
}

// fieldKeywordAlternation renders keywords as a case-insensitive regex
// alternation, for embedding inside a locator-aware pattern below.
func fieldKeywordAlternation(keywords ...string) string {
	escaped := make([]string, len(keywords))
	for i, k := range keywords {
		escaped[i] = regexp.QuoteMeta(k)
	}
	return strings.Join(escaped, "|")
}

// locatorFillPattern matches a Selector Synthesizer locator fragment whose
// role/name, placeholder, test ID, or text candidate names one of keywords,
// immediately followed by the literal argument of a .fill(...) or
// .pressSequentially(...) call — the exact shape internal/executor's
// primitives.go emits for Fill and TypeText actions. Group 1 is the
// locator text (kept); group 2 is the method name (kept); group 3 is the
// sensitive literal (redacted via locatorFillReplacement).
func locatorFillPattern(keywords ...string) *regexp.Regexp {
	kw := "(?:" + fieldKeywordAlternation(keywords...) + ")"
	return regexp.MustCompile(`(?i)((?:getByRole\('[^']*',\s*\{[^}]*` + kw + `[^}]*\}\)|getByPlaceholder\('[^']*` + kw + `[^']*'[^)]*\)|getByTestId\('[^']*` + kw + `[^']*'\)|getByText\('[^']*` + kw + `[^']*'[^)]*\))(?:\.[a-zA-Z]+\([^)]*\))*)\.(fill|pressSequentially)\('([^']*)'\)`)
}

// locatorFillReplacement is the replacement template for locatorFillPattern:
// keep the locator and method, redact only the literal.
const locatorFillReplacement = `${1}.${2}('[REDACTED]')`
