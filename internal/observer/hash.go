package observer

import "fmt"

// fnvInit and fnvPrime are the spec's pinned FNV-1a-style mix constants
// (§4.5 step 8) — deliberately the textbook 32-bit FNV-1a values, kept
// explicit here (rather than imported from hash/fnv) because the spec
// pins the exact constants as part of the wire-stable ID format, not just
// "some 32-bit hash".
const (
	fnvInit  uint32 = 0x811c9dc5
	fnvPrime uint32 = 0x01000193
)

// semanticHash mixes the 8 identity attributes into an 8-hex-char ID
// fragment. Order matters: tag, test-id, role, input-type, placeholder,
// name, first 20 non-digit text chars.
func semanticHash(tag, testID, role, inputType, placeholder, name, text string) string {
	h := fnvInit
	mix := func(s string) {
		for i := 0; i < len(s); i++ {
			h ^= uint32(s[i])
			h *= fnvPrime
		}
		h ^= 0x1f // field separator, so "ab"+"" and "a"+"b" don't collide
		h *= fnvPrime
	}

	mix(tag)
	mix(testID)
	mix(role)
	mix(inputType)
	mix(placeholder)
	mix(name)
	mix(firstNonDigitChars(text, 20))

	return fmt.Sprintf("%08x", h)
}

func firstNonDigitChars(s string, n int) string {
	out := make([]byte, 0, n)
	for i := 0; i < len(s) && len(out) < n; i++ {
		if s[i] >= '0' && s[i] <= '9' {
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

// makeID formats the spec's semantic ID: <tag>-<hash8>-<occurrence>.
func makeID(tag, hash8 string, occurrence int) string {
	return fmt.Sprintf("%s-%s-%d", tag, hash8, occurrence)
}
