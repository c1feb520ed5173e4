package genclient

import "regexp"

// The generation service is known to emit bare Infinity/NaN tokens in score
// fields, which encoding/json rejects. Each pattern matches the token in value
// position so string fields containing the words are left alone.
var nonFiniteRe = regexp.MustCompile(`(?i):\s*(-?infinity|-?inf|nan)\b`)

// SanitizeJSON replaces non-finite number tokens with 0 so the payload can be
// unmarshalled. Score clamping happens separately after decoding.
func SanitizeJSON(data []byte) []byte {
	return nonFiniteRe.ReplaceAll(data, []byte(": 0"))
}
