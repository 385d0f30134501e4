package gateway

import "strings"

// IdentityReply is the canonical self-identification answer. The
// identity short-circuit exists to guarantee a brand-consistent answer
// independent of model variance.
const IdentityReply = "I'm Chad — Empire Labs' AI operator."

// identityTriggers are matched case-insensitively as substrings of the
// user message.
var identityTriggers = []string{
	"who are you",
	"what are you",
	"your name",
	"who is chad",
}

// isIdentityQuestion reports whether the message asks the assistant to
// identify itself.
func isIdentityQuestion(message string) bool {
	lowered := strings.ToLower(message)
	for _, trigger := range identityTriggers {
		if strings.Contains(lowered, trigger) {
			return true
		}
	}
	return false
}
