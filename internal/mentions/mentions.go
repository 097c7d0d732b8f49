package mentions

import "unicode"

// Marker introduces a mention in message bodies.
const Marker = '@'

// ContainsMention reports whether body holds at least one mention marker
// followed by a handle character, at the start of the text or after
// whitespace. A bare '@' or an email-like infix '@' does not count.
func ContainsMention(body string) bool {
	return len(Extract(body)) > 0
}

// Extract returns the handles mentioned in body, in order of appearance,
// without the leading marker. Duplicates are preserved.
func Extract(body string) []string {
	var handles []string
	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		if runes[i] != Marker {
			continue
		}
		if i > 0 && !unicode.IsSpace(runes[i-1]) {
			continue
		}
		j := i + 1
		for j < len(runes) && isHandleRune(runes[j]) {
			j++
		}
		if j > i+1 {
			handles = append(handles, string(runes[i+1:j]))
			i = j - 1
		}
	}
	return handles
}

func isHandleRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}
