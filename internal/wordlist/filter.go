package wordlist

import "unicode"

// Keep reports whether a word is usable in a generated passage: a non-empty
// run of letters, optionally with inner apostrophes or hyphens.
func Keep(word string) bool {
	runes := []rune(word)
	if len(runes) == 0 {
		return false
	}
	for i, r := range runes {
		if unicode.IsLetter(r) {
			continue
		}
		inner := i > 0 && i < len(runes)-1
		if inner && (r == '\'' || r == '-') {
			continue
		}
		return false
	}
	return true
}
