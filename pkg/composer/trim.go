package composer

import "strings"

const sentenceTerminators = ".!?"

// TrimIncompleteSentence drops a trailing partial sentence. Text already
// ending in a terminator is kept, and text with no terminator at all is
// returned trimmed but otherwise unchanged.
func TrimIncompleteSentence(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return trimmed
	}
	if strings.ContainsRune(sentenceTerminators, rune(trimmed[len(trimmed)-1])) {
		return trimmed
	}

	cut := strings.LastIndexAny(trimmed, sentenceTerminators)
	if cut < 0 {
		return trimmed
	}
	return trimmed[:cut+1]
}
