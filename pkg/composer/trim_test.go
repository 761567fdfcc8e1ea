package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimIncompleteSentence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"complete sentence kept", "Go is fun.", "Go is fun."},
		{"exclamation kept", "Ship it!", "Ship it!"},
		{"question kept", "Why Go?", "Why Go?"},
		{"trailing fragment cut", "First. Second! Third is cut", "First. Second!"},
		{"cut after question mark", "Is it? Maybe not", "Is it?"},
		{"surrounding whitespace trimmed", "  Done.  \n", "Done."},
		{"no terminator passes through", "  no punctuation here ", "no punctuation here"},
		{"empty", "", ""},
		{"whitespace only", " \t\n", ""},
		{"multi-line body", "Para one.\n\nPara two is", "Para one."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimIncompleteSentence(tt.input))
		})
	}
}

func TestTrimIncompleteSentenceIsIdempotent(t *testing.T) {
	inputs := []string{
		"One. Two. Thr",
		"nothing to cut",
		"Ends well!",
		"  padded? yes ",
	}
	for _, in := range inputs {
		once := TrimIncompleteSentence(in)
		assert.Equal(t, once, TrimIncompleteSentence(once), in)
	}
}
