package composer

import "ai-blog-be/pkg/writer"

type State int

const (
	StateEmpty State = iota
	StateGenerating
	StateReady
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateGenerating:
		return "generating"
	case StateReady:
		return "ready"
	case StateEditing:
		return "editing"
	default:
		return "unknown"
	}
}

type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Summary is tied to the body it was produced from.
type Summary struct {
	SourceBody string
	Text       string
	Bounds     writer.Bounds
}

// Draft is a point-in-time copy of the composer's content.
type Draft struct {
	Topic       string
	Title       string
	Body        string
	WordCount   int
	Style       string
	Image       *Image
	State       State
	Summary     *Summary
	Summarizing bool
}

func (d Draft) Editable() bool {
	return d.State == StateEditing
}
