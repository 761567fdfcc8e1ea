package dto

import "github.com/google/uuid"

// SummarizePostMessage asks the summary consumer to fill posts.summary.
type SummarizePostMessage struct {
	PostId uuid.UUID `json:"post_id"`
}
