package nats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	raw, err := json.Marshal(envelope{
		Type:       "REVIEW_CREATED",
		Data:       map[string]interface{}{"post_id": "p-1"},
		OccurredAt: at,
	})
	require.NoError(t, err)

	event, err := decode("blog.REVIEW_CREATED", raw)
	require.NoError(t, err)

	assert.Equal(t, "REVIEW_CREATED", event.EventType())
	assert.Equal(t, "p-1", event.Payload()["post_id"])
	assert.True(t, at.Equal(event.Timestamp()))
}

func TestDecodeFallsBackToSubject(t *testing.T) {
	event, err := decode("blog.POST_DELETED", []byte(`{"data":{}}`))
	require.NoError(t, err)
	assert.Equal(t, "POST_DELETED", event.EventType())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := decode("blog.X", []byte("not json"))
	assert.Error(t, err)
}
