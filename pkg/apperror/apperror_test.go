package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindAuthentication, http.StatusUnauthorized},
		{KindAuthorization, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindExternalService, http.StatusBadGateway},
		{KindPersistence, http.StatusInternalServerError},
		{KindUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}

func TestErrorsIsMatchesKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create review: %w", NotFound("post not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrAuthorization))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestPersistenceHidesCause(t *testing.T) {
	err := Persistence(errors.New("pq: relation \"posts\" does not exist"))

	assert.Equal(t, "internal server error", UserMessage(err, "fallback"))
	assert.Contains(t, err.Error(), "relation")
	assert.True(t, errors.Is(err, ErrPersistence))
}

func TestUserMessageFallback(t *testing.T) {
	assert.Equal(t, "fallback", UserMessage(errors.New("boom"), "fallback"))
	assert.Equal(t, "no title", UserMessage(Validation("no title"), "fallback"))
}
