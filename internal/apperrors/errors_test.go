package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type detailErr struct{ detail string }

func (d detailErr) Error() string      { return "server said: " + d.detail }
func (d detailErr) UserDetail() string { return d.detail }

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil error", err: nil, want: "fallback"},
		{name: "plain error", err: errors.New("boom"), want: "fallback"},
		{name: "detail", err: detailErr{detail: "bad csv"}, want: "bad csv"},
		{name: "wrapped detail", err: fmt.Errorf("upload: %w", detailErr{detail: "bad csv"}), want: "bad csv"},
		{name: "empty detail", err: detailErr{}, want: "fallback"},
		{name: "validation notice", err: Validation("Please enter a prompt"), want: "Please enter a prompt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, "fallback"))
		})
	}
}

func TestClassification(t *testing.T) {
	v := WrapError(Validation("nope"), "stage")
	assert.True(t, IsValidation(v))
	assert.False(t, IsTransport(v))
	assert.Equal(t, "stage: nope", v.Error())

	tr := WrapErrorf(ErrTransport, "post %s", "/chat")
	assert.True(t, IsTransport(tr))
	assert.False(t, IsServerLogic(tr))

	assert.Nil(t, WrapError(nil, "x"))
	assert.Nil(t, WrapErrorf(nil, "x %d", 1))
}
