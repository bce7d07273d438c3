package telegram

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCallbackData_RoundTrip(t *testing.T) {
	sessionID := uuid.NewString()

	tests := []struct {
		name     string
		data     string
		action   string
		params   []string
	}{
		{name: "select", data: buildSelectCallback(sessionID, 39, 25), action: actionSelect, params: []string{"39", "25"}},
		{name: "check", data: buildCheckCallback(sessionID), action: actionCheck},
		{name: "next", data: buildNextCallback(sessionID), action: actionNext},
		{name: "exit", data: buildExitCallback(sessionID), action: actionExit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.LessOrEqual(t, len(tt.data), maxCallbackDataLen)

			cd := decodeCallback(tt.data)
			assert.Equal(t, tt.action, cd.Action)
			assert.Equal(t, tt.data, cd.Raw)

			id, ok := cd.sessionID()
			assert.True(t, ok)
			assert.Equal(t, sessionID, id)

			for i, want := range tt.params {
				got, ok := cd.param(i)
				assert.True(t, ok)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestCallbackData_TooLong(t *testing.T) {
	data := callbackData{Action: actionReview, Params: []string{strings.Repeat("x", maxCallbackDataLen), "0"}}.encode()
	assert.Equal(t, actionNoop, data)

	data = buildSelectCallback(uuid.NewString(), 999, 999)
	assert.LessOrEqual(t, len(data), maxCallbackDataLen)
	assert.NotEqual(t, actionNoop, data)
}

func TestCallbackData_Review(t *testing.T) {
	cd := decodeCallback(buildReviewCallback("abc", 3))
	assert.Equal(t, actionReview, cd.Action)

	page, ok := cd.param(0)
	assert.True(t, ok)
	assert.Equal(t, "3", page)

	_, ok = cd.param(1)
	assert.False(t, ok)
}

func TestCallbackData_WithoutParams(t *testing.T) {
	cd := decodeCallback(buildRetryCallback())
	assert.Equal(t, actionRetry, cd.Action)
	assert.Empty(t, cd.Params)

	_, ok := cd.sessionID()
	assert.False(t, ok)

	empty := decodeCallback("")
	assert.Empty(t, empty.Action)
}
