package telegram

import (
	"strconv"
	"strings"
)

// Telegram rejects callback data longer than this.
const maxCallbackDataLen = 64

// Callback action constants.
const (
	actionSelect  = "sel"
	actionCheck   = "chk"
	actionNext    = "nxt"
	actionExit    = "exit"
	actionReview  = "rev"
	actionRetry   = "retry"
	actionNewFile = "new"
	actionNoop    = "noop"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string. Data that Telegram would reject becomes a
// noop so the rest of the keyboard is still delivered.
func (cd callbackData) encode() string {
	data := cd.Action
	if len(cd.Params) > 0 {
		data += ":" + strings.Join(cd.Params, ":")
	}
	if len(data) > maxCallbackDataLen {
		return actionNoop
	}
	return data
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 || parts[0] == "" {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// sessionID returns the first parameter, which is the session id for every
// quiz action.
func (cd callbackData) sessionID() (string, bool) {
	if len(cd.Params) == 0 || cd.Params[0] == "" {
		return "", false
	}
	return cd.Params[0], true
}

// param returns the i-th parameter after the session id.
func (cd callbackData) param(i int) (string, bool) {
	if len(cd.Params) <= i+1 {
		return "", false
	}
	return cd.Params[i+1], true
}

// buildSelectCallback builds callback data for toggling an option. Options are
// addressed by position so the data stays short whatever the option ids are.
func buildSelectCallback(sessionID string, question, option int) string {
	return callbackData{
		Action: actionSelect,
		Params: []string{sessionID, strconv.Itoa(question), strconv.Itoa(option)},
	}.encode()
}

// buildCheckCallback builds callback data for checking the current answer.
func buildCheckCallback(sessionID string) string {
	return callbackData{Action: actionCheck, Params: []string{sessionID}}.encode()
}

// buildNextCallback builds callback data for moving to the next question or finishing.
func buildNextCallback(sessionID string) string {
	return callbackData{Action: actionNext, Params: []string{sessionID}}.encode()
}

// buildExitCallback builds callback data for leaving a running quiz.
func buildExitCallback(sessionID string) string {
	return callbackData{Action: actionExit, Params: []string{sessionID}}.encode()
}

// buildReviewCallback builds callback data for a review page.
func buildReviewCallback(sessionID string, page int) string {
	return callbackData{
		Action: actionReview,
		Params: []string{sessionID, strconv.Itoa(page)},
	}.encode()
}

// buildRetryCallback builds callback data for starting another session on the same bank.
func buildRetryCallback() string {
	return actionRetry
}

// buildNewFileCallback builds callback data for discarding the loaded bank.
func buildNewFileCallback() string {
	return actionNewFile
}
