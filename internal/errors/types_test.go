package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodeInvalidInput, "phone number cannot be empty")
	assert.Equal(t, "INVALID_INPUT: phone number cannot be empty", err.Error())

	wrapped := Wrap(stderrors.New("dial tcp: timeout"), ErrCodeGatewayAPI, "send failed")
	assert.Equal(t, "GATEWAY_API: send failed: dial tcp: timeout", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(cause, ErrCodeLeadSink, "failed to persist lead")

	assert.ErrorIs(t, err, cause)
}

func TestAppError_WithContext(t *testing.T) {
	err := New(ErrCodeGatewayAPI, "send failed").
		WithContext("phone", "5511999990000").
		WithContext("status", 502)

	assert.Equal(t, "5511999990000", err.Context["phone"])
	assert.Equal(t, 502, err.Context["status"])
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(WrapRetryable(stderrors.New("503"), ErrCodeGatewayAPI, "server error")))
	assert.False(t, IsRetryable(Wrap(stderrors.New("400"), ErrCodeGatewayAPI, "bad request")))
	assert.False(t, IsRetryable(stderrors.New("plain error")))
	assert.False(t, IsRetryable(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeSMTP, GetCode(New(ErrCodeSMTP, "relay refused")))
	assert.Equal(t, ErrCodeInternalError, GetCode(stderrors.New("plain error")))
}
