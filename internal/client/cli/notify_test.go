package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/client/session"
	"github.com/dmitrijs2005/userdesk/internal/client/transport"
	"github.com/stretchr/testify/assert"
)

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "session expired",
			err:  fmt.Errorf("%w: %w", session.ErrSessionExpired, &transport.StatusError{StatusCode: 401}),
			want: "session expired, run 'login' to sign in again",
		},
		{
			name: "not found",
			err:  &transport.StatusError{Method: "GET", Path: "/users/23", StatusCode: 404},
			want: "user not found",
		},
		{
			name: "rejection with message",
			err:  &transport.StatusError{StatusCode: 400, Message: "email is required"},
			want: "request rejected (400): email is required",
		},
		{
			name: "rejection without message",
			err:  &transport.StatusError{StatusCode: 500},
			want: "request rejected (500): internal server error",
		},
		{
			name: "anything else on one line",
			err:  errors.New("dial tcp:\n connection refused"),
			want: "dial tcp: connection refused",
		},
		{
			name: "validation",
			err:  validateUpdate(models.UserUpdate{FirstName: "a", LastName: "b", Email: "x"}),
			want: "email: must be a valid email address.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeError(tt.err))
		})
	}
}

func TestNotifier_OneLinePerCall(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotifier(&buf)

	n.Success("Deleted user %d.", 3)
	n.Failure(errors.New("boom"))

	assert.Equal(t, "Deleted user 3.\nError: boom\n", buf.String())
}

func TestValidateUpdate(t *testing.T) {
	assert.NoError(t, validateUpdate(models.UserUpdate{FirstName: "Janet", LastName: "Weaver", Email: "janet.weaver@reqres.in"}))

	err := validateUpdate(models.UserUpdate{})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "first_name: cannot be blank")
		assert.Contains(t, err.Error(), "last_name: cannot be blank")
		assert.Contains(t, err.Error(), "email: cannot be blank")
	}
}

func TestLoginForm(t *testing.T) {
	assert.NoError(t, loginForm{Email: "a", Password: "b"}.Validate())
	assert.Error(t, loginForm{Email: "a"}.Validate())
	assert.Error(t, loginForm{Password: "b"}.Validate())
}
