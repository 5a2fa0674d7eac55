package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/userdesk/internal/client/session"
	"github.com/dmitrijs2005/userdesk/internal/client/transport"
)

// Notifier prints exactly one line per call.
type Notifier struct {
	w io.Writer
}

func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

func (n *Notifier) Success(format string, args ...any) {
	fmt.Fprintln(n.w, fmt.Sprintf(format, args...))
}

func (n *Notifier) Failure(err error) {
	fmt.Fprintln(n.w, "Error: "+describeError(err))
}

// describeError turns an error into a single line for the user.
func describeError(err error) string {
	var se *transport.StatusError
	switch {
	case errors.Is(err, session.ErrSessionExpired):
		return "session expired, run 'login' to sign in again"
	case session.IsNotFound(err):
		return "user not found"
	case errors.As(err, &se):
		msg := se.Message
		if msg == "" {
			msg = strings.ToLower(http.StatusText(se.StatusCode))
		}
		return fmt.Sprintf("request rejected (%d): %s", se.StatusCode, msg)
	default:
		return oneLine(err.Error())
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
