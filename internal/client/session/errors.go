package session

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/userdesk/internal/client/transport"
)

var (
	// ErrSessionExpired marks a domain call rejected with 401. The session
	// has already been returned to Anonymous when the caller sees it. The
	// wrapped *transport.StatusError is still reachable with errors.As.
	ErrSessionExpired = errors.New("session expired")

	// ErrLoginInFlight is returned by Login while another login is running.
	ErrLoginInFlight = errors.New("login already in progress")

	errEmptyUser = errors.New("response carried no user")
)

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	var se *transport.StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// IsRemoteRejection reports whether err is a non-2xx answer other than an
// expired session.
func IsRemoteRejection(err error) bool {
	var se *transport.StatusError
	return errors.As(err, &se) && !errors.Is(err, ErrSessionExpired)
}

// domainError tags 401s so callers can tell an expired session apart from
// any other rejection. Everything else is returned untouched.
func domainError(err error) error {
	var se *transport.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	return err
}
