package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/client/session"
	"github.com/dmitrijs2005/userdesk/internal/common"
)

// Demo account accepted by the public directory.
const (
	DemoEmail    = "eve.holt@reqres.in"
	DemoPassword = "cityslicka"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) askPassword() ([]byte, error) {
	if a.terminal {
		return getPassword(int(os.Stdin.Fd()), a.out)
	}
	pw, err := getSimpleText(a.reader, "Enter password", a.out)
	if err != nil {
		return nil, err
	}
	return []byte(pw), nil
}

// Login authenticates with email and password, prompting for whichever is
// empty. Both must be non-empty before the directory is contacted.
//
// A rejected login is reported with the reason given by the directory and
// returns ErrReported. The password copy read from the terminal is wiped
// before returning.
func (a *App) Login(ctx context.Context, email, password string) error {
	var err error
	if email == "" {
		if email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
	}
	if password == "" {
		pw, err := a.askPassword()
		if err != nil {
			return err
		}
		defer common.WipeByteArray(pw)
		password = string(pw)
	}

	form := loginForm{Email: email, Password: password}
	if err := form.Validate(); err != nil {
		a.notify.Failure(err)
		return ErrReported
	}

	ok, err := a.dir.Login(ctx, form.Email, form.Password)
	if err != nil {
		a.notify.Failure(fmt.Errorf("%s: %w", loginReason(a.dir.State()), err))
		return ErrReported
	}
	if !ok {
		a.notify.Failure(fmt.Errorf("%s", loginReason(a.dir.State())))
		return ErrReported
	}

	a.notify.Success("Logged in as %s.", form.Email)
	return nil
}

func loginReason(st session.State) string {
	if st.LastError == "" || st.LastError == session.LoginFailedMessage {
		return session.LoginFailedMessage
	}
	return session.LoginFailedMessage + ": " + st.LastError
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.dir.Logout(ctx); err != nil {
		a.notify.Failure(err)
		return ErrReported
	}
	a.notify.Success("Logged out.")
	return nil
}

// Status prints the session status and what is known about the stored
// credential.
func (a *App) Status(ctx context.Context) error {
	info, err := a.dir.Describe(ctx)
	if err != nil {
		a.notify.Failure(err)
		return ErrReported
	}

	fmt.Fprintf(a.out, "Status: %s\n", info.Status)
	if info.Token == "" {
		return nil
	}
	fmt.Fprintf(a.out, "Token:  %s\n", info.Token)
	if !info.ExpiresAt.IsZero() {
		note := ""
		if info.Expired {
			note = " (expired)"
		}
		fmt.Fprintf(a.out, "Expires: %s%s\n", info.ExpiresAt.UTC().Format(time.RFC3339), note)
	}
	return nil
}
