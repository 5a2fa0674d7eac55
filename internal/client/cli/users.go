package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
)

// Changes holds the edit values given on the command line. Nil fields keep
// the value currently stored on the remote.
type Changes struct {
	FirstName *string
	LastName  *string
	Email     *string
}

func (c Changes) apply(u *models.UserUpdate) {
	if c.FirstName != nil {
		u.FirstName = *c.FirstName
	}
	if c.LastName != nil {
		u.LastName = *c.LastName
	}
	if c.Email != nil {
		u.Email = *c.Email
	}
}

// FetchPage loads page n, reporting a failure to the user.
func (a *App) FetchPage(ctx context.Context, n int) (*models.Page, error) {
	p, err := a.dir.FetchPage(ctx, n)
	if err != nil {
		a.notify.Failure(err)
		return nil, ErrReported
	}
	return p, nil
}

// List fetches page n and prints the users matching query.
func (a *App) List(ctx context.Context, n int, query string) error {
	p, err := a.FetchPage(ctx, n)
	if err != nil {
		return err
	}
	renderPage(a.out, p, query)
	return nil
}

func renderPage(w io.Writer, p *models.Page, query string) {
	shown := models.FilterUsers(p.Items, query)
	if len(shown) == 0 {
		fmt.Fprintln(w, "No users.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL")
		for _, u := range shown {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.FullName(), u.Email)
		}
		_ = tw.Flush()
	}

	footer := fmt.Sprintf("Page %d of %d  %s", p.Number, p.TotalPages, p.Navigator())
	if query != "" {
		footer += fmt.Sprintf("  (%d of %d match %q)", len(shown), len(p.Items), query)
	}
	fmt.Fprintln(w, footer)
}

func (a *App) Show(ctx context.Context, id int) error {
	u, err := a.dir.FetchOne(ctx, id)
	if err != nil {
		a.notify.Failure(err)
		return ErrReported
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", u.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", u.FullName())
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Avatar:\t%s\n", u.Avatar)
	return tw.Flush()
}

// Edit updates user id. The form starts from the user's current values and
// takes ch over them; with interactive set every field is also prompted for,
// an empty answer keeping the shown value.
func (a *App) Edit(ctx context.Context, id int, ch Changes, interactive bool) error {
	u, err := a.dir.FetchOne(ctx, id)
	if err != nil {
		a.notify.Failure(err)
		return ErrReported
	}

	upd := models.UpdateFrom(*u)
	ch.apply(&upd)

	if interactive {
		fields := []struct {
			prompt string
			v      *string
		}{
			{"First name", &upd.FirstName},
			{"Last name", &upd.LastName},
			{"Email", &upd.Email},
		}
		for _, f := range fields {
			if *f.v, err = GetWithDefault(a.reader, f.prompt, *f.v, a.out); err != nil {
				return err
			}
		}
	}

	if err := validateUpdate(upd); err != nil {
		a.notify.Failure(err)
		return ErrReported
	}

	ack, err := a.dir.UpdateOne(ctx, id, upd)
	if err != nil {
		a.notify.Failure(err)
		return ErrReported
	}

	if ack.UpdatedAt != "" {
		a.notify.Success("Updated user %d (%s %s, %s) at %s.", id, ack.FirstName, ack.LastName, ack.Email, ack.UpdatedAt)
	} else {
		a.notify.Success("Updated user %d (%s %s, %s).", id, ack.FirstName, ack.LastName, ack.Email)
	}
	return nil
}

// Delete removes user id after confirmation, unless yes is set. It reports
// whether the user was deleted.
func (a *App) Delete(ctx context.Context, id int, yes bool) (bool, error) {
	if !yes {
		ok, err := Confirm(a.reader, fmt.Sprintf("Delete user %d?", id), a.out)
		if err != nil {
			return false, err
		}
		if !ok {
			a.notify.Success("Cancelled.")
			return false, nil
		}
	}

	if err := a.dir.DeleteOne(ctx, id); err != nil {
		a.notify.Failure(err)
		return false, ErrReported
	}
	a.notify.Success("Deleted user %d.", id)
	return true, nil
}
