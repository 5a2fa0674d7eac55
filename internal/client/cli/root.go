package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/userdesk/internal/client/config"
	"github.com/dmitrijs2005/userdesk/internal/client/session"
	"github.com/dmitrijs2005/userdesk/internal/client/store"
	"github.com/dmitrijs2005/userdesk/internal/client/transport"
	"github.com/dmitrijs2005/userdesk/internal/common"
	"github.com/dmitrijs2005/userdesk/internal/logging"
	"github.com/spf13/cobra"
)

// Version is reported by --version. Overridden at build time with
// -ldflags "-X github.com/dmitrijs2005/userdesk/internal/client/cli.Version=...".
var Version = "dev"

// builder wires an App for cfg. The returned func releases what it opened.
type builder func(cmd *cobra.Command, cfg *config.Config) (*App, func() error, error)

// Run executes the command line args and releases everything it opened.
func Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	return run(ctx, args, in, out, errOut, buildApp)
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer, build builder) error {
	r := &root{build: build}
	cmd := r.command()
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	if r.release != nil {
		if cerr := r.release(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type root struct {
	build   builder
	flags   *config.Flags
	app     *App
	release func() error
}

func (r *root) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "userdesk",
		Short: "Browse and administer the users of a remote directory.",
		Long: `userdesk signs in to a remote user directory, keeps the session
credential in a local store, and lists, shows, edits and deletes users.

Running without a subcommand starts the interactive shell.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := r.flags.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			r.app, r.release, err = r.build(cmd, cfg)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.Shell(cmd.Context())
		},
	}
	r.flags = config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		r.loginCmd(),
		r.logoutCmd(),
		r.statusCmd(),
		r.usersCmd(),
		r.shellCmd(),
	)
	return cmd
}

func (r *root) loginCmd() *cobra.Command {
	var (
		email    string
		password string
		demo     bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if demo {
				email, password = DemoEmail, DemoPassword
			}
			return r.app.Login(cmd.Context(), email, password)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when empty)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when empty)")
	cmd.Flags().BoolVar(&demo, "demo", false, "use the demo account "+DemoEmail)
	return cmd
}

func (r *root) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.Logout(cmd.Context())
		},
	}
}

func (r *root) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.Status(cmd.Context())
		},
	}
}

func (r *root) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.Shell(cmd.Context())
		},
	}
}

func (r *root) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List and manage directory users",
	}

	var (
		page  int
		query string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List one page of users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.List(cmd.Context(), page, query)
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().StringVarP(&query, "query", "q", "", "only show users whose name or email contains this text")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return r.app.Show(cmd.Context(), id)
		},
	}

	var firstName, lastName, email string
	edit := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a user's name or email",
		Long:  "Fields left out keep their current values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var ch Changes
			if cmd.Flags().Changed("first-name") {
				ch.FirstName = &firstName
			}
			if cmd.Flags().Changed("last-name") {
				ch.LastName = &lastName
			}
			if cmd.Flags().Changed("email") {
				ch.Email = &email
			}
			return r.app.Edit(cmd.Context(), id, ch, false)
		},
	}
	edit.Flags().StringVar(&firstName, "first-name", "", "new first name")
	edit.Flags().StringVar(&lastName, "last-name", "", "new last name")
	edit.Flags().StringVar(&email, "email", "", "new email")

	var yes bool
	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, err = r.app.Delete(cmd.Context(), id, yes)
			return err
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(list, get, edit, del)
	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}

// buildApp opens the credential store at cfg.StorePath and wires the
// transport, session manager and App over it.
func buildApp(cmd *cobra.Command, cfg *config.Config) (*App, func() error, error) {
	ctx := cmd.Context()

	log, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(ctx, cfg.StorePath)
	if err != nil {
		return nil, nil, err
	}

	opts := []transport.Option{transport.WithLogger(log)}
	if cfg.APIKey != "" {
		opts = append(opts, transport.WithHeader(common.APIKeyHeaderName, cfg.APIKey))
	}
	api, err := transport.New(cfg.BaseURL, st, opts...)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	var app *App
	mgr, err := session.New(ctx, st, api,
		session.WithLogger(log),
		session.OnSessionExpired(func(ctx context.Context) { app.SessionExpired(ctx) }),
	)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	app = NewApp(mgr, cmd.InOrStdin(), cmd.OutOrStdout(), log)
	log.Debug(ctx, "app ready", "base_url", cfg.BaseURL, "store", cfg.StorePath)
	return app, st.Close, nil
}
