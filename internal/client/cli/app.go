package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/client/session"
	"github.com/dmitrijs2005/userdesk/internal/logging"
)

// ErrReported is returned by commands that have already shown their failure
// to the user. Callers should exit non-zero without printing it again.
var ErrReported = errors.New("reported")

// Directory is the session surface the CLI drives. *session.Manager
// satisfies it.
type Directory interface {
	Login(ctx context.Context, email, password string) (bool, error)
	Logout(ctx context.Context) error
	State() session.State
	Describe(ctx context.Context) (session.Info, error)
	FetchPage(ctx context.Context, page int) (*models.Page, error)
	FetchOne(ctx context.Context, id int) (*models.User, error)
	UpdateOne(ctx context.Context, id int, upd models.UserUpdate) (*models.UpdateAck, error)
	DeleteOne(ctx context.Context, id int) error
}

type App struct {
	dir      Directory
	reader   *bufio.Reader
	out      io.Writer
	notify   *Notifier
	log      logging.Logger
	terminal bool

	mu        sync.Mutex
	onExpired []func()
}

// NewApp builds an App reading answers from in and writing to out. Passwords
// are read without echo when in is a terminal.
func NewApp(dir Directory, in io.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{
		dir:      dir,
		reader:   bufio.NewReader(in),
		out:      out,
		notify:   NewNotifier(out),
		log:      log.With("component", "cli"),
		terminal: isTerminalReader(in),
	}
}

func (a *App) isLoggedIn() bool {
	return a.dir.State().Authenticated
}

// OnExpired registers fn to run when the session is dropped after a
// rejected credential.
func (a *App) OnExpired(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onExpired = append(a.onExpired, fn)
}

// SessionExpired is the session manager callback for implicit logouts. The
// user-visible message comes from the failing command.
func (a *App) SessionExpired(ctx context.Context) {
	a.log.Info(ctx, "session expired")

	a.mu.Lock()
	fns := append([]func(){}, a.onExpired...)
	a.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func isTerminalReader(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && isTerminal(int(f.Fd()))
}
