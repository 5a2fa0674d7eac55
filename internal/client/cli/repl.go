package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// shell satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	List(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Page(ctx context.Context, n int) error
	Search(ctx context.Context, q string) error
	Show(ctx context.Context, id int) error
	Edit(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}

// runREPL starts a simple read-eval-print loop for the userdesk CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help             show available commands
//	  - login            authenticate
//	  - status           show session status
//	  - exit | quit      leave the program
//
//	Logged in:
//	  - (l)ist           show the current page
//	  - next | prev      move between pages
//	  - page N           jump to page N
//	  - search [text]    filter the current page, no text clears the filter
//	  - show ID          show one user
//	  - edit ID          edit a user, prefilled with its current values
//	  - delete ID        delete a user after confirmation
//	  - status, logout, exit | quit
//
// Errors returned by command handlers are ignored here; handlers report
// their own failures.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("userdesk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, next, prev, page, search, show, edit, delete, status, logout, exit")
			} else {
				printlnFn("Available commands: login, status, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "status":
			_ = a.Status(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "next":
			_ = a.Next(ctx)

		case "prev":
			_ = a.Prev(ctx)

		case "search":
			_ = a.Search(ctx, strings.Join(args, " "))

		case "page", "show", "edit", "delete":
			n, ok := intArg(args)
			if !ok {
				if cmd == "page" {
					printlnFn("Usage: page <number>")
				} else {
					printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				}
				continue
			}
			switch cmd {
			case "page":
				_ = a.Page(ctx, n)
			case "show":
				_ = a.Show(ctx, n)
			case "edit":
				_ = a.Edit(ctx, n)
			case "delete":
				_ = a.Delete(ctx, n)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

func intArg(args []string) (int, bool) {
	if len(args) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// shell keeps the page being browsed between REPL commands.
type shell struct {
	app *App

	mu     sync.Mutex
	page   *models.Page
	number int
	query  string
}

func newShell(app *App) *shell {
	s := &shell{app: app, number: 1}
	app.OnExpired(s.reset)
	return s
}

func (s *shell) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = nil
	s.number = 1
	s.query = ""
}

func (s *shell) current() (*models.Page, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page, s.query
}

func (s *shell) status() string {
	if !s.isLoggedIn() {
		return "(anonymous)"
	}
	p, q := s.current()
	switch {
	case p == nil:
		return "(authenticated)"
	case q != "":
		return fmt.Sprintf("(page %d/%d, search %q)", p.Number, p.TotalPages, q)
	default:
		return fmt.Sprintf("(page %d/%d)", p.Number, p.TotalPages)
	}
}

func (s *shell) isLoggedIn() bool {
	return s.app.isLoggedIn()
}

func (s *shell) Login(ctx context.Context) error {
	if err := s.app.Login(ctx, "", ""); err != nil {
		return err
	}
	s.reset()
	return s.load(ctx, 1)
}

func (s *shell) Logout(ctx context.Context) error {
	s.reset()
	return s.app.Logout(ctx)
}

func (s *shell) Status(ctx context.Context) error {
	return s.app.Status(ctx)
}

func (s *shell) load(ctx context.Context, n int) error {
	p, err := s.app.FetchPage(ctx, n)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.page = p
	s.number = p.Number
	q := s.query
	s.mu.Unlock()

	renderPage(s.app.out, p, q)
	return nil
}

func (s *shell) List(ctx context.Context) error {
	s.mu.Lock()
	n := s.number
	s.mu.Unlock()
	return s.load(ctx, n)
}

func (s *shell) Next(ctx context.Context) error {
	p, _ := s.current()
	if p != nil && !p.HasNext() {
		printlnFn("Already on the last page.")
		return nil
	}
	n := 1
	if p != nil {
		n = p.Number + 1
	}
	return s.load(ctx, n)
}

func (s *shell) Prev(ctx context.Context) error {
	p, _ := s.current()
	if p == nil || !p.HasPrev() {
		printlnFn("Already on the first page.")
		return nil
	}
	return s.load(ctx, p.Number-1)
}

func (s *shell) Page(ctx context.Context, n int) error {
	return s.load(ctx, n)
}

// Search filters the page already on screen without contacting the remote.
func (s *shell) Search(ctx context.Context, q string) error {
	s.mu.Lock()
	s.query = q
	p := s.page
	s.mu.Unlock()

	if p == nil {
		return s.List(ctx)
	}
	renderPage(s.app.out, p, q)
	return nil
}

func (s *shell) Show(ctx context.Context, id int) error {
	return s.app.Show(ctx, id)
}

func (s *shell) Edit(ctx context.Context, id int) error {
	return s.app.Edit(ctx, id, Changes{}, true)
}

// Delete removes the user and drops it from the page on screen.
func (s *shell) Delete(ctx context.Context, id int) error {
	ok, err := s.app.Delete(ctx, id, false)
	if err != nil || !ok {
		return err
	}

	s.mu.Lock()
	if s.page != nil {
		s.page.Remove(id)
	}
	s.mu.Unlock()
	return nil
}

// Shell runs the interactive session until the user exits or input ends.
func (a *App) Shell(ctx context.Context) error {
	s := newShell(a)
	printlnFn("Welcome to userdesk (type 'help' for commands)")
	if s.isLoggedIn() {
		_ = s.List(ctx)
	}
	runREPL(ctx, s, s.status, a.reader)
	return nil
}
