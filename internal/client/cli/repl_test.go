package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Status(ctx context.Context) error        { return f.record("status") }
func (f *fakeExec) List(ctx context.Context) error          { return f.record("list") }
func (f *fakeExec) Next(ctx context.Context) error          { return f.record("next") }
func (f *fakeExec) Prev(ctx context.Context) error          { return f.record("prev") }
func (f *fakeExec) Page(ctx context.Context, n int) error   { return f.record("page %d", n) }
func (f *fakeExec) Search(ctx context.Context, q string) error {
	return f.record("search %q", q)
}
func (f *fakeExec) Show(ctx context.Context, id int) error   { return f.record("show %d", id) }
func (f *fakeExec) Edit(ctx context.Context, id int) error   { return f.record("edit %d", id) }
func (f *fakeExec) Delete(ctx context.Context, id int) error { return f.record("delete %d", id) }

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"l",
		"next",
		"prev",
		"page 2",
		"search janet weaver",
		"show 7",
		"edit 2",
		"delete 3",
		"foobar",
		"logout",
		"exit",
		"list",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	want := []string{"login", "list", "next", "prev", "page 2", `search "janet weaver"`, "show 7", "edit 2", "delete 3", "logout"}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls mismatch:\n got %v\nwant %v", exec.calls, want)
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	lines := silencePrintln(t)

	input := strings.NewReader("show\nedit x\ndelete 0\npage\nquit\n")
	exec := &fakeExec{loggedIn: true}

	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(input))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
	joined := strings.Join(*lines, "\n")
	for _, usage := range []string{"Usage: show <id>", "Usage: edit <id>", "Usage: delete <id>", "Usage: page <number>", "Bye!"} {
		if !strings.Contains(joined, usage) {
			t.Fatalf("missing %q in output:\n%s", usage, joined)
		}
	}
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	silencePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("\n\nlist")))

	if len(exec.calls) != 1 || exec.calls[0] != "list" {
		t.Fatalf("want a single list call, got %v", exec.calls)
	}
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	lines := silencePrintln(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "(anonymous)" }, bufio.NewReader(strings.NewReader("exit\n")))

	if len(*lines) == 0 || (*lines)[0] != "userdesk (anonymous)> " {
		t.Fatalf("unexpected prompt: %q", *lines)
	}
}
