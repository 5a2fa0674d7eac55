package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/dmitrijs2005/userdesk/internal/client/reqrestest"
	"github.com/dmitrijs2005/userdesk/internal/client/session"
	"github.com/dmitrijs2005/userdesk/internal/client/store"
	"github.com/dmitrijs2005/userdesk/internal/client/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app *App
	out *bytes.Buffer
	srv *reqrestest.Server
	st  *store.MemoryStore

	expired int
}

// newTestApp wires an App over the fake directory, answering prompts from
// the given input lines.
func newTestApp(t *testing.T, lines ...string) *testEnv {
	t.Helper()
	env := &testEnv{
		out: &bytes.Buffer{},
		srv: reqrestest.New(t),
		st:  store.NewMemoryStore(),
	}
	api, err := transport.New(env.srv.URL, env.st)
	require.NoError(t, err)

	mgr, err := session.New(context.Background(), env.st, api,
		session.OnSessionExpired(func(ctx context.Context) { env.app.SessionExpired(ctx) }))
	require.NoError(t, err)

	input := strings.Join(lines, "\n")
	if len(lines) > 0 {
		input += "\n"
	}
	env.app = NewApp(mgr, strings.NewReader(input), env.out, nil)
	env.app.OnExpired(func() { env.expired++ })
	return env
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	require.NoError(t, e.app.Login(context.Background(), reqrestest.DemoEmail, reqrestest.DemoPassword))
	e.out.Reset()
}

func (e *testEnv) outputLines() []string {
	return strings.Split(strings.TrimRight(e.out.String(), "\n"), "\n")
}

func strPtr(s string) *string { return &s }

func TestLogin_WithFlagsNotifiesOnce(t *testing.T) {
	env := newTestApp(t)

	err := env.app.Login(context.Background(), DemoEmail, DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, []string{"Logged in as eve.holt@reqres.in."}, env.outputLines())
	assert.True(t, env.app.isLoggedIn())
}

func TestLogin_PromptsForMissingValues(t *testing.T) {
	env := newTestApp(t, reqrestest.DemoEmail, reqrestest.DemoPassword)

	require.NoError(t, env.app.Login(context.Background(), "", ""))
	assert.Contains(t, env.out.String(), "Enter email\n> ")
	assert.Contains(t, env.out.String(), "Enter password\n> ")
	assert.True(t, env.app.isLoggedIn())
}

func TestLogin_EmptyFieldsNeverReachDirectory(t *testing.T) {
	env := newTestApp(t, "someone@reqres.in", "")

	err := env.app.Login(context.Background(), "", "")
	require.ErrorIs(t, err, ErrReported)
	assert.Contains(t, env.out.String(), "Error: password: cannot be blank.")

	_, sent := env.srv.LastRequest(http.MethodPost, "/login")
	assert.False(t, sent)
}

func TestLogin_RejectedShowsRemoteReason(t *testing.T) {
	env := newTestApp(t)

	err := env.app.Login(context.Background(), reqrestest.DemoEmail, "wrong")
	require.ErrorIs(t, err, ErrReported)
	assert.Equal(t, []string{"Error: Login failed: user not found"}, env.outputLines())
	assert.False(t, env.app.isLoggedIn())
}

func TestLogin_TransportFailure(t *testing.T) {
	env := newTestApp(t)
	env.srv.Close()

	err := env.app.Login(context.Background(), reqrestest.DemoEmail, reqrestest.DemoPassword)
	require.ErrorIs(t, err, ErrReported)
	lines := env.outputLines()
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "Error: Login failed: POST /login"), lines[0])
}

func TestLogoutAndStatus(t *testing.T) {
	env := newTestApp(t)
	ctx := context.Background()
	env.login(t)

	require.NoError(t, env.app.Status(ctx))
	assert.Equal(t, []string{"Status: authenticated", "Token:  QpwL*********a7X4"}, env.outputLines())

	env.out.Reset()
	require.NoError(t, env.app.Logout(ctx))
	assert.Equal(t, []string{"Logged out."}, env.outputLines())

	env.out.Reset()
	require.NoError(t, env.app.Status(ctx))
	assert.Equal(t, []string{"Status: anonymous"}, env.outputLines())
}

func TestList_RendersPageAndNavigator(t *testing.T) {
	env := newTestApp(t)
	env.login(t)

	require.NoError(t, env.app.List(context.Background(), 1, ""))
	out := env.out.String()
	assert.Contains(t, out, "Janet Weaver")
	assert.Contains(t, out, "janet.weaver@reqres.in")
	assert.Contains(t, out, "Page 1 of 2  - [1] 2 »")
}

func TestList_FiltersLocally(t *testing.T) {
	env := newTestApp(t)
	env.login(t)

	require.NoError(t, env.app.List(context.Background(), 1, "JANET"))
	out := env.out.String()
	assert.Contains(t, out, "Janet Weaver")
	assert.NotContains(t, out, "Eve Holt")
	assert.Contains(t, out, `(1 of 6 match "JANET")`)

	req, ok := env.srv.LastRequest(http.MethodGet, "/users")
	require.True(t, ok)
	assert.Equal(t, "page=1", req.Query, "the filter is never sent to the remote")
}

func TestList_BeyondLastPage(t *testing.T) {
	env := newTestApp(t)
	env.login(t)

	require.NoError(t, env.app.List(context.Background(), 9, ""))
	assert.Equal(t, []string{"No users.", "Page 9 of 2  « 1 2 -"}, env.outputLines())
}

func TestShow(t *testing.T) {
	env := newTestApp(t)
	ctx := context.Background()
	env.login(t)

	require.NoError(t, env.app.Show(ctx, 2))
	assert.Contains(t, env.out.String(), "Name:   Janet Weaver")

	env.out.Reset()
	require.ErrorIs(t, env.app.Show(ctx, 23), ErrReported)
	assert.Equal(t, []string{"Error: user not found"}, env.outputLines())
}

func TestEdit_KeepsUnchangedFieldsAndNeverSendsAvatar(t *testing.T) {
	env := newTestApp(t)
	env.login(t)

	require.NoError(t, env.app.Edit(context.Background(), 2, Changes{FirstName: strPtr("J.")}, false))
	lines := env.outputLines()
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "Updated user 2 (J. Weaver, janet.weaver@reqres.in) at "), lines[0])

	req, ok := env.srv.LastRequest(http.MethodPut, "/users/2")
	require.True(t, ok)
	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, map[string]any{
		"first_name": "J.",
		"last_name":  "Weaver",
		"email":      "janet.weaver@reqres.in",
	}, body)
}

func TestEdit_InteractivePrefill(t *testing.T) {
	env := newTestApp(t, "", "Smith", "")
	env.login(t)

	require.NoError(t, env.app.Edit(context.Background(), 2, Changes{}, true))
	assert.Contains(t, env.out.String(), "First name [Janet]")
	assert.Contains(t, env.out.String(), "Updated user 2 (Janet Smith, janet.weaver@reqres.in)")
}

func TestEdit_ValidationStopsRequest(t *testing.T) {
	env := newTestApp(t)
	env.login(t)

	err := env.app.Edit(context.Background(), 2, Changes{Email: strPtr("not-an-email")}, false)
	require.ErrorIs(t, err, ErrReported)
	assert.Equal(t, []string{"Error: email: must be a valid email address."}, env.outputLines())

	_, sent := env.srv.LastRequest(http.MethodPut, "/users/2")
	assert.False(t, sent)
}

func TestDelete_Declined(t *testing.T) {
	env := newTestApp(t, "n")
	env.login(t)

	ok, err := env.app.Delete(context.Background(), 2, false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, env.out.String(), "Delete user 2? [y/N]")
	assert.Contains(t, env.out.String(), "Cancelled.")

	_, sent := env.srv.LastRequest(http.MethodDelete, "/users/2")
	assert.False(t, sent)
}

func TestDelete_Confirmed(t *testing.T) {
	env := newTestApp(t)
	env.login(t)

	ok, err := env.app.Delete(context.Background(), 2, true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"Deleted user 2."}, env.outputLines())
}

func TestSessionExpired_OneMessageAndHook(t *testing.T) {
	env := newTestApp(t)
	env.login(t)
	env.srv.RevokeAll()

	err := env.app.List(context.Background(), 1, "")
	require.ErrorIs(t, err, ErrReported)
	assert.Equal(t, []string{"Error: session expired, run 'login' to sign in again"}, env.outputLines())
	assert.Equal(t, 1, env.expired)
	assert.False(t, env.app.isLoggedIn())
}
