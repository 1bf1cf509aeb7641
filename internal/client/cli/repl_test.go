package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/courtbook/internal/client/client"
)

type fakeExec struct {
	loggedIn bool
	owner    bool
	failWith error

	calls []string
	args  map[string][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string][]string{}
	}
	f.args[name] = args
	return f.failWith
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) isOwner() bool    { return f.owner }

func (f *fakeExec) Signup(_ context.Context, a []string) error { return f.record("signup", a) }
func (f *fakeExec) Login(_ context.Context, a []string) error {
	f.loggedIn = true
	return f.record("login", a)
}
func (f *fakeExec) Logout(_ context.Context, a []string) error {
	f.loggedIn = false
	return f.record("logout", a)
}
func (f *fakeExec) WhoAmI(_ context.Context, a []string) error   { return f.record("whoami", a) }
func (f *fakeExec) Go(_ context.Context, a []string) error       { return f.record("go", a) }
func (f *fakeExec) Courts(_ context.Context, a []string) error   { return f.record("courts", a) }
func (f *fakeExec) Court(_ context.Context, a []string) error    { return f.record("court", a) }
func (f *fakeExec) Book(_ context.Context, a []string) error     { return f.record("book", a) }
func (f *fakeExec) Bookings(_ context.Context, a []string) error { return f.record("bookings", a) }
func (f *fakeExec) Cancel(_ context.Context, a []string) error   { return f.record("cancel", a) }
func (f *fakeExec) Pending(_ context.Context, a []string) error  { return f.record("pending", a) }
func (f *fakeExec) Approve(_ context.Context, a []string) error  { return f.record("approve", a) }
func (f *fakeExec) Reject(_ context.Context, a []string) error   { return f.record("reject", a) }
func (f *fakeExec) Dashboard(_ context.Context, a []string) error {
	return f.record("dashboard", a)
}
func (f *fakeExec) Billing(_ context.Context, a []string) error  { return f.record("billing", a) }
func (f *fakeExec) Checkout(_ context.Context, a []string) error { return f.record("checkout", a) }
func (f *fakeExec) Subscription(_ context.Context, a []string) error {
	return f.record("subscription", a)
}
func (f *fakeExec) CancelSubscription(_ context.Context, a []string) error {
	return f.record("cancelsub", a)
}
func (f *fakeExec) Notifications(_ context.Context, a []string) error {
	return f.record("notifications", a)
}
func (f *fakeExec) Read(_ context.Context, a []string) error { return f.record("read", a) }

// capturePrint swaps printlnFn for the duration of the test.
func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func script(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func TestRunREPL_DispatchesCommandsWithArgs(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, script(
		"login ann@example.com",
		"courts Riga tennis",
		"book c1 2026-10-20T18:00 1h doubles match",
		"REJECT r1 no lights",
		"cancelsub",
		"exit",
		"bookings",
	))

	assert.Equal(t, []string{"login", "courts", "book", "reject", "cancelsub"}, exec.calls)
	assert.Equal(t, []string{"ann@example.com"}, exec.args["login"])
	assert.Equal(t, []string{"Riga", "tennis"}, exec.args["courts"])
	assert.Equal(t, []string{"c1", "2026-10-20T18:00", "1h", "doubles", "match"}, exec.args["book"])
	assert.Equal(t, []string{"r1", "no", "lights"}, exec.args["reject"])
}

func TestRunREPL_HelpDependsOnRole(t *testing.T) {
	lines := capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, script("help", "quit"))
	out := strings.Join(*lines, "\n")
	assert.Contains(t, out, "signup")
	assert.NotContains(t, out, "bookings")

	*lines = nil
	exec = &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, script("help", "quit"))
	out = strings.Join(*lines, "\n")
	assert.Contains(t, out, "bookings")
	assert.NotContains(t, out, "dashboard")

	*lines = nil
	exec = &fakeExec{loggedIn: true, owner: true}
	runREPL(context.Background(), exec, func() string { return "" }, script("help", "quit"))
	assert.Contains(t, strings.Join(*lines, "\n"), "dashboard")
}

func TestRunREPL_ErrorsAreDescribedAndLoopContinues(t *testing.T) {
	lines := capturePrint(t)

	exec := &fakeExec{failWith: fmt.Errorf("wrapped: %w", client.ErrSessionExpired)}
	runREPL(context.Background(), exec, func() string { return "s" }, script("bookings", "foobar", "billing"))

	assert.Equal(t, []string{"bookings", "billing"}, exec.calls)
	assert.Contains(t, *lines, "Error: session expired, please log in again")
	assert.Contains(t, *lines, "Unknown command: foobar")
}

func TestRunREPL_StopsOnEOFAndContext(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, script("", "   ", "whoami"))
	assert.Equal(t, []string{"whoami"}, exec.calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec = &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, script("whoami"))
	assert.Empty(t, exec.calls)
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	lines := capturePrint(t)
	runREPL(context.Background(), &fakeExec{}, func() string { return "(guest /)" }, script("exit"))
	require.NotEmpty(t, *lines)
	assert.Equal(t, "cb> (guest /) > ", (*lines)[0])
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"session", fmt.Errorf("x: %w", client.ErrSessionExpired), "session expired, please log in again"},
		{"unavailable", fmt.Errorf("%w: dial", client.ErrUnavailable), "server unavailable, try again later"},
		{"api message", &client.APIError{Status: 409, Message: "slot taken"}, "slot taken"},
		{"usage", usage("court <id>"), "usage: court <id>"},
		{"plain", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(tt.err))
		})
	}
}
