package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

type command func(ctx context.Context, args []string) error

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isOwner() bool

	Signup(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error
	Go(ctx context.Context, args []string) error

	Courts(ctx context.Context, args []string) error
	Court(ctx context.Context, args []string) error

	Book(ctx context.Context, args []string) error
	Bookings(ctx context.Context, args []string) error
	Cancel(ctx context.Context, args []string) error
	Pending(ctx context.Context, args []string) error
	Approve(ctx context.Context, args []string) error
	Reject(ctx context.Context, args []string) error
	Dashboard(ctx context.Context, args []string) error

	Billing(ctx context.Context, args []string) error
	Checkout(ctx context.Context, args []string) error
	Subscription(ctx context.Context, args []string) error
	CancelSubscription(ctx context.Context, args []string) error
	Notifications(ctx context.Context, args []string) error
	Read(ctx context.Context, args []string) error
}

const (
	guestHelp = `Available commands:
  courts [city] [sport]   browse courts
  court <id>              show one court
  signup                  create an account
  login [email]           sign in
  go <path>               open a page
  exit                    leave the program`

	userHelp = `Available commands:
  courts [city] [sport]   browse courts
  court <id>              show one court
  book <court> <start> <duration> [note]
  bookings                your reservations
  cancel <id>             cancel a reservation
  billing                 invoices
  checkout <price> [url]  start a subscription checkout
  subscription            current plan
  cancelsub               cancel the plan at period end
  notifications           inbox
  read <id>               mark a notification read
  whoami [-v]             current account, -v lists session cookies
  go <path>               open a page
  logout                  sign out
  exit                    leave the program`

	ownerHelp = `Owner commands:
  pending [status|all]    reservations on your courts
  approve <id>            approve a request
  reject <id> [reason]    reject a request
  dashboard               summary`
)

// runREPL reads commands from reader until EOF, "exit" or "quit", or until
// ctx ends. The first word selects the command; the rest are its arguments.
// Command errors are printed and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	commands := map[string]command{
		"signup":        a.Signup,
		"register":      a.Signup,
		"login":         a.Login,
		"logout":        a.Logout,
		"whoami":        a.WhoAmI,
		"go":            a.Go,
		"courts":        a.Courts,
		"court":         a.Court,
		"book":          a.Book,
		"bookings":      a.Bookings,
		"cancel":        a.Cancel,
		"pending":       a.Pending,
		"approve":       a.Approve,
		"reject":        a.Reject,
		"dashboard":     a.Dashboard,
		"billing":       a.Billing,
		"checkout":      a.Checkout,
		"subscription":  a.Subscription,
		"cancelsub":     a.CancelSubscription,
		"notifications": a.Notifications,
		"read":          a.Read,
	}

	for ctx.Err() == nil {
		printlnFn(fmt.Sprintf("cb> %s > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			printHelp(a)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		run, ok := commands[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if err := run(ctx, args); err != nil {
			printlnFn("Error:", describe(err))
		}
	}
}

func printHelp(a execIface) {
	if !a.isLoggedIn() {
		printlnFn(guestHelp)
		return
	}
	printlnFn(userHelp)
	if a.isOwner() {
		printlnFn(ownerHelp)
	}
}
