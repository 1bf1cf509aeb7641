package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/courtbook/internal/client/client"
	"github.com/dmitrijs2005/courtbook/internal/client/config"
	"github.com/dmitrijs2005/courtbook/internal/client/metrics"
	"github.com/dmitrijs2005/courtbook/internal/client/session"
	"github.com/dmitrijs2005/courtbook/internal/client/tokens"
	"github.com/dmitrijs2005/courtbook/internal/logging"
)

// App is the interactive client: one API client, one session and one
// router shared by every command.
type App struct {
	config  *config.Config
	log     logging.Logger
	api     client.Client
	session *session.Controller
	router  *session.Router
	tokens  tokens.Store
	reader  *bufio.Reader
	out     io.Writer
	closers []func() error
}

// NewApp opens the configured token store, starts the metrics endpoint
// when enabled and wires the API client to the session.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log := logging.NewFromLevel(c.LogLevel, os.Stderr)

	store, closeStore, err := openTokenStore(ctx, c)
	if err != nil {
		log.Error(ctx, "error opening token store", "store", c.TokenStore, "error", err)
		return nil, err
	}
	closers := []func() error{closeStore}

	var rec metrics.Recorder = metrics.Nop{}
	if c.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		rec = metrics.NewPrometheus(reg)
		closers = append(closers, startMetricsServer(c.MetricsAddr, reg, log))
	}

	api := client.NewHTTPClient(c.APIBaseURL, store,
		client.WithLogger(log),
		client.WithMetrics(rec),
		client.WithRequestTimeout(c.RequestTimeout),
		client.WithRefreshTimeout(c.RefreshTimeout),
	)

	a := newApp(c, log, api, os.Stdin, os.Stdout)
	a.closers = closers
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, api *client.HTTPClient, in io.Reader, out io.Writer) *App {
	router := session.NewRouter(session.DefaultRoutes(), log)
	store := api.Tokens()
	ctrl := session.New(api, store, router, session.WithLogger(log))

	api.OnAuthFailure(ctrl.ForceLogout)
	router.OnProtected(func(ctx context.Context, _ string) {
		if !ctrl.State().IsAuthenticated {
			_, _ = ctrl.Check(ctx)
		}
	})

	return &App{
		config:  c,
		log:     log,
		api:     api,
		session: ctrl,
		router:  router,
		tokens:  store,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// Run restores the previous session, if any, and blocks in the REPL until
// the user exits or ctx ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	printlnFn("Welcome to courtbook CLI (type 'help' for commands)")
	a.restore(ctx)
	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) restore(ctx context.Context) {
	st, err := a.session.Check(ctx)
	if err != nil {
		a.log.Info(ctx, "previous session dropped", "error", err)
		fmt.Fprintln(a.out, "Your session has ended, please log in again.")
		return
	}
	if st.IsAuthenticated {
		fmt.Fprintf(a.out, "Welcome back, %s!\n", st.User.DisplayName())
	}
}

// Close releases the token store and stops the metrics endpoint.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.session.State().IsAuthenticated
}

func (a *App) isOwner() bool {
	return a.session.State().User.IsOwner()
}

func (a *App) status() string {
	who := "guest"
	if u := a.session.State().User; u != nil {
		who = u.Email
	}
	return fmt.Sprintf("(%s %s)", who, a.router.Path())
}

// enter navigates to page and fails when the guard bounced the user back
// to the landing page.
func (a *App) enter(ctx context.Context, page string) error {
	a.router.Navigate(ctx, page)
	if a.router.Path() != session.Clean(page) {
		return errNotSignedIn
	}
	return nil
}

func (a *App) requireOwner(ctx context.Context, page string) error {
	if err := a.enter(ctx, page); err != nil {
		return err
	}
	if !a.isOwner() {
		return errOwnerOnly
	}
	return nil
}
