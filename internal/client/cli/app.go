package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/stellarburgers/internal/client/client"
	"github.com/dmitrijs2005/stellarburgers/internal/client/config"
	"github.com/dmitrijs2005/stellarburgers/internal/client/credentials"
	"github.com/dmitrijs2005/stellarburgers/internal/client/store"
	"github.com/dmitrijs2005/stellarburgers/internal/logging"
)

type App struct {
	config *config.Config
	store  *store.Store
	db     *sql.DB
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer

	readSecret secretReader
}

// NewApp opens the local database and wires the gateway and the store.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, err := logging.New(c.LogFormat, c.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	creds := credentials.NewStore(db)
	gw := client.NewHTTPClient(c.APIBaseURL, creds,
		client.WithTimeout(c.RequestTimeout),
		client.WithRefreshSkew(c.RefreshSkew),
		client.WithLogger(log.With("component", "gateway")),
	)
	st := store.New(gw, creds, store.WithLogger(log))

	a := newApp(st, os.Stdin, os.Stdout, log)
	a.config = c
	a.db = db
	return a, nil
}

func newApp(st *store.Store, in io.Reader, out io.Writer, log logging.Logger) *App {
	a := &App{store: st, log: log, reader: bufio.NewReader(in), out: out, readSecret: terminalSecret}
	st.OnChange(func(event string) {
		a.log.Debug(context.Background(), "state transition", "event", event)
	})
	return a
}

// Run restores the session, loads the menu and serves the REPL until the
// user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Stellar Burgers (type 'help' for commands)")
	if err := a.store.Bootstrap(ctx); err != nil {
		a.printError("failed to load the menu", err)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.Snapshot().Session.User != nil
}

func (a *App) getStatus() string {
	snap := a.store.Snapshot()
	s := "guest"
	if u := snap.Session.User; u != nil {
		s = u.Name
	}
	if !snap.Construction.IsEmpty() {
		s += fmt.Sprintf(" | burger %d", snap.Construction.Price())
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) printError(prefix string, err error) {
	fmt.Fprintf(a.out, "%s: %v\n", prefix, err)
}
