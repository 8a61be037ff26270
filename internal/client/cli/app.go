package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/flashdeck/flashdeck/internal/client/api"
	"github.com/flashdeck/flashdeck/internal/client/config"
	"github.com/flashdeck/flashdeck/internal/client/dashboard"
	"github.com/flashdeck/flashdeck/internal/client/services"
	"github.com/flashdeck/flashdeck/internal/client/session"
	"github.com/flashdeck/flashdeck/internal/logging"
)

// App wires the configured API client, the session store, and the dashboard
// controller behind the REPL commands.
type App struct {
	config  *config.Config
	session *session.Store
	auth    services.AuthService
	board   *dashboard.Controller
	reader  *bufio.Reader

	// changed wakes waiters whenever the controller reconciles state.
	changed chan struct{}
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	sess, err := session.NewStore(c.TokenFile)
	if err != nil {
		log.Printf("error loading session: %s", err.Error())
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.ServerEndpointAddr, c.RequestTimeout, c.TransferTimeout, sess, logger)
	board := dashboard.NewController(apiClient, c.ExportDir, logger)

	app := &App{
		config:  c,
		session: sess,
		auth:    services.NewAuthService(apiClient, sess),
		board:   board,
		reader:  bufio.NewReader(os.Stdin),
		changed: make(chan struct{}, 1),
	}

	board.SetOnChange(app.stateChanged)
	sess.SetExpiryHandler(app.sessionExpired)

	return app, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.auth.Authenticated()
}

func (a *App) stateChanged() {
	select {
	case a.changed <- struct{}{}:
	default:
	}
}

// sessionExpired is the 401 hook: the transport detected an expired session
// on a token-bearing request. The dashboard is reset and the REPL falls back
// to the logged-out command set. When the user is already logged out the
// hook never fires, so there is no redirect loop.
func (a *App) sessionExpired() {
	log.Println("Session expired, please log in again")
	a.board.Reset()
}

// waitFor blocks until cond holds for a controller snapshot or the timeout
// passes, returning the last snapshot seen. It lets synchronous commands
// present the result of asynchronous fetches.
func (a *App) waitFor(cond func(dashboard.Snapshot) bool, timeout time.Duration) dashboard.Snapshot {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		s := a.board.Snapshot()
		if cond(s) {
			return s
		}
		select {
		case <-a.changed:
		case <-deadline.C:
			return a.board.Snapshot()
		}
	}
}
