package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/piiguard/internal/client/api"
	"github.com/dmitrijs2005/piiguard/internal/client/config"
)

// apiClient is the part of *api.Client the commands use.
type apiClient interface {
	Register(ctx context.Context, email, password, name string) (*api.User, error)
	Login(ctx context.Context, email, password string) (*api.Token, error)
	ListUsers(ctx context.Context) ([]api.User, error)
	GetUser(ctx context.Context, id string) (*api.User, error)
	SetToken(token string)
	Token() string
}

type App struct {
	config *config.Config
	api    apiClient
	reader *bufio.Reader
	out    io.Writer
	email  string
}

func NewApp(c *config.Config) *App {
	client := api.New(c.ServerURL, c.RequestTimeout)
	if c.Token != "" {
		client.SetToken(c.Token)
	}

	return &App{
		config: c,
		api:    client,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (a *App) isLoggedIn() bool {
	return a.api.Token() != ""
}

func (a *App) status() string {
	if a.email != "" {
		return a.email
	}
	if a.isLoggedIn() {
		return "token"
	}
	return "anonymous"
}

// Run executes args as a single command, or starts the REPL when args is
// empty. The returned error is already reported to the user.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Welcome to piiguard CLI (type 'help' for commands)")
		runREPL(ctx, a, a.status, a.reader)
		return nil
	}

	switch args[0] {
	case "register":
		return a.Register(ctx)
	case "login":
		if err := a.Login(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, a.api.Token())
		return nil
	case "users":
		return a.Users(ctx)
	case "user":
		if len(args) < 2 {
			return a.fail(errUsage("user <id>"))
		}
		return a.User(ctx, args[1])
	default:
		return a.fail(fmt.Errorf("unknown command %q", args[0]))
	}
}

func (a *App) requestCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout+time.Second)
}
