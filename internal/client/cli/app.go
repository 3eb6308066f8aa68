package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dmitrijs2005/shipagency/internal/client/client"
	"github.com/dmitrijs2005/shipagency/internal/client/config"
	"github.com/dmitrijs2005/shipagency/internal/common"
	"github.com/dmitrijs2005/shipagency/internal/notify"
)

type App struct {
	config   *config.Config
	api      client.Client
	composer *notify.Composer
	reader   *bufio.Reader
	out      io.Writer
	email    string
}

func NewApp(c *config.Config) (*App, error) {
	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return newApp(c, api, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, api client.Client, r *bufio.Reader, w io.Writer) *App {
	return &App{
		config:   c,
		api:      api,
		composer: notify.NewComposer(nil, c.AgencyEmail),
		reader:   r,
		out:      w,
	}
}

// Run starts the REPL and blocks until the user quits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Ship Agency dashboard (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.api.Token() != ""
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf("(%s)", a.email)
}

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}
	return nil
}

// describe turns an API error into something readable at the prompt.
func describe(err error) string {
	var apiErr *client.Error
	switch {
	case errors.As(err, &apiErr) && len(apiErr.Fields) > 0:
		keys := make([]string, 0, len(apiErr.Fields))
		for k := range apiErr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var b strings.Builder
		b.WriteString(apiErr.Error())
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  %s: %s", k, apiErr.Fields[k])
		}
		return b.String()
	case errors.Is(err, client.ErrNotLoggedIn):
		return "You are not logged in (use 'login' or 'register')"
	case errors.Is(err, common.ErrUnauthorized):
		return err.Error() + " (try 'login' again)"
	case client.IsUnavailable(err):
		return "Server unavailable: " + err.Error()
	}
	return err.Error()
}
