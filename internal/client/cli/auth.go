package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shipagency/internal/shared"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) credentials() (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	defer shared.WipeByteArray(password)

	return email, string(password), nil
}

// Register prompts for an email and password, creates the account and
// stays logged in as the new user.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	if err := a.api.Register(ctx, email, password); err != nil {
		return err
	}

	a.email = email
	fmt.Fprintln(a.out, "Registration successful")
	return nil
}

// Login prompts for credentials and keeps the issued token.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	if err := a.api.Login(ctx, email, password); err != nil {
		return err
	}

	a.email = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout forgets the token. Tokens are stateless, so nothing is sent to the
// server.
func (a *App) Logout(ctx context.Context) error {
	a.api.SetToken("")
	a.email = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	u, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s), id %s, registered %s\n", u.Email, u.Role, u.ID, u.CreatedAt.Format("2006-01-02"))
	return nil
}

// Cleanup deletes every non-admin account. Admins only.
func (a *App) Cleanup(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	ok, err := GetYesNo(a.reader, "Delete all non-admin users?", false, a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	n, err := a.api.CleanupUsers(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %d users\n", n)
	return nil
}

func (a *App) Health(ctx context.Context) error {
	h, err := a.api.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "API %s, status %s, database %s\n", h.API, h.Status, h.Database.State)
	if !h.Database.Connected {
		return errors.New("database is not connected")
	}
	return nil
}
