package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/piiguard/internal/client/api"
	"github.com/dmitrijs2005/piiguard/internal/common"
)

type errUsage string

func (e errUsage) Error() string { return "usage: " + string(e) }

// fail prints err for the user and returns it unchanged.
func (a *App) fail(err error) error {
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr):
		fmt.Fprintf(a.out, "Error (%d): %s\n", apiErr.StatusCode, apiErr.Error())
	case errors.Is(err, api.ErrNotLoggedIn):
		fmt.Fprintln(a.out, "Please log in first")
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
	return err
}

func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.fail(err)
	}
	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return a.fail(err)
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.requestCtx(ctx)
	defer cancel()

	u, err := a.api.Register(ctx, email, string(password), name)
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.out, "Registered %s (id %s)\n", u.Email, u.ID)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.fail(err)
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.requestCtx(ctx)
	defer cancel()

	t, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return a.fail(err)
	}

	a.email = email
	fmt.Fprintf(a.out, "Login successful, token valid for %ds\n", t.ExpiresIn)
	return nil
}

func (a *App) Logout(context.Context) error {
	a.api.SetToken("")
	a.email = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Users(ctx context.Context) error {
	ctx, cancel := a.requestCtx(ctx)
	defer cancel()

	users, err := a.api.ListUsers(ctx)
	if err != nil {
		return a.fail(err)
	}

	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users")
		return nil
	}
	for _, u := range users {
		printUser(a, &u)
	}
	return nil
}

func (a *App) User(ctx context.Context, id string) error {
	ctx, cancel := a.requestCtx(ctx)
	defer cancel()

	u, err := a.api.GetUser(ctx, id)
	if err != nil {
		return a.fail(err)
	}

	printUser(a, u)
	return nil
}

func printUser(a *App, u *api.User) {
	fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.CreatedAt.Format("2006-01-02 15:04:05Z07:00"))
}
