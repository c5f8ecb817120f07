package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/memoria/internal/client/forms"
	"github.com/dmitrijs2005/memoria/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to the interactive input helpers.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

const unknownError = "Unknown error"

// Register prompts for name, email, password and confirmation, validates
// them and creates the account. Validation failures never reach the
// backend. The password buffers read from the terminal are zeroed before
// returning; the string handed to the backend is not and lives until
// collected.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	pw := string(password)
	if err := forms.ValidateRegistration(forms.RegistrationForm{
		Name:     name,
		Email:    email,
		Password: pw,
		Confirm:  string(confirm),
	}); err != nil {
		return err
	}

	res := a.session.Register(ctx, email, pw, name)
	if !res.Success {
		return failure("Registration failed", res.Message())
	}

	printlnFn("Registration successful! Your account has been created.")
	return nil
}

// Login prompts for credentials and signs in. Like Register, it zeroes the
// password buffer but not the string passed on.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	pw := string(password)
	if err := forms.ValidateLogin(forms.LoginForm{Email: email, Password: pw}); err != nil {
		return err
	}

	res := a.session.Login(ctx, email, pw)
	if !res.Success {
		return failure("Login failed", res.Message())
	}

	if u := a.session.Snapshot().User; u != nil {
		printlnFn("Welcome,", u.Name)
	}
	return nil
}

// Logout asks for confirmation and ends the session. It always leaves the
// client signed out once confirmed.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("You are not logged in.")
		return nil
	}

	answer, err := getSimpleText(a.reader, "Do you really want to log out? (y/N)", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		return nil
	}

	a.session.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	st := a.session.Snapshot()
	if st.User == nil {
		printlnFn("Not logged in (" + st.Status.String() + ")")
		return nil
	}
	printlnFn(st.User.Name, "<"+st.User.Email+">", "id:", st.User.ID)
	return nil
}

func failure(title, msg string) error {
	if msg == "" {
		msg = unknownError
	}
	return errors.New(title + ": " + msg)
}
