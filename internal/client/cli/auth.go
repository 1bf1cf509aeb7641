package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/courtbook/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup walks the user through the registration form. It does not sign
// the new account in.
func (a *App) Signup(ctx context.Context, _ []string) error {
	a.router.Navigate(ctx, "/signup")

	var req models.SignupRequest
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"First name", &req.FirstName},
		{"Last name", &req.LastName},
		{"Email", &req.Email},
		{"Phone (optional)", &req.Phone},
	} {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	owner, err := getSimpleText(a.reader, "Do you manage courts? (y/N)", a.out)
	if err != nil {
		return err
	}
	req.UserType = models.UserTypeUser
	if strings.EqualFold(owner, "y") || strings.EqualFold(owner, "yes") {
		req.UserType = models.UserTypeHouseOwner
	}

	if req.Password, err = getPassword(a.out); err != nil {
		return err
	}

	u, err := a.api.Signup(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account created for %s. Use 'login' to sign in.\n", u.Email)
	return nil
}

// Login signs in with an email (argument or prompt) and a hidden password.
func (a *App) Login(ctx context.Context, args []string) error {
	a.router.Navigate(ctx, "/login")

	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	u, err := a.session.SignIn(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", u.DisplayName())
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.session.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the signed-in account; "whoami -v" also lists the stored
// session cookies.
func (a *App) WhoAmI(ctx context.Context, args []string) error {
	u := a.session.State().User
	if u == nil {
		fmt.Fprintln(a.out, "Not logged in.")
	} else {
		role := "player"
		if u.IsOwner() {
			role = "court owner"
		}
		fmt.Fprintf(a.out, "%s <%s>, %s\n", u.DisplayName(), u.Email, role)
	}

	if len(args) == 0 || args[0] != "-v" {
		return nil
	}
	cs, err := a.tokens.Cookies(ctx)
	if err != nil {
		return err
	}
	printCookies(a.out, cs)
	return nil
}

// Go navigates like typing a URL into the address bar.
func (a *App) Go(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("go <path>")
	}
	a.router.Navigate(ctx, args[0])
	fmt.Fprintf(a.out, "Now at %s\n", a.router.Path())
	return nil
}
