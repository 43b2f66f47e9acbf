package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// getPIN is an indirection used to facilitate testing.
var getPIN = GetPIN

// Login prompts for an admin user id and PIN and authenticates against the
// user list. The seeded main admin id is printed as a hint when nobody has
// changed the defaults yet.
func (a *App) Login(ctx context.Context) error {
	userID, err := getSimpleText(a.reader, "Enter admin user id", os.Stdout)
	if err != nil {
		return err
	}

	pin, err := getPIN(os.Stdout)
	if err != nil {
		return err
	}

	u, err := a.state.Login(ctx, userID, pin)
	if err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	fmt.Printf("Welcome, %s!\n", u.Name)
	return nil
}

// Logout drops the session marker.
func (a *App) Logout(ctx context.Context) error {
	a.state.Logout()
	return nil
}
