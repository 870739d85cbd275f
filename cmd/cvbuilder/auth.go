package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/amishk599/cvbuilder/internal/model"
)

var (
	loginUser     string
	loginPassword string

	registerEmail    string
	registerUsername string
	registerPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and keep the session for later commands",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "user", "u", "", "username or email (prompted when empty)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when empty)")

	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email")
	registerCmd.Flags().StringVar(&registerUsername, "username", "", "account username")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "password (prompted when empty)")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	in := bufio.NewReader(os.Stdin)
	if loginUser == "" {
		if loginUser, err = prompt(in, "Username or email: "); err != nil {
			return err
		}
	}
	if loginPassword == "" {
		if loginPassword, err = promptPassword(in, "Password: "); err != nil {
			return err
		}
	}

	user, err := runTask(a, "Signing in...", func(ctx context.Context) (model.User, error) {
		if _, err := a.client.Login(ctx, loginUser, loginPassword); err != nil {
			return model.User{}, err
		}
		return a.client.Me(ctx)
	})
	if err != nil {
		return errors.New(model.Message(err))
	}
	fmt.Printf("Signed in as %s.\n", displayName(user))
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	if registerEmail == "" || registerUsername == "" {
		return errors.New("--email and --username are required")
	}
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if registerPassword == "" {
		if registerPassword, err = promptPassword(bufio.NewReader(os.Stdin), "Password: "); err != nil {
			return err
		}
	}

	user, err := runTask(a, "Creating account...", func(ctx context.Context) (model.User, error) {
		if _, err := a.client.Register(ctx, registerEmail, registerPassword, registerUsername); err != nil {
			return model.User{}, err
		}
		if _, err := a.client.Login(ctx, registerEmail, registerPassword); err != nil {
			return model.User{}, fmt.Errorf("account created but sign-in failed: %w", err)
		}
		return a.client.Me(ctx)
	})
	if err != nil {
		return errors.New(model.Message(err))
	}
	fmt.Printf("Account created. Signed in as %s.\n", displayName(user))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.session.Active() {
		fmt.Println("Not signed in.")
		return nil
	}
	if err := a.client.Logout(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.session.Active() {
		fmt.Println("Not signed in.")
		return nil
	}
	user, err := runTask(a, "Loading profile...", a.client.Me)
	if err != nil {
		return errors.New(model.Message(err))
	}
	fmt.Printf("%s <%s> (id %d)\n", user.Username, user.Email, user.ID)
	return nil
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal.
// Piped input is read as a plain line.
func promptPassword(in *bufio.Reader, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(in, label)
	}
	fmt.Fprint(os.Stderr, label)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(pw)), nil
}

func displayName(u model.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
