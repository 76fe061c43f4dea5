package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/me/loginhub/internal/auth"
	"github.com/me/loginhub/pkg/model"
)

func newLoginCmd() *cobra.Command {
	var email, secret string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a password or the master key",
		Long: `Sign in to LoginHub. A tenant user signs in with email and password.
The infrastructure operator signs in by entering the master key as the secret.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if email == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Email: ")
				if email, err = readLine(in); err != nil {
					return fmt.Errorf("read email: %w", err)
				}
			}
			if secret == "" {
				if secret, err = promptSecret(cmd, in, "Password: "); err != nil {
					return fmt.Errorf("read password: %w", err)
				}
			}
			email = strings.TrimSpace(email)
			if email == "" || secret == "" {
				return errors.New("email and password are required")
			}

			ctx := cmd.Context()
			if _, err := app.auth.Login(ctx, email, secret); err != nil {
				return errors.New(auth.UserMessage(err))
			}
			sess, err := app.sessions.Read(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", describe(sess))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&secret, "secret", "", "Password or master key (prompted if omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.sessions.Read(ctx)
			if err != nil {
				return err
			}
			if sess.IsTenant() {
				if err := app.api.Logout(ctx); err != nil {
					logger.Debug("backend logout failed", "error", err)
				}
			}
			if _, err := app.auth.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

// describe renders the actor of sess for terminal output.
func describe(sess model.Session) string {
	switch sess.Tier {
	case model.TierMaster:
		return sess.Identity.Name + " (master)"
	case model.TierTenantUser:
		s := sess.Identity.Name
		if sess.Identity.Email != "" {
			s += " <" + sess.Identity.Email + ">"
		}
		if sess.Company != nil {
			s += " at " + sess.Company.Name
		}
		return s
	default:
		return "nobody"
	}
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptSecret reads a secret without echo when stdin is a terminal.
func promptSecret(cmd *cobra.Command, in *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		return string(b), err
	}
	return readLine(in)
}
