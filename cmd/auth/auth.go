package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gatehouse/gatectl/internal/models"
	"github.com/gatehouse/gatectl/internal/portal"
	"github.com/gatehouse/gatectl/internal/session"
	"github.com/gatehouse/gatectl/internal/tokenstore"
	"github.com/gatehouse/gatectl/internal/utils"
)

// AuthCmd represents the auth command
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in, sign out and inspect the current session",
	Long: `Authentication commands for gatectl.

This command group includes login (with two-factor codes), logout, session
status, the signed-in user and password changes.`,
}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the portal",
	Long: `Authenticate with email and password. When two-factor authentication is
enabled the command asks for the 6-digit code from your authenticator app
until it is accepted or an empty code is entered.`,
	RunE: runLogin,
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Long:  "Forget the stored session token",
	RunE:  runLogout,
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long:  "Display the session state, the signed-in user and when the token expires",
	RunE:  runStatus,
}

// sessionStatus is what auth status prints
type sessionStatus struct {
	State        session.State `json:"state" yaml:"state"`
	Email        string        `json:"email,omitempty" yaml:"email,omitempty"`
	Role         models.Role   `json:"role,omitempty" yaml:"role,omitempty"`
	Tenant       string        `json:"tenant" yaml:"tenant"`
	Server       string        `json:"server" yaml:"server"`
	TokenExpires *time.Time    `json:"token_expires,omitempty" yaml:"token_expires,omitempty"`
	Landing      string        `json:"landing,omitempty" yaml:"landing,omitempty"`
}

func runLogin(cmd *cobra.Command, args []string) error {
	p, err := portal.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	code, _ := cmd.Flags().GetString("code")

	if email == "" {
		if email, err = p.Prompter.Line("Email: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = p.Prompter.Secret("Password: "); err != nil {
			return err
		}
	}

	p.Printer.Info("Signing in to %s as %s...", p.TenantSlug, email)
	p.RememberEmail(email)
	outcome, err := p.Session.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if outcome.State == session.StateMFAPending {
		if outcome, err = verifyMFA(cmd, p, outcome, code); err != nil {
			return err
		}
	}

	principal := outcome.Principal
	p.Printer.Success("✓ Signed in as %s (%s)", principal.DisplayName(), principal.Role)
	p.Navigator.Redirect(p.Landing())
	return nil
}

// verifyMFA asks for codes until one is accepted. A code given by flag is
// tried once.
func verifyMFA(cmd *cobra.Command, p *portal.Portal, outcome session.LoginOutcome, code string) (session.LoginOutcome, error) {
	interactive := code == ""
	for {
		if interactive {
			var err error
			code, err = p.Prompter.Line("Authentication code (empty to cancel): ")
			if err != nil {
				_ = p.Session.Logout()
				return outcome, err
			}
			if code == "" {
				_ = p.Session.Logout()
				return outcome, errors.New("login cancelled")
			}
		}

		next, err := p.Session.VerifyMFA(cmd.Context(), outcome.TempToken, code)
		if err == nil {
			return next, nil
		}
		if !interactive || next.State != session.StateMFAPending {
			_ = p.Session.Logout()
			return next, fmt.Errorf("verification failed: %w", err)
		}
		p.Printer.Error("%s", utils.Message(err))
	}
}

func runLogout(cmd *cobra.Command, args []string) error {
	p, err := portal.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	if err := p.Session.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	p.Printer.Success("✓ Signed out")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	p, err := portal.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	if err := p.Restore(cmd.Context()); err != nil {
		p.Printer.Warning("%s", utils.Message(err))
	}

	snap := p.Session.Snapshot()
	status := sessionStatus{
		State:  snap.State,
		Tenant: p.TenantSlug,
		Server: p.Config.Server.URL,
	}
	if snap.Principal != nil {
		status.Email = snap.Principal.Email
		status.Role = snap.Principal.Role
		status.Landing = p.Landing()
	}
	if exp, ok := tokenstore.Expiry(p.Tokens.Get()); ok {
		status.TokenExpires = &exp
	}

	return p.Printer.Print(status)
}

func init() {
	// Add login command flags
	loginCmd.Flags().StringP("email", "e", "", "Email address")
	loginCmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")
	loginCmd.Flags().String("code", "", "6-digit authentication code for accounts with 2FA")

	// Add subcommands
	AuthCmd.AddCommand(loginCmd)
	AuthCmd.AddCommand(logoutCmd)
	AuthCmd.AddCommand(statusCmd)
	AuthCmd.AddCommand(whoamiCmd)
	AuthCmd.AddCommand(changePasswordCmd)
}
