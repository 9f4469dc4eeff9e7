package mfa

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gatehouse/gatectl/internal/portal"
	"github.com/gatehouse/gatectl/internal/utils"
)

// MFACmd represents the mfa command
var MFACmd = &cobra.Command{
	Use:   "mfa",
	Short: "Two-factor authentication commands",
	Long: `Two-factor authentication commands for gatectl.

Run "mfa setup" to get a secret and QR code for your authenticator app, then
"mfa enable <code>" with the first code it shows.`,
}

// setupCmd starts MFA enrolment
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Generate a two-factor secret",
	Long:  "Ask the portal for a new TOTP secret and show it as a QR code",
	RunE:  runSetup,
}

// enableCmd confirms enrolment
var enableCmd = &cobra.Command{
	Use:   "enable <code>",
	Short: "Enable two-factor authentication",
	Long:  "Confirm the secret from 'mfa setup' with a code from your authenticator app",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnable,
}

// disableCmd turns MFA off
var disableCmd = &cobra.Command{
	Use:   "disable <code>",
	Short: "Disable two-factor authentication",
	Long:  "Turn two-factor authentication off, confirmed with a current code",
	Args:  cobra.ExactArgs(1),
	RunE:  runDisable,
}

func runSetup(cmd *cobra.Command, args []string) error {
	p, err := portal.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := p.RequirePrincipal(cmd.Context()); err != nil {
		return err
	}

	setup, err := p.API.SetupMFA(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to set up two-factor authentication: %w", err)
	}

	if p.Printer.Structured() {
		return p.Printer.Print(setup)
	}

	p.Printer.QR(setup.OTPAuthURL)
	if err := p.Printer.Print(setup); err != nil {
		return err
	}
	p.Printer.Info("Scan the code, then run: gatectl mfa enable <code>")
	return nil
}

func runEnable(cmd *cobra.Command, args []string) error {
	return confirm(cmd, args[0], true)
}

func runDisable(cmd *cobra.Command, args []string) error {
	return confirm(cmd, args[0], false)
}

func confirm(cmd *cobra.Command, code string, enable bool) error {
	p, err := portal.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	if err := utils.ValidateOTPCode(code); err != nil {
		return err
	}
	if _, err := p.RequirePrincipal(cmd.Context()); err != nil {
		return err
	}

	if enable {
		if err := p.API.VerifyMFASetup(cmd.Context(), code); err != nil {
			return fmt.Errorf("failed to enable two-factor authentication: %w", err)
		}
		p.Printer.Success("✓ Two-factor authentication enabled")
		return nil
	}

	if err := p.API.DisableMFA(cmd.Context(), code); err != nil {
		return fmt.Errorf("failed to disable two-factor authentication: %w", err)
	}
	p.Printer.Success("✓ Two-factor authentication disabled")
	return nil
}

func init() {
	MFACmd.AddCommand(setupCmd)
	MFACmd.AddCommand(enableCmd)
	MFACmd.AddCommand(disableCmd)
}
