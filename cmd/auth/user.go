package auth

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gatehouse/gatectl/internal/portal"
	"github.com/gatehouse/gatectl/internal/utils"
)

// whoamiCmd shows the signed-in user
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long:  "Display the profile of the user the stored session belongs to",
	RunE:  runWhoami,
}

// changePasswordCmd updates the password of the signed-in user
var changePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change your password",
	Long:  "Change the password of the signed-in user. Both passwords are prompted when not given.",
	RunE:  runChangePassword,
}

func runWhoami(cmd *cobra.Command, args []string) error {
	p, err := portal.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	principal, err := p.RequirePrincipal(cmd.Context())
	if err != nil {
		return err
	}
	return p.Printer.Print(principal)
}

func runChangePassword(cmd *cobra.Command, args []string) error {
	p, err := portal.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := p.RequirePrincipal(cmd.Context()); err != nil {
		return err
	}

	current, _ := cmd.Flags().GetString("current")
	next, _ := cmd.Flags().GetString("new")

	if current == "" {
		if current, err = p.Prompter.Secret("Current password: "); err != nil {
			return err
		}
	}
	if next == "" {
		if next, err = p.Prompter.Secret("New password: "); err != nil {
			return err
		}
		confirm, err := p.Prompter.Secret("Repeat new password: ")
		if err != nil {
			return err
		}
		if confirm != next {
			return errors.New("passwords do not match")
		}
	}

	if err := utils.ValidatePassword(current); err != nil {
		return err
	}
	if err := utils.ValidateNewPassword(next); err != nil {
		return err
	}

	if _, err := p.API.ChangePassword(cmd.Context(), current, next); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	p.Printer.Success("✓ Password changed")
	return nil
}

func init() {
	changePasswordCmd.Flags().String("current", "", "Current password")
	changePasswordCmd.Flags().String("new", "", "New password")
}
