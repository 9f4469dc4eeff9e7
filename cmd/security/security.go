package security

import (
	"github.com/spf13/cobra"

	"github.com/gatehouse/gatectl/internal/models"
	"github.com/gatehouse/gatectl/internal/portal"
)

// SecurityCmd represents the gate security dashboard
var SecurityCmd = &cobra.Command{
	Use:   "security",
	Short: "Gate security dashboard",
	Long:  `Gate security dashboard for guards on duty.`,
	RunE:  runHome,
}

// homeCmd opens the dashboard
var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Open the security dashboard",
	RunE:  runHome,
}

func runHome(cmd *cobra.Command, args []string) error {
	p, err := portal.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	return p.Welcome(cmd.Context(), "security")
}

func init() {
	SecurityCmd.AddCommand(homeCmd)

	portal.Shell(SecurityCmd, models.RoleGuard)
}
