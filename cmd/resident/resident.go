package resident

import (
	"github.com/spf13/cobra"

	"github.com/gatehouse/gatectl/internal/models"
	"github.com/gatehouse/gatectl/internal/portal"
)

// ResidentCmd represents the resident dashboard
var ResidentCmd = &cobra.Command{
	Use:   "resident",
	Short: "Resident dashboard",
	Long:  `Resident dashboard, shared by residents and their family members.`,
	RunE:  runHome,
}

// homeCmd opens the dashboard
var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Open the resident dashboard",
	RunE:  runHome,
}

func runHome(cmd *cobra.Command, args []string) error {
	p, err := portal.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	return p.Welcome(cmd.Context(), "resident")
}

func init() {
	ResidentCmd.AddCommand(homeCmd)

	portal.Shell(ResidentCmd, models.RoleResident, models.RoleFamilyMember)
}
