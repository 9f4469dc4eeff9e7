package admin

import (
	"github.com/spf13/cobra"

	"github.com/gatehouse/gatectl/internal/models"
	"github.com/gatehouse/gatectl/internal/portal"
)

// AdminCmd represents the admin dashboard
var AdminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Community administration dashboard",
	Long: `Community administration dashboard.

Only administrators of the current community can open it; other roles are
sent to their own dashboard.`,
	RunE: runHome,
}

// homeCmd opens the dashboard
var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Open the admin dashboard",
	RunE:  runHome,
}

func runHome(cmd *cobra.Command, args []string) error {
	p, err := portal.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	return p.Welcome(cmd.Context(), "admin")
}

func init() {
	AdminCmd.AddCommand(homeCmd)

	portal.Shell(AdminCmd, models.RoleAdmin)
}
