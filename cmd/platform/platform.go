package platform

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gatehouse/gatectl/internal/models"
	"github.com/gatehouse/gatectl/internal/portal"
	"github.com/gatehouse/gatectl/internal/route"
)

// PlatformCmd represents the platform operator console
var PlatformCmd = &cobra.Command{
	Use:   "platform",
	Short: "Platform operator console",
	Long: `Platform operator console.

Lists the communities hosted on the platform. Only super admins can open it.`,
	RunE: runTenants,
}

// tenantsCmd lists communities
var tenantsCmd = &cobra.Command{
	Use:   "tenants",
	Short: "List communities",
	Long:  "List every community hosted on the platform",
	RunE:  runTenants,
}

func runTenants(cmd *cobra.Command, args []string) error {
	p, err := portal.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	skip, _ := cmd.Flags().GetInt("skip")
	limit, _ := cmd.Flags().GetInt("limit")

	tenants, err := p.API.ListTenants(cmd.Context(), models.PaginationParams{Skip: skip, Limit: limit})
	if err != nil {
		return fmt.Errorf("failed to list communities: %w", err)
	}
	if len(tenants) == 0 && !p.Printer.Structured() {
		p.Printer.Info("No communities found")
		return nil
	}
	return p.Printer.Print(tenants)
}

func init() {
	PlatformCmd.PersistentFlags().Int("skip", 0, "number of communities to skip")
	PlatformCmd.PersistentFlags().Int("limit", 100, "maximum number of communities to list")

	PlatformCmd.AddCommand(tenantsCmd)

	portal.ShellAt(PlatformCmd, route.PlatformLogin, models.RoleSuperAdmin)
}
