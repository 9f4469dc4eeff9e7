package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gatehouse/gatectl/cmd/admin"
	"github.com/gatehouse/gatectl/cmd/auth"
	"github.com/gatehouse/gatectl/cmd/config"
	"github.com/gatehouse/gatectl/cmd/mfa"
	"github.com/gatehouse/gatectl/cmd/platform"
	"github.com/gatehouse/gatectl/cmd/raw"
	"github.com/gatehouse/gatectl/cmd/resident"
	"github.com/gatehouse/gatectl/cmd/security"
	"github.com/gatehouse/gatectl/cmd/tenant"
	appConfig "github.com/gatehouse/gatectl/internal/config"
	"github.com/gatehouse/gatectl/internal/format"
	"github.com/gatehouse/gatectl/internal/portal"
)

var (
	cfgFile   string
	debug     bool
	output    string
	tenantArg string
	noPersist bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gatectl",
	Short: "gatectl - command-line client for the gated community portal",
	Long: `gatectl signs you in to a gated community portal and opens the
dashboard of your role: admin, resident, security or platform.

The tenant is taken from --tenant, the configured tenant slug, or the first
label of the configured portal host.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize configuration
		if err := appConfig.Initialize(cfgFile); err != nil {
			return fmt.Errorf("failed to initialize configuration: %w", err)
		}

		appConfig.SetDebug(debug)
		if output != "" {
			if _, err := format.GetFormatter(output, nil, false); err != nil {
				return err
			}
		}
		appConfig.SetOutputFormat(output)

		p := portal.New(appConfig.Get(), portal.Options{
			Tenant:    tenantArg,
			NoPersist: noPersist,
			Output:    appConfig.GetOutputFormat(),
			Debug:     appConfig.IsDebug(),
			Stdout:    cmd.OutOrStdout(),
			Stderr:    cmd.ErrOrStderr(),
			Stdin:     cmd.InOrStdin(),
		})
		p.Navigator.Visit(commandRoute(cmd, p.TenantSlug))
		p.Printer.Debugf("config %s, tenant %q, server %s", appConfig.Path(), p.TenantSlug, p.Config.Server.URL)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(portal.WithContext(ctx, p))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		reportError(cmd, err)
	}
	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gatectl.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output format (table, json, json-compact, yaml, text)")
	rootCmd.PersistentFlags().StringVarP(&tenantArg, "tenant", "t", "", "tenant slug (overrides the configured tenant)")
	rootCmd.PersistentFlags().BoolVar(&noPersist, "no-persist", false, "keep the session token in memory only")

	// Add subcommands
	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(mfa.MFACmd)
	rootCmd.AddCommand(tenant.TenantCmd)
	rootCmd.AddCommand(admin.AdminCmd)
	rootCmd.AddCommand(resident.ResidentCmd)
	rootCmd.AddCommand(security.SecurityCmd)
	rootCmd.AddCommand(platform.PlatformCmd)
	rootCmd.AddCommand(config.ConfigCmd)
	rootCmd.AddCommand(raw.RawCmd)
}
