package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	appConfig "github.com/gatehouse/gatectl/internal/config"
	"github.com/gatehouse/gatectl/internal/portal"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "CLI configuration commands",
	Long: `CLI configuration commands for gatectl.

This command group shows the configuration file in use and sets the portal
server, the default community and output preferences.`,
}

// showCmd prints the configuration
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE:  runShow,
}

// setCmd changes one value
var setCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Set a configuration value",
	Long:      "Set a configuration value. Keys: " + strings.Join(appConfig.Keys(), ", "),
	Args:      cobra.ExactArgs(2),
	ValidArgs: appConfig.Keys(),
	RunE:      runSet,
}

// pathCmd prints the configuration file location
var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), appConfig.Path())
		return nil
	},
}

func runShow(cmd *cobra.Command, args []string) error {
	p, err := portal.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	cfg := *appConfig.Get()
	cfg.Auth.Token = mask(cfg.Auth.Token)
	return p.Printer.Print(cfg)
}

func runSet(cmd *cobra.Command, args []string) error {
	p, err := portal.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	if err := appConfig.Set(args[0], args[1]); err != nil {
		return err
	}

	p.Printer.Success("✓ %s set to %s", args[0], args[1])
	return nil
}

// mask hides all but the last 4 characters of a token
func mask(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", 8) + token[len(token)-4:]
}

func init() {
	ConfigCmd.AddCommand(showCmd)
	ConfigCmd.AddCommand(setCmd)
	ConfigCmd.AddCommand(pathCmd)
}
