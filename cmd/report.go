package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gatehouse/gatectl/internal/models"
	"github.com/gatehouse/gatectl/internal/portal"
	"github.com/gatehouse/gatectl/internal/route"
	"github.com/gatehouse/gatectl/internal/utils"
)

// reportError prints err through the portal printer when one was wired
func reportError(cmd *cobra.Command, err error) {
	if cmd == nil {
		cmd = rootCmd
	}
	err = portal.Describe(err)
	if p, perr := portal.FromContext(cmd.Context()); perr == nil {
		p.Printer.Error("%s", utils.Message(err))
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", utils.Message(err))
}

// commandRoute maps the executing command onto the portal route it stands for
func commandRoute(cmd *cobra.Command, slug string) string {
	group := cmd
	for group.HasParent() && group.Parent().HasParent() {
		group = group.Parent()
	}

	switch group.Name() {
	case "auth":
		if cmd.Name() == "login" {
			return route.LoginFor(slug)
		}
	case "admin":
		return route.Landing(models.RoleAdmin, slug)
	case "resident":
		return route.Landing(models.RoleResident, slug)
	case "security":
		return route.Landing(models.RoleGuard, slug)
	case "platform":
		return route.PlatformHome
	}
	return route.Home
}
