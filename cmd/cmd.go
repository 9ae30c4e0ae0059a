package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mwendo/coursedl/cmd/api"
	"github.com/mwendo/coursedl/cmd/login"
	"github.com/mwendo/coursedl/cmd/root"
	"github.com/mwendo/coursedl/cmd/version"
)

func GetRootCommand() *cobra.Command {
	rootCMD := root.GetCommand()
	rootCMD.AddCommand(api.GetCommand())
	rootCMD.AddCommand(login.LoginCMD)
	rootCMD.AddCommand(login.LogoutCMD)
	rootCMD.AddCommand(version.VersionCMD)
	return rootCMD
}
