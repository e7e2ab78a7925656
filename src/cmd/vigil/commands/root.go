package commands

import (
	"github.com/spf13/cobra"

	"github.com/vigilnetworks/vigil/src/config"
)

var (
	_config = config.NewDefaultConfig()
)

//RootCmd is the root command for Vigil
var RootCmd = &cobra.Command{
	Use:              "vigil",
	Short:            "masternode governance",
	TraverseChildren: true,
}
