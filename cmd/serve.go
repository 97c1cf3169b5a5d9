package cmd

import (
	"github.com/spf13/cobra"

	"gitlab.grandhoo.com/rock/rock_cfd/base/config"
	"gitlab.grandhoo.com/rock/rock_cfd/server"
)

var servePort uint32

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the http server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		port := config.All.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		return server.Run(port)
	},
}

func init() {
	serveCmd.Flags().Uint32Var(&servePort, "port", 0, "listen port, falls back to the next free one")
}
