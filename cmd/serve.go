package cmd

import (
	"github.com/spf13/cobra"

	"github.com/emrgen/pagebuilder/internal/config"
	"github.com/emrgen/pagebuilder/internal/server"
)

func serveCmd() *cobra.Command {
	var grpcPort string
	var httpPort string

	command := &cobra.Command{
		Use:   "serve",
		Short: "start the grpc and rest servers",
		Run: func(cmd *cobra.Command, args []string) {
			cnf := config.LoadConfig()
			if cmd.Flag("grpc-port").Changed {
				cnf.GrpcPort = grpcPort
			}
			if cmd.Flag("http-port").Changed {
				cnf.HttpPort = httpPort
			}
			config.SetupLogging(cnf)

			server.NewServer(cnf).Start()
		},
	}

	command.Flags().StringVarP(&grpcPort, "grpc-port", "g", "", "grpc port, overrides GRPC_PORT")
	command.Flags().StringVarP(&httpPort, "http-port", "w", "", "http port, overrides HTTP_PORT")

	return command
}
