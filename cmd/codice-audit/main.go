package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	serve := newServeCmd(g)
	root := &cobra.Command{
		Use:          "codice-audit",
		Short:        "CÓDICE digital-presence audit service",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "Dotenv file loaded before reading the environment")
	root.Flags().AddFlagSet(serve.Flags())
	root.AddCommand(serve, newScoreCmd())
	return root
}
