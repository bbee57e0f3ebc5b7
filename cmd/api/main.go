package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/comitanigiacomo/zen-producer/docs"
)

const Version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "zen-producer",
		Short:         "Zen Producer API: gamified tasks with a streaming coach",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}

	serve := newServeCmd()
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newMigrateCmd())
	return root
}

// @title Zen Producer API
// @version 0.1.0
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
