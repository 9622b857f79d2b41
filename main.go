package main

import (
	"fmt"
	"os"

	"github.com/autoerp/server/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "autoerp",
		Short:         "AutoERP repair shop backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config/config.yaml", "path to the YAML config file")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		return cfg, nil
	}

	root.AddCommand(newServeCmd(load), newMigrateCmd(load), newCreateUserCmd(load))
	return root
}

type configLoader func() (*config.Config, error)
