package app

import (
	"github.com/spf13/cobra"

	"github.com/GoAdminBase/GoAdminBase/internal/config"
	"github.com/GoAdminBase/GoAdminBase/internal/daemon"
	"github.com/GoAdminBase/GoAdminBase/internal/logger"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().StringVarP(&configPath, "config", "c", "./etc/", "Path to the configuration directory")
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	rootCmd.AddCommand(startCmd)
}

var (
	configPath string
	devMode    bool

	cfg config.Config
	err error

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the GoAdminBase web service",
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}

			if devMode {
				cfg.DevMode = true
			}

			if err = logger.Init(cfg.Log); err != nil {
				panic(err)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			d := daemon.New(&cfg)

			go d.WaitShutdown()

			return d.Start()
		},
	}
)
