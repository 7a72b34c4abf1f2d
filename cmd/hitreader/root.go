package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blasthits/hitviewer/src/config"
	"github.com/blasthits/hitviewer/src/logging"
)

// app carries what every subcommand needs once flags and config are resolved.
type app struct {
	v   *viper.Viper
	cfg config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}
	root := &cobra.Command{
		Use:           "hitreader",
		Short:         "Inspect, export and render sample hit files",
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if err := config.ReadFile(a.v, path); err != nil {
				return err
			}
			cfg, err := config.FromViper(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			if !logging.SetLogLevel(cfg.LogLevel) {
				logging.Reader.Warnf("unknown log level %q", cfg.LogLevel)
			}
			return nil
		},
	}
	root.PersistentFlags().String("config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = a.v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newSummaryCmd(a), newExportCmd(a), newRenderCmd(a))
	return root
}
