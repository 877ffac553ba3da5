package main

import (
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/trycatch/internal/config"
)

type app struct {
	v      *viper.Viper
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr}
	var configFile string

	cmd := &cobra.Command{
		Use:           "trycatch",
		Short:         "Structured exception handling for Go",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			if cfg.NoColor || !isTerminal(stdout) {
				color.NoColor = true
			}
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is $HOME/.trycatch.yaml)")
	flags.Int(config.KeyCapacity, 0, "maximum number of nested regions")
	flags.String(config.KeyLogLevel, "", "log level (trace, debug, info, warn, error)")
	flags.Bool(config.KeyFaultBridge, true, "convert memory faults into exceptions")
	flags.Bool(config.KeyNoColor, false, "disable colored output")
	for _, key := range []string{config.KeyCapacity, config.KeyLogLevel, config.KeyFaultBridge, config.KeyNoColor} {
		// Only flags set on the command line override env and file values.
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}

	cmd.AddCommand(newDemoCmd(a), newVersionCmd(a))
	return cmd
}
