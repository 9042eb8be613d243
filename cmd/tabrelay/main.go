package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ehrlich-b/tabrelay/internal/config"
	"github.com/ehrlich-b/tabrelay/internal/relay"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "tabrelay [app-id]",
		Short: "Relay browser tab counts to Discord rich presence",
		Long: "Accepts WebSocket connections from the tab counter browser extension on\n" +
			"127.0.0.1 and shows the latest tab count as your Discord status.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				v.Set(config.KeyAppID, args[0])
			}
			cfg, err := config.Resolve(v)
			if err != nil {
				return err
			}
			return runRelay(cmd.Context(), cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default $XDG_CONFIG_HOME/tabrelay/config.yaml)")
	flags.Uint16P("port", "p", relay.DefaultPort, "listening port on 127.0.0.1")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "auto", "auto, text or json")
	flags.String("log-file", "", "also append logs to this file")

	for key, flag := range map[string]string{
		config.KeyConfig:    "config",
		config.KeyPort:      "port",
		config.KeyLogLevel:  "log-level",
		config.KeyLogFormat: "log-format",
		config.KeyLogFile:   "log-file",
	} {
		cobra.CheckErr(v.BindPFlag(key, flags.Lookup(flag)))
	}
	cobra.CheckErr(config.BindEnv(v))

	root.AddCommand(
		statusCmd(v),
		sendCmd(v),
	)
	return root
}
