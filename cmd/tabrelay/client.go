package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ehrlich-b/tabrelay/internal/config"
	"github.com/ehrlich-b/tabrelay/internal/relay"
)

const clientTimeout = 5 * time.Second

func statusCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running relay's last tab count and presence state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Merge(v)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), clientTimeout)
			defer cancel()

			snap, err := relay.FetchStatus(ctx, relay.StatusURL(cfg.Port))
			if err != nil {
				return err
			}
			presenceState := "disconnected"
			if snap.Connected {
				presenceState = "connected"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "last count: %d\npresence:   %s\n", snap.LastSeenCount, presenceState)
			return nil
		},
	}
}

func sendCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "send <count>...",
		Short: "Act as an agent and send tab counts to the running relay",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := parseCounts(args)
			if err != nil {
				return err
			}
			cfg, err := config.Merge(v)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), clientTimeout)
			defer cancel()

			if err := relay.SendCounts(ctx, relay.URL(cfg.Port), counts...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %d count(s)\n", len(counts))
			return nil
		},
	}
}

func parseCounts(args []string) ([]uint32, error) {
	counts := make([]uint32, 0, len(args))
	for _, arg := range args {
		n, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid count %q: %w", arg, err)
		}
		counts = append(counts, uint32(n))
	}
	return counts, nil
}
