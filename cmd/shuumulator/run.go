package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/camuig/shuumulator/internal/scheduler"
)

func newRunCmd(configPath *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one trading cycle if the market is open",
		Long: `Run one trading cycle. Intended to be called from cron; the cycle is
skipped outside Tokyo Stock Exchange trading hours unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			now := time.Now().In(a.cfg.TokyoLocation())
			a.log.Info("run at", "jst", now.Format(time.RFC3339))
			if !force && !scheduler.MarketOpen(now) {
				a.log.Info("market is closed")
				return nil
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.log.Info("shuumulator started", "utc", time.Now().UTC().Format(time.RFC3339))
			_, err = a.simulator().RunCycle(ctx)
			a.log.Info("shuumulator finished", "utc", time.Now().UTC().Format(time.RFC3339))
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "run even when the market is closed")
	return cmd
}
