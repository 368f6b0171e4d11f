package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newCloseAllCmd(configPath *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "closeall",
		Short: "Close every open position at the current price",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			outcomes, err := a.simulator().CloseAll(ctx, dryRun)
			if len(outcomes) == 0 && err == nil {
				fmt.Fprintln(out, "No open positions.")
				return nil
			}

			var closed, failed int
			for _, o := range outcomes {
				if o.Err != nil {
					fmt.Fprintf(out, "  [FAIL] %s: %v\n", o.Stock.Code, o.Err)
					failed++
					continue
				}
				fmt.Fprintf(out, "  [OK]   %s %s: position %d @ %s\n",
					o.Stock.Code, o.Quote.Name, o.Action.PositionID, o.Action.Price.String())
				closed++
			}

			if dryRun {
				fmt.Fprintln(out, "\nDry run — no positions closed.")
				return nil
			}
			fmt.Fprintf(out, "\nClosed: %d, failed: %d\n", closed, failed)
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show positions without closing")
	return cmd
}
