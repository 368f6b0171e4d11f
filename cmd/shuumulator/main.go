package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "shuumulator",
		Short: "Paper-trading simulator for watched stocks",
		Long: `shuumulator fetches current prices for watched stocks, opens and closes
simulated positions using a profit booking rate and a derived loss cut rate,
and reports the performance of completed trades.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	rootCmd.AddCommand(newRunCmd(&configPath))
	rootCmd.AddCommand(newDaemonCmd(&configPath))
	rootCmd.AddCommand(newReportCmd(&configPath))
	rootCmd.AddCommand(newCloseAllCmd(&configPath))
	rootCmd.AddCommand(newServeCmd(&configPath))
	rootCmd.AddCommand(newStocksCmd(&configPath))

	return rootCmd
}
