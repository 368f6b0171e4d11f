package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/camuig/shuumulator/internal/report"
)

func newReportCmd(configPath *string) *cobra.Command {
	var notify bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print completed trades as CSV followed by a performance summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			a.log.Info("listing completed trades", "user_id", a.cfg.Trading.UserID)
			rep, err := report.Build(cmd.Context(), a.repo, a.cfg.Trading.UserID)
			if err != nil {
				return err
			}

			if err := report.Render(cmd.OutOrStdout(), rep); err != nil {
				return fmt.Errorf("render report: %w", err)
			}
			if notify {
				a.notifier.NotifyReport(rep.Summary.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&notify, "notify", false, "also send the summary to Telegram")
	return cmd
}
