package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/camuig/shuumulator/internal/scheduler"
	"github.com/camuig/shuumulator/internal/web"
)

func newDaemonCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run trading cycles on an interval and serve the web endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			a.log.Info("starting shuumulator daemon",
				"interval", a.cfg.TradingInterval().String(),
				"profit_booking_rate", a.cfg.Trading.ProfitBookingRate)

			// Context with cancellation
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sched := scheduler.NewScheduler(a.simulator(), a.notifier, a.cfg.TradingInterval(), a.cfg.TokyoLocation(), a.log)
			webServer := web.NewServer(a.repo, a.cfg.Trading.UserID, a.cfg.Web.Port, a.log)

			done := make(chan struct{})
			go func() {
				sched.Run(ctx)
				close(done)
			}()

			go func() {
				if err := webServer.Start(); err != nil {
					a.log.Error("web server error", "error", err)
				}
			}()

			a.notifier.NotifyStatus("🤖 shuumulator started")

			// Wait for shutdown signal
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			a.log.Info("shutdown signal received", "signal", sig.String())

			cancel()
			<-done

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()

			if err := webServer.Shutdown(shutdownCtx); err != nil {
				a.log.Error("web server shutdown error", "error", err)
			}

			a.notifier.NotifyStatus("🛑 shuumulator stopped")
			a.log.Info("shuumulator stopped")
			return nil
		},
	}
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the report and open positions over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			webServer := web.NewServer(a.repo, a.cfg.Trading.UserID, a.cfg.Web.Port, a.log)

			errCh := make(chan error, 1)
			go func() { errCh <- webServer.Start() }()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return webServer.Shutdown(shutdownCtx)
		},
	}
}
