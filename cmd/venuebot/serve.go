package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Loads the city directory, then serves the bot over HTTP until interrupted.
The directory is refreshed in the background at the configured interval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bot, err := loadBot(cmd)
		if err != nil {
			return err
		}
		defer bot.Close()

		if err := bot.Config.RequireToken(); err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			bot.Config.HTTP.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		bot.Start(ctx)

		srv := &http.Server{
			Addr:              bot.Config.HTTP.Addr,
			Handler:           bot.HTTPHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return bot.RunRefresher(gctx)
		})
		g.Go(func() error {
			bot.Logger.Info("http server listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), bot.Config.HTTP.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				bot.Logger.Warn("graceful shutdown did not complete", "timeout", bot.Config.HTTP.ShutdownTimeout, "err", err)
				return srv.Close()
			}
			bot.Logger.Info("http server stopped")
			return nil
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (overrides http.addr)")
}
