package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/riskmanagement123/loansim"
	"github.com/riskmanagement123/loansim/internal/httpapi"
	"github.com/riskmanagement123/loansim/internal/obs"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		metrics := obs.NewMetrics()
		engine, err := newEngine(metrics)
		if err != nil {
			return err
		}
		loanType, err := loansim.ParseLoanType(appConfig.Engine.DefaultLoanType)
		if err != nil {
			return err
		}
		strategy, err := loansim.ParseStrategy(appConfig.Engine.DefaultStrategy)
		if err != nil {
			return err
		}
		hc := appConfig.HTTP
		if serveAddr != "" {
			hc.Addr = serveAddr
		}

		api := httpapi.New(engine, logger, metrics, httpapi.Options{
			DefaultLoanType: loanType,
			DefaultStrategy: strategy,
			MaxBodyBytes:    hc.MaxBodyBytes,
			RatePerSecond:   hc.RatePerSecond,
			RateBurst:       hc.RateBurst,
			TrustProxy:      hc.TrustProxy,
			Version:         Version,
		})

		server := &http.Server{
			Addr:         hc.Addr,
			Handler:      api.Handler(),
			ReadTimeout:  hc.ReadTimeout,
			WriteTimeout: hc.WriteTimeout,
		}

		serverErr := make(chan error, 1)
		go func() {
			logger.WithField("addr", hc.Addr).Info("http server listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err := <-serverErr:
			return err
		case <-quit:
			logger.Info("shutting down server")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			return err
		}
		logger.Info("server exited")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
