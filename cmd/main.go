package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sm8ta/webike_bike_registry/internal/adapter/handler/cli"
	"github.com/sm8ta/webike_bike_registry/internal/app"
	"github.com/sm8ta/webike_bike_registry/internal/config"
	"github.com/sm8ta/webike_bike_registry/internal/core/ports"
)

// @title Bike Registry API
// @version 1.0
// @description Register bikes by frame number and edit their details

// @host localhost:8081
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:          "bikeform",
		Short:        "Bike registry",
		Long:         `Keeps one record per bike, keyed by frame number, in Postgres or SQLite.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.FormCmd(bootstrap))
	rootCmd.AddCommand(cli.ShowCmd(bootstrap))
	rootCmd.AddCommand(cli.SaveCmd(bootstrap))
	rootCmd.AddCommand(cli.ServeCmd(serve))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bootstrap(ctx context.Context) (ports.BikeService, func(), error) {
	// Loading environment
	cfg, err := config.New()
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create app: %w", err)
	}

	closeFn := func() {
		_ = application.Stop(context.Background())
	}
	return application.BikeService, closeFn, nil
}

func serve(ctx context.Context) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	if _, err := application.Router(); err != nil {
		_ = application.Stop(ctx)
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Run()
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-stop:
	case runErr = <-errCh:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := application.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop app: %w", err)
	}
	return runErr
}
