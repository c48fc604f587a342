package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cadencehq/cadence/pkg/actions"
	"github.com/cadencehq/cadence/pkg/api"
	"github.com/cadencehq/cadence/pkg/assist"
	"github.com/cadencehq/cadence/pkg/calibrator"
	"github.com/cadencehq/cadence/pkg/config"
	"github.com/cadencehq/cadence/pkg/events"
	"github.com/cadencehq/cadence/pkg/log"
	"github.com/cadencehq/cadence/pkg/mode"
	"github.com/cadencehq/cadence/pkg/projector"
	"github.com/cadencehq/cadence/pkg/reconciler"
	"github.com/cadencehq/cadence/pkg/scheduler"
	"github.com/cadencehq/cadence/pkg/storage"
	"github.com/cadencehq/cadence/pkg/types"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the plan engine daemon",
	Long: `Run the plan engine daemon in the foreground.

The daemon regenerates the daily plan on a coarse cadence, evaluates
reminder bands on a fine cadence, and serves the local HTTP API used
by the other commands and the widget.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		return runDaemon(configPath)
	},
}

func init() {
	daemonCmd.Flags().String("config", "", "Path to YAML config file")
}

func runDaemon(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	log.Init(log.Config{Level: log.Level(cfg.LogLevel)})
	logger := log.WithComponent("daemon")
	logger.Info().
		Str("version", Version).
		Str("data_dir", cfg.DataDir).
		Str("listen_addr", cfg.ListenAddr).
		Msg("Starting cadence daemon")

	store, err := storage.NewBoltStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open store: %v", err)
	}
	defer store.Close()

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	handler := actions.NewHandler(store, broker, 0)
	handler.Start()
	defer handler.Stop()

	anchors := config.NewStaticAnchors(cfg.Anchors, time.Local)
	recon := reconciler.NewReconciler(store, anchors, broker)
	calib := calibrator.NewCalibrator(store, broker)
	proj := projector.NewProjector(store)
	modeEval := mode.NewEvaluator(store, broker, mode.Policy{
		OverdueCoreThreshold: cfg.Recovery.OverdueCoreThreshold,
	})
	injector := assist.NewInjector(store, broker)

	// Seed today's plan before the first API request can land.
	if _, err := recon.Reconcile(time.Now().Format(types.DateFormat)); err != nil {
		return fmt.Errorf("initial reconcile failed: %v", err)
	}

	sched := scheduler.NewScheduler()
	sched.Register("regenerate", cfg.Cadences.Regenerate, func(now time.Time) error {
		_, err := recon.Reconcile(now.Format(types.DateFormat))
		return err
	})
	sched.Register("calibrate", cfg.Cadences.Calibrate, func(now time.Time) error {
		if _, err := calib.Evaluate(now); err != nil {
			return err
		}
		if _, err := modeEval.Refresh(now.Format(types.DateFormat), now); err != nil {
			return err
		}
		_, err := proj.Project(now)
		return err
	})
	sched.Start()
	defer sched.Stop()

	apiServer := api.NewServer(store, proj, handler, injector)
	errCh := make(chan error, 1)
	go func() {
		if err := apiServer.Start(cfg.ListenAddr); err != nil {
			errCh <- fmt.Errorf("API server error: %v", err)
		}
	}()
	defer apiServer.Stop()

	logger.Info().Str("addr", cfg.ListenAddr).Msg("Daemon is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-errCh:
		return err
	}

	return nil
}
