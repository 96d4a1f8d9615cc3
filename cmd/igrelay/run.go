package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"igrelay/pkg/auth"
	"igrelay/pkg/config"
	"igrelay/pkg/health"
	"igrelay/pkg/instagram"
	"igrelay/pkg/logger"
	"igrelay/pkg/ratelimit"
	"igrelay/pkg/relay"
	"igrelay/pkg/state"
	"igrelay/pkg/telegram"
)

// shutdownGrace bounds how long shutdown waits for an in-flight sync
// pass before giving up and exiting
const shutdownGrace = 30 * time.Second

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the relay daemon",
	Long: `Start the relay daemon: poll the enabled accounts on the configured
interval, deliver new posts to their Telegram chats, answer the /start
command, and serve the liveness endpoint.

The bot token is resolved from the credential store ('igrelay auth
login') or the IGRELAY_BOT_TOKEN / TELEGRAM_BOT_TOKEN environment
variables. The process exits non-zero when no token can be found or the
state file cannot be read.`,
	Run: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, flagOverrides())
	if err != nil {
		logger.GetLogger().WithError(err).Fatal("failed to load configuration")
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		logger.GetLogger().WithError(err).Fatal("failed to initialize logger")
	}
	log := logger.GetLogger()

	log.WithField("version", version).Info("igrelay starting")

	if cfg.Telegram.BotToken == "" {
		manager, err := auth.NewManager()
		if err != nil {
			log.WithError(err).Fatal("failed to initialize credential manager")
		}
		token, err := manager.BotToken()
		if err != nil {
			log.WithError(err).Fatal("missing bot token: run 'igrelay auth login' or set IGRELAY_BOT_TOKEN")
		}
		cfg.Telegram.BotToken = token
	}

	store, err := state.Load(&cfg.State, log)
	if err != nil {
		log.WithError(err).Fatal("failed to load state")
	}

	fetcher := instagram.NewClient(&cfg.Graph, log)
	messenger := telegram.NewClient(&cfg.Telegram, log)
	limiter := ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute)
	engine := relay.NewEngine(store, fetcher, messenger, &cfg.Retry, limiter, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var healthServer *health.Server
	if cfg.Health.Enabled {
		healthServer = health.NewServer(&cfg.Health, log)
		go func() {
			if err := healthServer.Start(); err != nil {
				log.WithError(err).Error("liveness endpoint failed")
			}
		}()
	}

	listener := telegram.NewCommandListener(messenger, log)
	go listener.Run(ctx)

	engineDone := make(chan struct{})
	go func() {
		engine.Run(ctx)
		close(engineDone)
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	// Bounded wait for the in-flight pass
	select {
	case <-engineDone:
	case <-time.After(shutdownGrace):
		log.Warn("sync pass did not finish in time, exiting anyway")
	}

	if healthServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("liveness endpoint shutdown failed")
		}
	}

	log.Info("igrelay stopped")
	os.Exit(0)
}
