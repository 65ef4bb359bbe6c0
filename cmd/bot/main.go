package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"linkedin-autoconnect/internal/bot"
	"linkedin-autoconnect/internal/config"
	"linkedin-autoconnect/internal/storage"
	"linkedin-autoconnect/pkg/logger"

	"github.com/spf13/cobra"
)

func newLogger(cfg *config.Config) logger.Logger {
	return logger.New(logger.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}

func openActivityLog(cfg *config.Config, log logger.Logger) (bot.ActivityLog, func()) {
	mongoCfg := cfg.Storage.MongoDB
	if mongoCfg.URI == "" {
		return storage.Nop{}, func() {}
	}

	db, err := storage.New(&storage.Config{
		URI:      mongoCfg.URI,
		Database: mongoCfg.Database,
		Timeout:  cfg.MongoTimeout(),
	})
	if err != nil {
		log.Warn("activity log disabled", "error", err)
		return storage.Nop{}, func() {}
	}

	log.Info("recording activity to MongoDB", "database", mongoCfg.Database)
	return db, func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close MongoDB", "error", err)
		}
	}
}

func run(cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	activity, closeActivity := openActivityLog(cfg, log)
	defer closeActivity()

	session := bot.NewSession(cfg, bot.NewBrowserLauncher(cfg, log), activity, log)
	res := session.Run(ctx)
	log.Info("run finished", "state", res.Reached.String(), "sent", res.Sent, "found", res.Report.Found)

	return nil
}

func main() {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:          "linkedin-autoconnect",
		Short:        "Send LinkedIn connection requests to people-search results",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfgFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional YAML config file; environment variables take precedence")

	rootCmd.AddCommand(newCheckCmd(&cfgFile))

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
