package main

import (
	"errors"
	"fmt"
	"io"

	"linkedin-autoconnect/internal/config"
	"linkedin-autoconnect/internal/storage"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/spf13/cobra"
)

var errSetupIncomplete = errors.New("setup incomplete, fix the issues above")

type checker struct {
	out      io.Writer
	load     func() (*config.Config, error)
	lookPath func() (string, bool)
	ping     func(cfg *config.Config) error
}

func newCheckCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify configuration, browser and storage setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := checker{
				out:      cmd.OutOrStdout(),
				load:     func() (*config.Config, error) { return config.Load(*cfgFile) },
				lookPath: launcher.LookPath,
				ping:     pingMongo,
			}
			if !c.run() {
				return errSetupIncomplete
			}
			return nil
		},
	}
}

func pingMongo(cfg *config.Config) error {
	db, err := storage.New(&storage.Config{
		URI:      cfg.Storage.MongoDB.URI,
		Database: cfg.Storage.MongoDB.Database,
		Timeout:  cfg.MongoTimeout(),
	})
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Ping()
}

func (c checker) run() bool {
	fmt.Fprintln(c.out, "Checking configuration...")
	cfg, err := c.load()
	if err != nil {
		fmt.Fprintf(c.out, "✗ %v\n", err)
		return false
	}
	fmt.Fprintln(c.out, "✓ configuration is readable and credentials are set")
	fmt.Fprintf(c.out, "  - Max invites per day: %d\n", cfg.Limits.MaxInvitesPerDay)
	fmt.Fprintf(c.out, "  - Search keyword: %s\n", cfg.Search.Keyword)
	fmt.Fprintf(c.out, "  - Search location: %s (not applied to the query)\n", cfg.Search.Location)
	fmt.Fprintf(c.out, "  - Headless: %t, wait time: %s\n", cfg.Browser.Headless, cfg.WaitTimeout())

	fmt.Fprintln(c.out, "Checking browser...")
	if cfg.Browser.Bin != "" {
		fmt.Fprintf(c.out, "✓ using configured browser %s\n", cfg.Browser.Bin)
	} else if path, has := c.lookPath(); has {
		fmt.Fprintf(c.out, "✓ browser found at %s\n", path)
	} else {
		fmt.Fprintln(c.out, "! no local browser found, Chromium will be downloaded on first run")
	}

	if cfg.Storage.MongoDB.URI == "" {
		fmt.Fprintln(c.out, "Activity log disabled (MONGODB_URI not set)")
		return true
	}

	fmt.Fprintln(c.out, "Checking MongoDB...")
	if err := c.ping(cfg); err != nil {
		fmt.Fprintf(c.out, "✗ %v\n", err)
		return false
	}
	fmt.Fprintln(c.out, "✓ MongoDB reachable")
	return true
}
