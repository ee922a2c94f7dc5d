// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the agriwatch command line interface.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vorlif/spreak"

	"github.com/wneessen/agriwatch/internal/config"
	"github.com/wneessen/agriwatch/internal/i18n"
	"github.com/wneessen/agriwatch/internal/logger"
	"github.com/wneessen/agriwatch/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app bundles what every subcommand needs.
type app struct {
	conf *config.Config
	log  *logger.Logger
	lang *spreak.Localizer
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	var confPath string
	rootCmd := &cobra.Command{
		Use:           "agriwatch",
		Short:         "Weather and agricultural risk monitoring for regions and their counties",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&confPath, "config", "c", "", "path to the config file")

	setup := func() (*app, error) {
		return newApp(confPath)
	}
	rootCmd.AddCommand(serveCmd(setup))
	rootCmd.AddCommand(reportCmd(setup))
	rootCmd.AddCommand(regionalCmd(setup))
	rootCmd.AddCommand(fieldCmd(setup))
	rootCmd.AddCommand(seriesCmd(setup))
	rootCmd.AddCommand(placesCmd(setup))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.New(slog.LevelError).Error("agriwatch failed", logger.Err(err))
		cancel()
		os.Exit(1)
	}
}

func newApp(confPath string) (*app, error) {
	conf, err := config.Load(confPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(conf.LogLevel)
	lang, err := i18n.New(conf.Locale)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize localizer: %w", err)
	}
	return &app{conf: conf, log: log, lang: lang}, nil
}

func (a *app) service(opts ...service.Option) (*service.Service, error) {
	serv, err := service.New(a.conf, a.log, a.lang, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize agriwatch service: %w", err)
	}
	return serv, nil
}
