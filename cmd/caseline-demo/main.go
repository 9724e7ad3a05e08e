// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caseline-care/caseline/casework"
	"github.com/caseline-care/caseline/chat"
	"github.com/caseline-care/caseline/lib/config"
	"github.com/caseline-care/caseline/lib/process"
	"github.com/caseline-care/caseline/lib/service"
	"github.com/caseline-care/caseline/lib/token"
	"github.com/caseline-care/caseline/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var configPath string
	var showVersion bool
	flag.StringVar(&configPath, "config", "", "path to the YAML configuration file")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		version.Print("caseline-demo")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	issuer, err := token.NewIssuer(token.IssuerConfig{
		AppID:  cfg.Platform.AppID,
		Secret: []byte(cfg.Platform.Secret),
	})
	if err != nil {
		return err
	}

	client, err := chat.NewClient(chat.ClientConfig{
		APIURL: cfg.Platform.APIURL,
		Issuer: issuer,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	orchestrator, err := casework.NewOrchestrator(casework.OrchestratorConfig{
		Client:     client,
		AppID:      cfg.Platform.AppID,
		ChatDomain: cfg.Platform.ChatDomain,
		BotUserID:  cfg.Platform.BotUserID,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	server := &demoServer{
		orchestrator: orchestrator,
		issuer:       issuer,
		logger:       logger,
	}

	httpServer := service.NewHTTPServer(service.HTTPServerConfig{
		Address: cfg.Server.Address,
		Handler: server.handler(),
		Logger:  logger,
	})

	httpDone := make(chan error, 1)
	go func() {
		httpDone <- httpServer.Serve(ctx)
	}()

	select {
	case <-httpServer.Ready():
		logger.Info("caseline demo backend running",
			"address", httpServer.Addr().String(),
			"app_id", cfg.Platform.AppID,
			"chat_domain", cfg.Platform.ChatDomain,
		)
	case err := <-httpDone:
		return fmt.Errorf("http server failed to start: %w", err)
	}

	<-ctx.Done()
	return <-httpDone
}
