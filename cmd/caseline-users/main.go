// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

// caseline-users is the operator tool for platform account hygiene:
// bulk-deleting chat accounts and minting tokens for manual API calls.
//
//	caseline-users delete <external-id>...
//	caseline-users token [--user <id>]
//
// Configuration is read the same way as the demo backend: YAML file
// via --config or CASELINE_CONFIG, environment variables taking
// precedence.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/caseline-care/caseline/chat"
	"github.com/caseline-care/caseline/lib/config"
	"github.com/caseline-care/caseline/lib/process"
	"github.com/caseline-care/caseline/lib/token"
	"github.com/caseline-care/caseline/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("caseline-users")
		return nil
	}
	if len(os.Args) < 2 {
		printUsage()
		return fmt.Errorf("subcommand required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "delete":
		return runDelete(ctx, os.Args[2:])
	case "token":
		return runToken(os.Args[2:])
	case "--help", "-h", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand %q", os.Args[1])
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `usage: caseline-users <subcommand> [flags]

subcommands:
  delete <external-id>...   delete platform accounts by external ID
  token [--user <id>]       mint a token (client when --user is set,
                            server otherwise) and print it to stdout
`)
}

func runDelete(ctx context.Context, args []string) error {
	var configPath string
	flagSet := pflag.NewFlagSet("caseline-users delete", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to the YAML configuration file")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	externalIDs := flagSet.Args()
	if len(externalIDs) == 0 {
		return fmt.Errorf("delete: at least one external ID required")
	}

	cfg, issuer, err := loadPlatform(configPath)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client, err := chat.NewClient(chat.ClientConfig{
		APIURL: cfg.Platform.APIURL,
		Issuer: issuer,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	// Deletions proceed past individual failures so a bad ID in the
	// middle of a batch does not strand the rest.
	failures := 0
	for _, externalID := range externalIDs {
		result, err := client.DeleteUser(ctx, externalID)
		switch {
		case err != nil:
			logger.Error("deletion failed", "external_id", externalID, "error", err)
			failures++
		case result.Deleted:
			fmt.Printf("deleted %s\n", externalID)
		default:
			fmt.Printf("skipped %s: %s\n", externalID, result.Reason)
		}
	}
	if failures > 0 {
		return fmt.Errorf("delete: %d of %d deletions failed", failures, len(externalIDs))
	}
	return nil
}

func runToken(args []string) error {
	var configPath string
	var userID string
	flagSet := pflag.NewFlagSet("caseline-users token", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to the YAML configuration file")
	flagSet.StringVar(&userID, "user", "", "subject user ID; mints a client token instead of a server token")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return fmt.Errorf("token: unexpected argument: %s", extra[0])
	}

	_, issuer, err := loadPlatform(configPath)
	if err != nil {
		return err
	}

	var signed string
	if userID != "" {
		signed, err = issuer.ClientToken(userID)
	} else {
		signed, err = issuer.ServerToken()
	}
	if err != nil {
		return err
	}
	fmt.Println(signed)
	return nil
}

func loadPlatform(configPath string) (*config.Config, *token.Issuer, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}
	issuer, err := token.NewIssuer(token.IssuerConfig{
		AppID:  cfg.Platform.AppID,
		Secret: []byte(cfg.Platform.Secret),
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, issuer, nil
}
