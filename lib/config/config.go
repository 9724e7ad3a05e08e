// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for caseline services.
//
// Configuration comes from two layers. An optional YAML file (pointed
// at by CASELINE_CONFIG or the --config flag) supplies base values;
// CASELINE_* environment variables override individual settings. The
// environment layer exists because deployments inject the platform
// credentials as environment variables — the file is for everything
// that is safe to commit.
//
// Required settings are validated once at startup via Validate; a
// missing credential fails the process before any request is served.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvConfigFile is the environment variable naming the YAML config file.
const EnvConfigFile = "CASELINE_CONFIG"

// Environment variables that override individual settings.
const (
	EnvAPIURL     = "CASELINE_API_URL"
	EnvAppID      = "CASELINE_APP_ID"
	EnvSecret     = "CASELINE_API_SECRET"
	EnvChatDomain = "CASELINE_CHAT_DOMAIN"
	EnvBotUserID  = "CASELINE_BOT_USER"
	EnvListen     = "CASELINE_LISTEN"
)

// Config is the full configuration for a caseline service.
type Config struct {
	// Platform configures the connection to the chat platform.
	Platform PlatformConfig `yaml:"platform"`

	// Server configures the demo backend's own HTTP listener.
	Server ServerConfig `yaml:"server"`
}

// PlatformConfig holds the chat platform credentials and addressing.
type PlatformConfig struct {
	// APIURL is the base URL of the platform's REST API. Required.
	APIURL string `yaml:"api_url"`

	// AppID is the platform application ID. Required. It prefixes
	// every room JID and appears in every issued token.
	AppID string `yaml:"app_id"`

	// Secret is the shared HMAC signing secret. Required.
	Secret string `yaml:"secret"`

	// ChatDomain is the XMPP domain rooms live under (e.g.,
	// "chat.example.com"). Required for room JID derivation.
	ChatDomain string `yaml:"chat_domain"`

	// BotUserID is the platform identifier of an optional chatbot
	// that is granted access to every case room. Empty disables the
	// chatbot grant.
	BotUserID string `yaml:"bot_user_id"`
}

// ServerConfig configures the demo backend's HTTP listener.
type ServerConfig struct {
	// Address is the TCP listen address. Defaults to ":8080".
	Address string `yaml:"address"`
}

// Default returns the default configuration. Defaults exist only for
// settings with a sensible universal value — credentials have none and
// stay empty until the file or environment provides them.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Address: ":8080"},
	}
}

// Load builds the configuration from the optional CASELINE_CONFIG file
// and the CASELINE_* environment variables, then validates it.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(EnvConfigFile))
}

// LoadFile is like Load but takes an explicit file path (from the
// --config flag). An empty path skips the file layer. Environment
// variables are applied on top either way.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnvironment()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvironment overlays CASELINE_* environment variables onto the
// configuration. Set variables win over file values.
func (c *Config) applyEnvironment() {
	setIfPresent(&c.Platform.APIURL, EnvAPIURL)
	setIfPresent(&c.Platform.AppID, EnvAppID)
	setIfPresent(&c.Platform.Secret, EnvSecret)
	setIfPresent(&c.Platform.ChatDomain, EnvChatDomain)
	setIfPresent(&c.Platform.BotUserID, EnvBotUserID)
	setIfPresent(&c.Server.Address, EnvListen)
}

func setIfPresent(target *string, envName string) {
	if value := os.Getenv(envName); value != "" {
		*target = value
	}
}

// Validate checks the configuration for errors. All problems are
// reported at once so a misconfigured deployment is fixed in one pass.
func (c *Config) Validate() error {
	var errs []error

	switch {
	case c.Platform.APIURL == "":
		errs = append(errs, fmt.Errorf("platform.api_url is required (or set %s)", EnvAPIURL))
	default:
		if parsed, err := url.Parse(c.Platform.APIURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
			errs = append(errs, fmt.Errorf("platform.api_url %q is not an absolute URL", c.Platform.APIURL))
		}
	}

	if c.Platform.AppID == "" {
		errs = append(errs, fmt.Errorf("platform.app_id is required (or set %s)", EnvAppID))
	}
	if c.Platform.Secret == "" {
		errs = append(errs, fmt.Errorf("platform.secret is required (or set %s)", EnvSecret))
	}
	if c.Platform.ChatDomain == "" {
		errs = append(errs, fmt.Errorf("platform.chat_domain is required (or set %s)", EnvChatDomain))
	}
	if c.Server.Address == "" {
		errs = append(errs, fmt.Errorf("server.address is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
