// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"flag"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-bbb-service/pkg/utils"
)

// flags are the command line flags for the bbb service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the bbb service.
type environment struct {
	Port                  string
	NatsURL               string
	DocumentsGrantEnabled bool
	BBB                   bbbConfig
	Meetings              meetingsConfig
}

// bbbConfig holds the conferencing server connection settings.
type bbbConfig struct {
	URL                      string
	Secret                   string
	APIVersion               string
	Timeout                  time.Duration
	AllowUnsigned            bool
	PreuploadPresentation    bool
	RecordingPageConcurrency int
}

// meetingsConfig holds the meeting and recording policy.
type meetingsConfig struct {
	AutocloseLogoutURL       string
	RecordingEnabled         bool
	RecordingReadyURL        string
	RecordingFormatWhitelist string
}

// parseFlags parses command line flags for the bbb service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the bbb service
func parseEnv() (environment, error) {
	bbb, err := parseBBBConfig()
	if err != nil {
		return environment{}, err
	}

	return environment{
		Port:                  utils.EnvOrDefault("PORT", "8080"),
		NatsURL:               utils.EnvOrDefault("NATS_URL", "nats://localhost:4222"),
		DocumentsGrantEnabled: utils.EnvFlag("DOCUMENTS_GRANT_ENABLED"),
		BBB:                   bbb,
		Meetings: meetingsConfig{
			AutocloseLogoutURL:       os.Getenv("BBB_AUTOCLOSE_LOGOUT_URL"),
			RecordingEnabled:         os.Getenv("BBB_RECORDING_ENABLED") != "false",
			RecordingReadyURL:        os.Getenv("BBB_RECORDING_READY_URL"),
			RecordingFormatWhitelist: os.Getenv("BBB_RECORDING_FORMAT_WHITELIST"),
		},
	}, nil
}

// parseBBBConfig parses the conferencing server settings. The URL is
// required, and so is the secret unless unsigned requests are allowed.
func parseBBBConfig() (bbbConfig, error) {
	cfg := bbbConfig{
		URL:                   os.Getenv("BBB_URL"),
		Secret:                os.Getenv("BBB_SECRET"),
		APIVersion:            strings.TrimSpace(os.Getenv("BBB_API_VERSION")),
		AllowUnsigned:         utils.EnvFlag("BBB_ALLOW_UNSIGNED"),
		PreuploadPresentation: utils.EnvFlag("BBB_PREUPLOAD_PRESENTATION"),
	}

	if cfg.URL == "" {
		return bbbConfig{}, errors.New("BBB_URL environment variable is required but not set")
	}
	if u, err := url.Parse(cfg.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return bbbConfig{}, errors.New("BBB_URL must be an absolute URL")
	}
	if cfg.Secret == "" && !cfg.AllowUnsigned {
		return bbbConfig{}, errors.New("BBB_SECRET environment variable is required unless BBB_ALLOW_UNSIGNED is true")
	}

	if timeout, ok := utils.EnvDuration("BBB_TIMEOUT"); ok {
		cfg.Timeout = timeout
	} else if raw := os.Getenv("BBB_TIMEOUT"); raw != "" {
		slog.With("value", raw).Warn("invalid BBB_TIMEOUT provided, using default")
	}

	if concurrency, ok := utils.EnvPositiveInt("BBB_RECORDING_PAGE_CONCURRENCY"); ok {
		cfg.RecordingPageConcurrency = concurrency
	} else if raw := os.Getenv("BBB_RECORDING_PAGE_CONCURRENCY"); raw != "" {
		slog.With("value", raw).Warn("invalid BBB_RECORDING_PAGE_CONCURRENCY provided, using default")
	}

	return cfg, nil
}
