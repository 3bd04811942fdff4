// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the conferencing service that answers BigBlueButton
// requests over NATS and publishes meeting lifecycle events.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/handlers"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/infrastructure/bbb/api"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/infrastructure/documents"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-bbb-service/pkg/utils"
)

func main() {
	env, err := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	if err != nil {
		slog.With(logging.ErrKey, err).Error("invalid configuration")
		os.Exit(1)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up OpenTelemetry")
		return
	}

	// Setup NATS connection
	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		_ = otelShutdown(context.Background())
		return
	}

	client := setupConferencingClient(ctx, env, setupGrantor(env, natsConn))

	// Initialize services
	serviceConfig := service.ServiceConfig{
		AutocloseLogoutURL: env.Meetings.AutocloseLogoutURL,
		RecordingEnabled:   env.Meetings.RecordingEnabled,
		RecordingReadyURL:  env.Meetings.RecordingReadyURL,
		RecordingFormats:   models.NewRecordingFormatFilter(env.Meetings.RecordingFormatWhitelist),
	}
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	conferencingService := service.NewConferencingService(client, messageBuilder, serviceConfig)

	// Initialize handlers
	conferencingHandler := handlers.NewConferencingHandler(conferencingService)

	httpServer := setupHTTPServer(flags, natsConn, conferencingHandler, &gracefulCloseWG)

	// Create NATS subscriptions for the service.
	err = createNatsSubcriptions(ctx, conferencingHandler, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
		return
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, &gracefulCloseWG, cancel, otelShutdown)
}

// setupGrantor selects how presentation documents are made readable by the
// conferencing server.
func setupGrantor(env environment, natsConn *nats.Conn) domain.DocumentAccessGrantor {
	if env.DocumentsGrantEnabled {
		return documents.NewNATSGrantor(natsConn, documents.DefaultRequestTimeout)
	}
	slog.Info("document grants disabled, meetings are created without presentations")
	return documents.NewNoOpGrantor()
}

// setupConferencingClient builds the conferencing server client. A pinned
// BBB_API_VERSION skips detection. A failed detection keeps the current
// profile so that the service still starts while the server is down.
func setupConferencingClient(ctx context.Context, env environment, grantor domain.DocumentAccessGrantor) *api.Client {
	client := api.NewClient(api.Config{
		BaseURL:                  env.BBB.URL,
		Secret:                   env.BBB.Secret,
		AllowUnsigned:            env.BBB.AllowUnsigned,
		Timeout:                  env.BBB.Timeout,
		PreuploadPresentation:    env.BBB.PreuploadPresentation,
		RecordingPageConcurrency: env.BBB.RecordingPageConcurrency,
		Grantor:                  grantor,
	})

	if env.BBB.APIVersion != "" {
		profile := api.ProfileFor(env.BBB.APIVersion)
		slog.With("version", env.BBB.APIVersion, "profile", profile.Name).Info("using configured conferencing server version")
		return client.WithProfile(profile)
	}

	detectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	detected, _, err := client.Detect(detectCtx)
	if err != nil {
		slog.With(logging.ErrKey, err, "profile", client.Profile().Name).
			Warn("could not detect conferencing server version, using default profile")
		return client
	}
	return detected
}

// gracefulShutdown stops the HTTP server, drains NATS and flushes telemetry.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc, otelShutdown func(context.Context) error) {
	slog.Info("shutting down")
	// Cancelled first so the NATS closed handler knows this is expected.
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer shutdownCancel()

	go func() {
		defer gracefulCloseWG.Done()
		if err := httpServer.Shutdown(ctx); err != nil {
			slog.With(logging.ErrKey, err).Error("http shutdown error")
		}
	}()

	go func() {
		defer gracefulCloseWG.Done()
		if natsConn.IsClosed() {
			return
		}
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
			natsConn.Close()
			return
		}
		for !natsConn.IsClosed() {
			select {
			case <-ctx.Done():
				natsConn.Close()
				return
			case <-time.After(100 * time.Millisecond):
			}
		}
	}()

	gracefulCloseWG.Wait()

	if err := otelShutdown(context.Background()); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down OpenTelemetry")
	}
	slog.Info("graceful shutdown complete")
}
