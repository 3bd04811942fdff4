// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/logging"
)

const gracefulShutdownSeconds = 25

// setupNATS connects to the NATS server. An unexpected close of the
// connection stops the service.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.Name("lfx-v2-bbb-service"),
		nats.DrainTimeout(gracefulShutdownSeconds*time.Second),
		nats.MaxReconnects(-1),
		nats.ConnectHandler(func(_ *nats.Conn) {
			slog.With("nats_url", env.NatsURL).Info("NATS connection established")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.With(logging.ErrKey, err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			slog.Info("NATS reconnected")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
			} else {
				slog.With(logging.ErrKey, err).Error("async NATS error outside subscription")
			}
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if ctx.Err() != nil {
				// Shutdown in progress, do not trigger another one.
				return
			}
			slog.Error("NATS connection closed unexpectedly")
			done <- os.Interrupt
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", env.NatsURL, err)
	}
	gracefulCloseWG.Add(1)
	return natsConn, nil
}

// createNatsSubcriptions subscribes the handler to every subject it answers.
func createNatsSubcriptions(ctx context.Context, handler domain.MessageHandler, natsConn *nats.Conn) error {
	for _, subject := range models.HandledSubjects {
		_, err := natsConn.QueueSubscribe(subject, models.BBBAPIQueue, func(msg *nats.Msg) {
			handler.HandleMessage(ctx, messaging.NewNatsMessage(msg))
		})
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", subject, err)
		}
		slog.With("subject", subject, "queue", models.BBBAPIQueue).Debug("subscribed to NATS subject")
	}
	return nil
}
