// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/logging"
)

// INatsConn is a NATS connection interface needed for the [MessageBuilder].
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder is the builder for the message and sends it to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

var _ domain.MeetingEventSender = (*MessageBuilder)(nil)

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// sendMessage sends the message to the NATS server.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// sendEvent marshals an event payload and publishes it.
func (m *MessageBuilder) sendEvent(ctx context.Context, subject string, data any) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}
	return m.sendMessage(ctx, subject, dataBytes)
}

// SendMeetingCreated sends the message to the NATS server for a created meeting.
func (m *MessageBuilder) SendMeetingCreated(ctx context.Context, data models.MeetingCreatedMessage) error {
	return m.sendEvent(ctx, models.MeetingCreatedSubject, data)
}

// SendMeetingEnded sends the message to the NATS server for an ended meeting.
func (m *MessageBuilder) SendMeetingEnded(ctx context.Context, data models.MeetingEndedMessage) error {
	return m.sendEvent(ctx, models.MeetingEndedSubject, data)
}

// SendRecordingUpdated sends the message to the NATS server for a recording change.
func (m *MessageBuilder) SendRecordingUpdated(ctx context.Context, data models.RecordingUpdatedMessage) error {
	return m.sendEvent(ctx, models.RecordingUpdatedSubject, data)
}
