// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain/models"
)

// Message is a request received on one of the service subjects.
type Message interface {
	Subject() string
	Data() []byte
	// RequestID is the correlation ID set by the publisher, or "".
	RequestID() string
	// HasReply reports whether the publisher waits for an answer.
	HasReply() bool
	Respond(data []byte) error
}

// MessageHandler answers requests. HandlerReady gates the readiness probe.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// MeetingEventSender publishes meeting and recording lifecycle events.
type MeetingEventSender interface {
	SendMeetingCreated(ctx context.Context, data models.MeetingCreatedMessage) error
	SendMeetingEnded(ctx context.Context, data models.MeetingEndedMessage) error
	SendRecordingUpdated(ctx context.Context, data models.RecordingUpdatedMessage) error
}
