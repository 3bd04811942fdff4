// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-bbb-service/pkg/constants"
)

// NatsMessage adapts a received NATS message to domain.Message.
type NatsMessage struct {
	*nats.Msg
}

var _ domain.Message = (*NatsMessage)(nil)

// NewNatsMessage wraps msg.
func NewNatsMessage(msg *nats.Msg) *NatsMessage {
	return &NatsMessage{Msg: msg}
}

func (m *NatsMessage) Subject() string {
	return m.Msg.Subject
}

func (m *NatsMessage) Data() []byte {
	return m.Msg.Data
}

func (m *NatsMessage) Respond(data []byte) error {
	return m.Msg.Respond(data)
}

func (m *NatsMessage) HasReply() bool {
	return m.Msg.Reply != ""
}

// RequestID returns the request ID header set by the publisher, if any.
func (m *NatsMessage) RequestID() string {
	if m.Msg.Header == nil {
		return ""
	}
	return m.Msg.Header.Get(constants.RequestIDHeader)
}
