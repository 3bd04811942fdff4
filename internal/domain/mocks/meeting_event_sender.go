// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain/models"
)

// MockMeetingEventSender implements MeetingEventSender for testing
type MockMeetingEventSender struct {
	mock.Mock
}

func (m *MockMeetingEventSender) SendMeetingCreated(ctx context.Context, data models.MeetingCreatedMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMeetingEventSender) SendMeetingEnded(ctx context.Context, data models.MeetingEndedMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMeetingEventSender) SendRecordingUpdated(ctx context.Context, data models.RecordingUpdatedMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}
