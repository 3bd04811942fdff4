// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/infrastructure/bbb/xmlvalue"
)

// MockConferencingClient implements ConferencingClient for testing
type MockConferencingClient struct {
	mock.Mock
}

func (m *MockConferencingClient) mapResult(args mock.Arguments) (*xmlvalue.Map, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*xmlvalue.Map), args.Error(1)
}

func (m *MockConferencingClient) Create(ctx context.Context, req *models.MeetingRequest) (*xmlvalue.Map, error) {
	return m.mapResult(m.Called(ctx, req))
}

func (m *MockConferencingClient) IsMeetingRunning(ctx context.Context, meetingID string) (bool, error) {
	args := m.Called(ctx, meetingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockConferencingClient) GetMeetingInfo(ctx context.Context, meetingID, password string) (*xmlvalue.Map, error) {
	return m.mapResult(m.Called(ctx, meetingID, password))
}

func (m *MockConferencingClient) GetMeetings(ctx context.Context) (*xmlvalue.Map, error) {
	return m.mapResult(m.Called(ctx))
}

func (m *MockConferencingClient) End(ctx context.Context, meetingID, password string) error {
	args := m.Called(ctx, meetingID, password)
	return args.Error(0)
}

func (m *MockConferencingClient) GetRecordings(ctx context.Context, meetingIDs []string) (*xmlvalue.Map, error) {
	return m.mapResult(m.Called(ctx, meetingIDs))
}

func (m *MockConferencingClient) GetAllRecordings(ctx context.Context) (*xmlvalue.Map, error) {
	return m.mapResult(m.Called(ctx))
}

func (m *MockConferencingClient) PublishRecordings(ctx context.Context, recordID string, publish bool) error {
	args := m.Called(ctx, recordID, publish)
	return args.Error(0)
}

func (m *MockConferencingClient) ProtectRecordings(ctx context.Context, recordID string, protect bool) error {
	args := m.Called(ctx, recordID, protect)
	return args.Error(0)
}

func (m *MockConferencingClient) DeleteRecordings(ctx context.Context, recordID string) error {
	args := m.Called(ctx, recordID)
	return args.Error(0)
}

func (m *MockConferencingClient) JoinURL(meetingID, userID, fullName, password string) (string, error) {
	args := m.Called(meetingID, userID, fullName, password)
	return args.String(0), args.Error(1)
}

func (m *MockConferencingClient) GetVersion(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
