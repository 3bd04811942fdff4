// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package documents

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-bbb-service/pkg/constants"
)

type MockNatsRequester struct {
	mock.Mock
}

func (m *MockNatsRequester) RequestMsgWithContext(ctx context.Context, msg *nats.Msg) (*nats.Msg, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nats.Msg), args.Error(1)
}

func replyMsg(t *testing.T, reply models.DocumentAccessReply) *nats.Msg {
	t.Helper()
	data, err := json.Marshal(reply)
	require.NoError(t, err)
	return &nats.Msg{Data: data}
}

func TestNATSGrantor_GrantPublicRead(t *testing.T) {
	tests := []struct {
		name        string
		reply       *nats.Msg
		requestErr  error
		expectedURL string
		expectError bool
	}{
		{
			name:        "granted",
			reply:       &nats.Msg{Data: []byte(`{"url":"https://docs.example.org/public/doc-42"}`)},
			expectedURL: "https://docs.example.org/public/doc-42",
		},
		{
			name:        "refused",
			reply:       &nats.Msg{Data: []byte(`{"error":"document not found"}`)},
			expectError: true,
		},
		{
			name:        "no URL",
			reply:       &nats.Msg{Data: []byte(`{}`)},
			expectError: true,
		},
		{
			name:        "garbage reply",
			reply:       &nats.Msg{Data: []byte(`not json`)},
			expectError: true,
		},
		{
			name:        "no responders",
			requestErr:  nats.ErrNoResponders,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := new(MockNatsRequester)
			conn.On("RequestMsgWithContext", mock.Anything, mock.MatchedBy(func(msg *nats.Msg) bool {
				var req models.DocumentAccessRequest
				return msg.Subject == models.GrantDocumentAccessSubject &&
					json.Unmarshal(msg.Data, &req) == nil && req.Reference == "doc-42"
			})).Return(tt.reply, tt.requestErr)

			url, err := NewNATSGrantor(conn, 0).GrantPublicRead(context.Background(), "doc-42")

			if tt.expectError {
				assert.Error(t, err)
				assert.Empty(t, url)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedURL, url)
			}
			if tt.requestErr != nil {
				assert.ErrorIs(t, err, tt.requestErr)
			}
			conn.AssertExpectations(t)
		})
	}
}

func TestNATSGrantor_RevokePublicRead(t *testing.T) {
	conn := new(MockNatsRequester)
	conn.On("RequestMsgWithContext", mock.Anything, mock.MatchedBy(func(msg *nats.Msg) bool {
		return msg.Subject == models.RevokeDocumentAccessSubject
	})).Return(replyMsg(t, models.DocumentAccessReply{}), nil)

	require.NoError(t, NewNATSGrantor(conn, time.Second).RevokePublicRead(context.Background(), "doc-42"))
	conn.AssertExpectations(t)
}

func TestNATSGrantor_RequestIDAndTimeout(t *testing.T) {
	conn := new(MockNatsRequester)
	var sent *nats.Msg
	var deadline time.Time
	conn.On("RequestMsgWithContext", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			deadline, _ = args.Get(0).(context.Context).Deadline()
			sent = args.Get(1).(*nats.Msg)
		}).
		Return(replyMsg(t, models.DocumentAccessReply{URL: "https://docs.example.org/x"}), nil)

	grantor := NewNATSGrantor(conn, 2*time.Second)

	ctx := context.WithValue(context.Background(), constants.RequestIDContextID, "req-1")
	_, err := grantor.GrantPublicRead(ctx, "doc-42")
	require.NoError(t, err)
	assert.Equal(t, "req-1", sent.Header.Get(constants.RequestIDHeader))
	assert.WithinDuration(t, time.Now().Add(2*time.Second), deadline, time.Second)

	_, err = grantor.GrantPublicRead(context.Background(), "doc-42")
	require.NoError(t, err)
	_, err = uuid.Parse(sent.Header.Get(constants.RequestIDHeader))
	assert.NoError(t, err)
}

func TestNATSGrantor_EmptyReference(t *testing.T) {
	conn := new(MockNatsRequester)

	_, err := NewNATSGrantor(conn, 0).GrantPublicRead(context.Background(), " ")

	assert.Error(t, err)
	conn.AssertNotCalled(t, "RequestMsgWithContext", mock.Anything, mock.Anything)
}

func TestNoOpGrantor(t *testing.T) {
	g := NewNoOpGrantor()

	url, err := g.GrantPublicRead(context.Background(), "doc-42")
	assert.True(t, errors.Is(err, ErrGrantDisabled))
	assert.Empty(t, url)
	assert.NoError(t, g.RevokePublicRead(context.Background(), "doc-42"))
}
