// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain"
)

var _ domain.Message = (*MockMessage)(nil)

// MockMessage is a request with a fixed subject and payload. Reply handling
// goes through the embedded mock.
type MockMessage struct {
	mock.Mock
	subject   string
	data      []byte
	requestID string
}

// NewMockMessage returns a message carrying data on subject.
func NewMockMessage(data []byte, subject string) *MockMessage {
	return &MockMessage{subject: subject, data: data}
}

// WithRequestID sets the correlation ID returned by RequestID.
func (m *MockMessage) WithRequestID(id string) *MockMessage {
	m.requestID = id
	return m
}

// ExpectReply marks the message as awaiting a reply and returns a pointer
// that holds the response once Respond is called.
func (m *MockMessage) ExpectReply() *[]byte {
	var response []byte
	m.On("HasReply").Return(true)
	m.On("Respond", mock.Anything).Run(func(args mock.Arguments) {
		response = args.Get(0).([]byte)
	}).Return(nil)
	return &response
}

func (m *MockMessage) Subject() string   { return m.subject }
func (m *MockMessage) Data() []byte      { return m.data }
func (m *MockMessage) RequestID() string { return m.requestID }

func (m *MockMessage) HasReply() bool {
	return m.Called().Bool(0)
}

func (m *MockMessage) Respond(data []byte) error {
	return m.Called(data).Error(0)
}
