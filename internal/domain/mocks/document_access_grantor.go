// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDocumentAccessGrantor implements DocumentAccessGrantor for testing
type MockDocumentAccessGrantor struct {
	mock.Mock
}

func (m *MockDocumentAccessGrantor) GrantPublicRead(ctx context.Context, reference string) (string, error) {
	args := m.Called(ctx, reference)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentAccessGrantor) RevokePublicRead(ctx context.Context, reference string) error {
	args := m.Called(ctx, reference)
	return args.Error(0)
}
