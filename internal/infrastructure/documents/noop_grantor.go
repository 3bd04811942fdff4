// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package documents

import (
	"context"
	"errors"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain"
)

// ErrGrantDisabled is returned by the NoOpGrantor for every grant.
var ErrGrantDisabled = errors.New("document access grants are disabled")

// NoOpGrantor never exposes documents, so meetings are created without a
// preloaded presentation.
// This is useful for local development when the document service is not available.
type NoOpGrantor struct{}

var _ domain.DocumentAccessGrantor = (*NoOpGrantor)(nil)

// NewNoOpGrantor creates a new no-op grantor
func NewNoOpGrantor() *NoOpGrantor {
	return &NoOpGrantor{}
}

// GrantPublicRead always fails with ErrGrantDisabled
func (g *NoOpGrantor) GrantPublicRead(ctx context.Context, reference string) (string, error) {
	return "", ErrGrantDisabled
}

// RevokePublicRead does nothing
func (g *NoOpGrantor) RevokePublicRead(ctx context.Context, reference string) error {
	return nil
}
