// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-bbb-service/pkg/constants"
)

// DefaultRequestTimeout bounds a single request to the document service.
const DefaultRequestTimeout = 5 * time.Second

// INatsRequester is the part of a NATS connection the [NATSGrantor] needs.
type INatsRequester interface {
	RequestMsgWithContext(ctx context.Context, msg *nats.Msg) (*nats.Msg, error)
}

// NATSGrantor asks the document service over NATS request/reply to expose
// documents publicly.
type NATSGrantor struct {
	conn    INatsRequester
	timeout time.Duration
}

var _ domain.DocumentAccessGrantor = (*NATSGrantor)(nil)

// NewNATSGrantor creates a new NATSGrantor. A zero timeout selects
// DefaultRequestTimeout.
func NewNATSGrantor(conn INatsRequester, timeout time.Duration) *NATSGrantor {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &NATSGrantor{conn: conn, timeout: timeout}
}

// GrantPublicRead returns the public URL of the document.
func (g *NATSGrantor) GrantPublicRead(ctx context.Context, reference string) (string, error) {
	reply, err := g.request(ctx, models.GrantDocumentAccessSubject, reference)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply.URL) == "" {
		return "", fmt.Errorf("document service returned no URL for %q", reference)
	}
	return reply.URL, nil
}

// RevokePublicRead withdraws public access to the document.
func (g *NATSGrantor) RevokePublicRead(ctx context.Context, reference string) error {
	_, err := g.request(ctx, models.RevokeDocumentAccessSubject, reference)
	return err
}

func (g *NATSGrantor) request(ctx context.Context, subject, reference string) (*models.DocumentAccessReply, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, errors.New("document reference is required")
	}

	data, err := json.Marshal(models.DocumentAccessRequest{Reference: reference})
	if err != nil {
		return nil, err
	}
	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set(constants.RequestIDHeader, requestID(ctx))

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.conn.RequestMsgWithContext(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error requesting document access", logging.ErrKey, err, "subject", subject)
		return nil, fmt.Errorf("document service request failed: %w", err)
	}

	var reply models.DocumentAccessReply
	if err := json.Unmarshal(resp.Data, &reply); err != nil {
		return nil, fmt.Errorf("invalid document service reply: %w", err)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("document service: %s", reply.Error)
	}
	slog.DebugContext(ctx, "document access request completed", "subject", subject)
	return &reply, nil
}

// requestID reuses the ID of the request being served, if any.
func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(constants.RequestIDContextID).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
