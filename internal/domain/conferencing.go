// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/infrastructure/bbb/xmlvalue"
)

// ConferencingClient is the protocol client of a BigBlueButton server. Every
// failure is returned as a *ProtocolError.
type ConferencingClient interface {
	Create(ctx context.Context, req *models.MeetingRequest) (*xmlvalue.Map, error)
	IsMeetingRunning(ctx context.Context, meetingID string) (bool, error)
	GetMeetingInfo(ctx context.Context, meetingID, password string) (*xmlvalue.Map, error)
	GetMeetings(ctx context.Context) (*xmlvalue.Map, error)
	End(ctx context.Context, meetingID, password string) error
	GetRecordings(ctx context.Context, meetingIDs []string) (*xmlvalue.Map, error)
	GetAllRecordings(ctx context.Context) (*xmlvalue.Map, error)
	PublishRecordings(ctx context.Context, recordID string, publish bool) error
	ProtectRecordings(ctx context.Context, recordID string, protect bool) error
	DeleteRecordings(ctx context.Context, recordID string) error
	JoinURL(meetingID, userID, fullName, password string) (string, error)
	GetVersion(ctx context.Context) (string, error)
}

// DocumentAccessGrantor temporarily exposes a stored document at a public URL
// so that the conferencing server can download it.
type DocumentAccessGrantor interface {
	// GrantPublicRead makes the document readable without authentication and
	// returns its absolute URL.
	GrantPublicRead(ctx context.Context, reference string) (string, error)
	// RevokePublicRead undoes GrantPublicRead.
	RevokePublicRead(ctx context.Context, reference string) error
}
