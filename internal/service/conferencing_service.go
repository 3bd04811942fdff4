// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/infrastructure/bbb/xmlvalue"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-bbb-service/pkg/utils"
)

// metaRecordingReadyURL is the meta parameter the server calls back once a
// recording has been processed.
const metaRecordingReadyURL = "bn-recording-ready-url"

// ConferencingService applies the service's meeting policy on top of the
// conferencing server client and publishes lifecycle events.
type ConferencingService struct {
	Client      domain.ConferencingClient
	EventSender domain.MeetingEventSender
	Config      ServiceConfig
}

// NewConferencingService creates a new ConferencingService.
func NewConferencingService(
	client domain.ConferencingClient,
	eventSender domain.MeetingEventSender,
	config ServiceConfig,
) *ConferencingService {
	if config.RecordingFormats == nil {
		config.RecordingFormats = models.NewRecordingFormatFilter("")
	}
	return &ConferencingService{
		Client:      client,
		EventSender: eventSender,
		Config:      config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *ConferencingService) ServiceReady() bool {
	return s.Client != nil && s.EventSender != nil
}

func (s *ConferencingService) notReady(ctx context.Context) error {
	slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
	return domain.NewUnavailableError("conferencing service is not initialized")
}

// prepareMeeting fills in everything the caller may leave out and applies
// the configured recording policy.
func (s *ConferencingService) prepareMeeting(req *models.MeetingRequest) error {
	if err := req.GeneratePasswords(); err != nil {
		return domain.NewInternalError("failed to generate meeting passwords", err)
	}
	if !s.Config.RecordingEnabled {
		req.Record = false
	}
	if req.LogoutURL == "" {
		req.LogoutURL = s.Config.AutocloseLogoutURL
	}
	if req.Record && s.Config.RecordingReadyURL != "" {
		req.AddMeta(metaRecordingReadyURL, s.Config.RecordingReadyURL)
	}
	if req.Welcome == "" {
		req.Welcome = ComposeWelcome(req.Description, req.Record, req.Duration)
	}
	return nil
}

// CreateMeeting creates a meeting on the conferencing server.
func (s *ConferencingService) CreateMeeting(ctx context.Context, req *models.MeetingRequest) (*models.CreatedMeeting, error) {
	if !s.ServiceReady() {
		return nil, s.notReady(ctx)
	}
	if req == nil {
		return nil, domain.NewValidationError("meeting request is required")
	}

	if err := s.prepareMeeting(req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		slog.WarnContext(ctx, "invalid meeting request", logging.ErrKey, err)
		return nil, domain.NewValidationError("invalid meeting request", err)
	}
	req.ID = utils.GroupMeetingID(req.ID, req.GroupID)
	req.GroupID = ""
	ctx = logging.AppendCtx(ctx, logging.MeetingID(req.ID))

	response, err := s.Client.Create(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "error creating meeting", logging.ErrKey, err)
		return nil, err
	}

	created := &models.CreatedMeeting{
		MeetingID:         req.ID,
		AttendeePassword:  req.AttendeePassword,
		ModeratorPassword: req.ModeratorPassword,
		CreateTime:        response.GetString("createTime"),
		VoiceBridge:       response.GetString("voiceBridge"),
	}
	slog.InfoContext(ctx, "created meeting", "record", req.Record)

	s.publish(ctx, "meeting created", func(ctx context.Context) error {
		return s.EventSender.SendMeetingCreated(ctx, models.MeetingCreatedMessage{
			MeetingID:  req.ID,
			Name:       req.Name,
			Record:     req.Record,
			CreateTime: created.CreateTime,
		})
	})
	return created, nil
}

// EndMeeting ends a meeting. Ending a meeting the server no longer knows is
// not an error, and the result reports it as already gone.
func (s *ConferencingService) EndMeeting(ctx context.Context, ref models.MeetingRef) (*models.MeetingEndedMessage, error) {
	if !s.ServiceReady() {
		return nil, s.notReady(ctx)
	}
	meetingID, err := refMeetingID(ref)
	if err != nil {
		return nil, err
	}
	ctx = logging.AppendCtx(ctx, logging.MeetingID(meetingID))

	result := &models.MeetingEndedMessage{MeetingID: meetingID}
	err = s.Client.End(ctx, meetingID, ref.Password)
	switch {
	case domain.IsMessageKey(err, domain.MessageKeyNotFound):
		slog.InfoContext(ctx, "meeting already ended")
		result.AlreadyGone = true
	case err != nil:
		slog.ErrorContext(ctx, "error ending meeting", logging.ErrKey, err)
		return nil, err
	default:
		slog.InfoContext(ctx, "ended meeting")
	}

	s.publish(ctx, "meeting ended", func(ctx context.Context) error {
		return s.EventSender.SendMeetingEnded(ctx, *result)
	})
	return result, nil
}

// IsMeetingRunning reports whether a meeting is in progress.
func (s *ConferencingService) IsMeetingRunning(ctx context.Context, ref models.MeetingRef) (bool, error) {
	if !s.ServiceReady() {
		return false, s.notReady(ctx)
	}
	meetingID, err := refMeetingID(ref)
	if err != nil {
		return false, err
	}
	return s.Client.IsMeetingRunning(ctx, meetingID)
}

// GetMeetingInfo returns the live details of a meeting.
func (s *ConferencingService) GetMeetingInfo(ctx context.Context, ref models.MeetingRef) (*xmlvalue.Map, error) {
	if !s.ServiceReady() {
		return nil, s.notReady(ctx)
	}
	meetingID, err := refMeetingID(ref)
	if err != nil {
		return nil, err
	}
	return s.Client.GetMeetingInfo(ctx, meetingID, ref.Password)
}

// GetMeetings lists the meetings known to the server.
func (s *ConferencingService) GetMeetings(ctx context.Context) (*xmlvalue.Map, error) {
	if !s.ServiceReady() {
		return nil, s.notReady(ctx)
	}
	return s.Client.GetMeetings(ctx)
}

// JoinURL returns the URL a participant opens to join a meeting. Moderators
// get the moderator password and everyone else the attendee password.
func (s *ConferencingService) JoinURL(ctx context.Context, req models.JoinRequest) (string, error) {
	if !s.ServiceReady() {
		return "", s.notReady(ctx)
	}
	if strings.TrimSpace(req.MeetingID) == "" {
		return "", domain.NewValidationError("meeting ID is required")
	}
	if req.Password() == "" {
		return "", domain.NewValidationError("a password for the requested role is required")
	}
	meetingID := utils.GroupMeetingID(req.MeetingID, req.GroupID)
	return s.Client.JoinURL(meetingID, req.UserID, req.FullName, req.Password())
}

// ServerVersion returns the version reported by the server.
func (s *ConferencingService) ServerVersion(ctx context.Context) (string, error) {
	if !s.ServiceReady() {
		return "", s.notReady(ctx)
	}
	return s.Client.GetVersion(ctx)
}

// publish sends a lifecycle event. Failures are logged and never fail the
// operation that already succeeded on the server.
func (s *ConferencingService) publish(ctx context.Context, event string, send func(ctx context.Context) error) {
	if err := send(ctx); err != nil {
		slog.WarnContext(ctx, "error publishing event", "event", event, logging.ErrKey, err)
	}
}

func refMeetingID(ref models.MeetingRef) (string, error) {
	if strings.TrimSpace(ref.MeetingID) == "" {
		return "", domain.NewValidationError("meeting ID is required")
	}
	return utils.GroupMeetingID(ref.MeetingID, ref.GroupID), nil
}
