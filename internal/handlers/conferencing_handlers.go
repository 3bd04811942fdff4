// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-bbb-service/pkg/constants"
)

// ConferencingHandler answers the request/reply subjects of the service.
type ConferencingHandler struct {
	conferencingService *service.ConferencingService
}

var _ domain.MessageHandler = (*ConferencingHandler)(nil)

func NewConferencingHandler(conferencingService *service.ConferencingService) *ConferencingHandler {
	return &ConferencingHandler{
		conferencingService: conferencingService,
	}
}

func (s *ConferencingHandler) HandlerReady() bool {
	return s.conferencingService != nil && s.conferencingService.ServiceReady()
}

type subjectHandler func(ctx context.Context, data []byte) (any, error)

func (s *ConferencingHandler) handlers() map[string]subjectHandler {
	return map[string]subjectHandler{
		models.CreateMeetingSubject:     s.handleCreateMeeting,
		models.EndMeetingSubject:        s.handleEndMeeting,
		models.IsMeetingRunningSubject:  s.handleIsMeetingRunning,
		models.GetMeetingInfoSubject:    s.handleGetMeetingInfo,
		models.GetMeetingsSubject:       s.handleGetMeetings,
		models.GetRecordingsSubject:     s.handleGetRecordings,
		models.PublishRecordingsSubject: s.handlePublishRecordings,
		models.ProtectRecordingsSubject: s.handleProtectRecordings,
		models.DeleteRecordingsSubject:  s.handleDeleteRecordings,
		models.JoinURLSubject:           s.handleJoinURL,
		models.ServerVersionSubject:     s.handleServerVersion,
	}
}

// HandleMessage implements domain.MessageHandler interface
func (s *ConferencingHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	if requestID := msg.RequestID(); requestID != "" {
		ctx = context.WithValue(ctx, constants.RequestIDContextID, requestID)
		ctx = logging.AppendCtx(ctx, slog.String("request_id", requestID))
	}
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling NATS message")

	var reply models.Reply
	handler, ok := s.handlers()[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		reply.Error = &models.ReplyError{
			Kind:    domain.ErrorTypeValidation.String(),
			Message: "unknown subject " + subject,
		}
	} else if result, err := handler(ctx, msg.Data()); err != nil {
		slog.ErrorContext(ctx, "error handling message", logging.ErrKey, err)
		reply.Error = replyError(err)
	} else if reply.Data, err = json.Marshal(result); err != nil {
		slog.ErrorContext(ctx, "error marshalling reply", logging.ErrKey, err)
		reply.Data = nil
		reply.Error = replyError(domain.NewInternalError("failed to encode reply", err))
	}

	if !msg.HasReply() {
		slog.DebugContext(ctx, "handled NATS message (no reply expected)")
		return
	}
	response, err := json.Marshal(reply)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling reply envelope", logging.ErrKey, err)
		return
	}
	if err := msg.Respond(response); err != nil {
		slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
		return
	}
	slog.DebugContext(ctx, "responded to NATS message", "failed", reply.Error != nil)
}

// replyError describes err for the caller. Protocol errors keep their kind,
// the server message key and the HTTP status.
func replyError(err error) *models.ReplyError {
	var protoErr *domain.ProtocolError
	if errors.As(err, &protoErr) {
		return &models.ReplyError{
			Kind:       protoErr.Kind.String(),
			MessageKey: protoErr.Key(),
			Message:    err.Error(),
			Status:     protoErr.Status,
			Retryable:  domain.IsRetryable(err),
		}
	}
	return &models.ReplyError{
		Kind:    domain.GetErrorType(err).String(),
		Message: err.Error(),
	}
}

// decode unmarshals a request payload. An empty payload leaves v untouched.
func decode(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return domain.NewValidationError("invalid request payload", err)
	}
	return nil
}

func (s *ConferencingHandler) handleCreateMeeting(ctx context.Context, data []byte) (any, error) {
	var req models.MeetingRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	return s.conferencingService.CreateMeeting(ctx, &req)
}

func (s *ConferencingHandler) handleEndMeeting(ctx context.Context, data []byte) (any, error) {
	var ref models.MeetingRef
	if err := decode(data, &ref); err != nil {
		return nil, err
	}
	return s.conferencingService.EndMeeting(ctx, ref)
}

func (s *ConferencingHandler) handleIsMeetingRunning(ctx context.Context, data []byte) (any, error) {
	var ref models.MeetingRef
	if err := decode(data, &ref); err != nil {
		return nil, err
	}
	running, err := s.conferencingService.IsMeetingRunning(ctx, ref)
	if err != nil {
		return nil, err
	}
	return map[string]bool{"running": running}, nil
}

func (s *ConferencingHandler) handleGetMeetingInfo(ctx context.Context, data []byte) (any, error) {
	var ref models.MeetingRef
	if err := decode(data, &ref); err != nil {
		return nil, err
	}
	return s.conferencingService.GetMeetingInfo(ctx, ref)
}

func (s *ConferencingHandler) handleGetMeetings(ctx context.Context, _ []byte) (any, error) {
	return s.conferencingService.GetMeetings(ctx)
}

func (s *ConferencingHandler) handleGetRecordings(ctx context.Context, data []byte) (any, error) {
	var query models.RecordingsQuery
	if err := decode(data, &query); err != nil {
		return nil, err
	}
	recordings, err := s.conferencingService.GetRecordings(ctx, query)
	if err != nil {
		return nil, err
	}
	return map[string][]models.Recording{"recordings": recordings}, nil
}

func (s *ConferencingHandler) handlePublishRecordings(ctx context.Context, data []byte) (any, error) {
	var update models.RecordingUpdate
	if err := decode(data, &update); err != nil {
		return nil, err
	}
	if update.Publish == nil {
		return nil, domain.NewValidationError("publish is required")
	}
	update.Protect = nil
	if err := s.conferencingService.UpdateRecording(ctx, update); err != nil {
		return nil, err
	}
	return update, nil
}

func (s *ConferencingHandler) handleProtectRecordings(ctx context.Context, data []byte) (any, error) {
	var update models.RecordingUpdate
	if err := decode(data, &update); err != nil {
		return nil, err
	}
	if update.Protect == nil {
		return nil, domain.NewValidationError("protect is required")
	}
	update.Publish = nil
	if err := s.conferencingService.UpdateRecording(ctx, update); err != nil {
		return nil, err
	}
	return update, nil
}

func (s *ConferencingHandler) handleDeleteRecordings(ctx context.Context, data []byte) (any, error) {
	var update models.RecordingUpdate
	if err := decode(data, &update); err != nil {
		return nil, err
	}
	if err := s.conferencingService.DeleteRecording(ctx, update.RecordID); err != nil {
		return nil, err
	}
	return models.RecordingUpdatedMessage{RecordID: update.RecordID, Action: models.RecordingDeleted}, nil
}

func (s *ConferencingHandler) handleJoinURL(ctx context.Context, data []byte) (any, error) {
	var req models.JoinRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	url, err := s.conferencingService.JoinURL(ctx, req)
	if err != nil {
		return nil, err
	}
	return map[string]string{"url": url}, nil
}

func (s *ConferencingHandler) handleServerVersion(ctx context.Context, _ []byte) (any, error) {
	version, err := s.conferencingService.ServerVersion(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{"version": version}, nil
}
