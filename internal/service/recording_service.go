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

// GetRecordings returns the recordings of the given meetings, or of every
// meeting when none is given. Playback formats outside the configured
// whitelist are dropped unless the query asks for all formats.
func (s *ConferencingService) GetRecordings(ctx context.Context, query models.RecordingsQuery) ([]models.Recording, error) {
	if !s.ServiceReady() {
		return nil, s.notReady(ctx)
	}

	var response *xmlvalue.Map
	var err error
	if len(query.MeetingIDs) == 0 {
		response, err = s.Client.GetAllRecordings(ctx)
	} else {
		response, err = s.Client.GetRecordings(ctx, query.MeetingIDs)
	}
	if err != nil {
		slog.ErrorContext(ctx, "error fetching recordings", logging.ErrKey, err)
		return nil, err
	}

	recordings, err := decodeRecordings(response)
	if err != nil {
		slog.ErrorContext(ctx, "error decoding recordings", logging.ErrKey, err)
		return nil, domain.NewInternalError("failed to decode recordings", err)
	}
	if !query.AllFormats {
		recordings = s.Config.RecordingFormats.Apply(recordings)
	}

	slog.DebugContext(ctx, "returning recordings", "count", len(recordings))
	return recordings, nil
}

// decodeRecordings projects the recordings list of a response into typed
// recordings. Servers that cannot report recordings yield an empty list.
func decodeRecordings(response *xmlvalue.Map) ([]models.Recording, error) {
	items, ok := response.GetList("recordings")
	if !ok {
		return []models.Recording{}, nil
	}

	recordings := make([]models.Recording, 0, len(items))
	for _, item := range items {
		entry, ok := item.(*xmlvalue.Map)
		if !ok {
			continue
		}
		var rec models.Recording
		if err := entry.As(&rec); err != nil {
			return nil, err
		}
		rec.MeetingID, rec.GroupID = utils.ParseGroupMeetingID(rec.MeetingID)
		recordings = append(recordings, rec)
	}
	return recordings, nil
}

// UpdateRecording publishes and/or protects one or more recordings. RecordID
// is a comma separated list; blank entries are dropped.
func (s *ConferencingService) UpdateRecording(ctx context.Context, update models.RecordingUpdate) error {
	if !s.ServiceReady() {
		return s.notReady(ctx)
	}
	recordIDs := utils.SplitIDs(update.RecordID)
	if len(recordIDs) == 0 {
		return domain.NewValidationError("record ID is required")
	}
	update.RecordID = strings.Join(recordIDs, ",")
	if update.Publish == nil && update.Protect == nil {
		return domain.NewValidationError("nothing to update: publish or protect is required")
	}
	ctx = logging.AppendCtx(ctx, slog.String("record_id", update.RecordID))

	if update.Publish != nil {
		publish := *update.Publish
		if err := s.Client.PublishRecordings(ctx, update.RecordID, publish); err != nil {
			slog.ErrorContext(ctx, "error publishing recording", logging.ErrKey, err, "publish", publish)
			return err
		}
		action := models.RecordingPublished
		if !publish {
			action = models.RecordingUnpublished
		}
		s.recordingUpdated(ctx, update.RecordID, action)
	}

	if update.Protect != nil {
		protect := *update.Protect
		if err := s.Client.ProtectRecordings(ctx, update.RecordID, protect); err != nil {
			slog.ErrorContext(ctx, "error protecting recording", logging.ErrKey, err, "protect", protect)
			return err
		}
		action := models.RecordingProtected
		if !protect {
			action = models.RecordingUnprotected
		}
		s.recordingUpdated(ctx, update.RecordID, action)
	}
	return nil
}

// DeleteRecording removes a recording from the server.
func (s *ConferencingService) DeleteRecording(ctx context.Context, recordID string) error {
	if !s.ServiceReady() {
		return s.notReady(ctx)
	}
	recordIDs := utils.SplitIDs(recordID)
	if len(recordIDs) == 0 {
		return domain.NewValidationError("record ID is required")
	}
	recordID = strings.Join(recordIDs, ",")
	ctx = logging.AppendCtx(ctx, slog.String("record_id", recordID))

	if err := s.Client.DeleteRecordings(ctx, recordID); err != nil {
		slog.ErrorContext(ctx, "error deleting recording", logging.ErrKey, err)
		return err
	}
	s.recordingUpdated(ctx, recordID, models.RecordingDeleted)
	return nil
}

func (s *ConferencingService) recordingUpdated(ctx context.Context, recordID string, action models.RecordingAction) {
	slog.InfoContext(ctx, "recording updated", "action", action)
	s.publish(ctx, "recording updated", func(ctx context.Context) error {
		return s.EventSender.SendRecordingUpdated(ctx, models.RecordingUpdatedMessage{
			RecordID: recordID,
			Action:   action,
		})
	})
}
