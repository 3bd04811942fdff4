// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "encoding/json"

// NATS wildcard subjects that the BigBlueButton service handles messages about.
const (
	// BBBAPIQueue is the queue group shared by every service replica.
	// The subject is of the form: lfx.bbb-api.queue
	BBBAPIQueue = "lfx.bbb-api.queue"
)

// NATS request/reply subjects handled by the service.
const (
	CreateMeetingSubject     = "lfx.bbb-api.create_meeting"
	EndMeetingSubject        = "lfx.bbb-api.end_meeting"
	IsMeetingRunningSubject  = "lfx.bbb-api.is_meeting_running"
	GetMeetingInfoSubject    = "lfx.bbb-api.get_meeting_info"
	GetMeetingsSubject       = "lfx.bbb-api.get_meetings"
	GetRecordingsSubject     = "lfx.bbb-api.get_recordings"
	PublishRecordingsSubject = "lfx.bbb-api.publish_recordings"
	ProtectRecordingsSubject = "lfx.bbb-api.protect_recordings"
	DeleteRecordingsSubject  = "lfx.bbb-api.delete_recordings"
	JoinURLSubject           = "lfx.bbb-api.join_url"
	ServerVersionSubject     = "lfx.bbb-api.server_version"
)

// HandledSubjects lists every subject the service subscribes to.
var HandledSubjects = []string{
	CreateMeetingSubject,
	EndMeetingSubject,
	IsMeetingRunningSubject,
	GetMeetingInfoSubject,
	GetMeetingsSubject,
	GetRecordingsSubject,
	PublishRecordingsSubject,
	ProtectRecordingsSubject,
	DeleteRecordingsSubject,
	JoinURLSubject,
	ServerVersionSubject,
}

// NATS subjects the service publishes lifecycle events on.
const (
	// MeetingCreatedSubject is published after a meeting was created on the server.
	MeetingCreatedSubject = "lfx.bbb-api.meeting_created"
	// MeetingEndedSubject is published after a meeting was ended, including
	// when the server no longer knew the meeting.
	MeetingEndedSubject = "lfx.bbb-api.meeting_ended"
	// RecordingUpdatedSubject is published after a recording was published,
	// protected or deleted.
	RecordingUpdatedSubject = "lfx.bbb-api.recording_updated"
)

// NATS subjects of the document service used to expose presentations.
const (
	GrantDocumentAccessSubject  = "lfx.documents-api.grant_public_read"
	RevokeDocumentAccessSubject = "lfx.documents-api.revoke_public_read"
)

// MeetingRef identifies a running meeting.
type MeetingRef struct {
	MeetingID string `json:"meeting_id"`
	GroupID   string `json:"group_id,omitempty"`
	Password  string `json:"password,omitempty"`
}

// RecordingsQuery selects recordings by meeting. An empty list selects every
// recording on the server.
type RecordingsQuery struct {
	MeetingIDs []string `json:"meeting_ids"`
	// AllFormats disables the playback format whitelist.
	AllFormats bool `json:"all_formats,omitempty"`
}

// RecordingUpdate publishes, protects or deletes one or more recordings.
// RecordID may hold a comma separated list.
type RecordingUpdate struct {
	RecordID string `json:"record_id"`
	Publish  *bool  `json:"publish,omitempty"`
	Protect  *bool  `json:"protect,omitempty"`
}

// RecordingAction is what happened to a recording.
type RecordingAction string

const (
	RecordingPublished   RecordingAction = "published"
	RecordingUnpublished RecordingAction = "unpublished"
	RecordingProtected   RecordingAction = "protected"
	RecordingUnprotected RecordingAction = "unprotected"
	RecordingDeleted     RecordingAction = "deleted"
)

// MeetingCreatedMessage is the payload of MeetingCreatedSubject.
type MeetingCreatedMessage struct {
	MeetingID  string `json:"meeting_id"`
	Name       string `json:"name"`
	Record     bool   `json:"record"`
	CreateTime string `json:"create_time,omitempty"`
}

// MeetingEndedMessage is the payload of MeetingEndedSubject.
type MeetingEndedMessage struct {
	MeetingID string `json:"meeting_id"`
	// AlreadyGone is set when the server did not know the meeting anymore.
	AlreadyGone bool `json:"already_gone"`
}

// RecordingUpdatedMessage is the payload of RecordingUpdatedSubject.
type RecordingUpdatedMessage struct {
	RecordID string          `json:"record_id"`
	Action   RecordingAction `json:"action"`
}

// Reply is the envelope of every request/reply answer.
type Reply struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error *ReplyError     `json:"error,omitempty"`
}

// ReplyError describes a failed request.
type ReplyError struct {
	Kind       string `json:"kind"`
	MessageKey string `json:"message_key,omitempty"`
	Message    string `json:"message"`
	Status     int    `json:"status,omitempty"`
	// Retryable is set when the same request may succeed later.
	Retryable bool `json:"retryable,omitempty"`
}

// DocumentAccessRequest is sent to the document service.
type DocumentAccessRequest struct {
	Reference string `json:"reference"`
}

// DocumentAccessReply is the document service answer to a grant request.
type DocumentAccessReply struct {
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}
