// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"crypto/rand"
	"errors"
	"strings"

	"github.com/akamensky/base58"
)

// passwordBytes is the amount of entropy in a generated meeting password.
const passwordBytes = 9

// MetaEntry is a single meta_<key> parameter sent on create. Entries are sent
// in the order they appear on the request.
type MetaEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// MeetingRequest describes a meeting to create on the conferencing server.
type MeetingRequest struct {
	ID                string      `json:"meeting_id"`
	GroupID           string      `json:"group_id,omitempty"`
	Name              string      `json:"name"`
	VoiceBridge       int         `json:"voice_bridge"`
	AttendeePassword  string      `json:"attendee_password,omitempty"`
	ModeratorPassword string      `json:"moderator_password,omitempty"`
	LogoutURL         string      `json:"logout_url,omitempty"`
	Record            bool        `json:"record"`
	Duration          int         `json:"duration"`
	Welcome           string      `json:"welcome,omitempty"`
	// Description is the organizer's text shown in the composed welcome
	// message when Welcome is empty. It is never sent to the server as is.
	Description string      `json:"description,omitempty"`
	Meta        []MetaEntry `json:"meta,omitempty"`
	// Presentation references a document in the document store that is
	// preloaded into the meeting.
	Presentation string `json:"presentation,omitempty"`
}

// Validate checks the fields the conferencing server requires.
func (r *MeetingRequest) Validate() error {
	var errs []error
	if strings.TrimSpace(r.ID) == "" {
		errs = append(errs, errors.New("meeting ID is required"))
	}
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, errors.New("meeting name is required"))
	}
	if r.AttendeePassword == "" || r.ModeratorPassword == "" {
		errs = append(errs, errors.New("attendee and moderator passwords are required"))
	} else if r.AttendeePassword == r.ModeratorPassword {
		errs = append(errs, errors.New("attendee and moderator passwords must differ"))
	}
	if r.Duration < 0 {
		errs = append(errs, errors.New("duration must not be negative"))
	}
	if r.VoiceBridge < 0 {
		errs = append(errs, errors.New("voice bridge must not be negative"))
	}
	return errors.Join(errs...)
}

// GeneratePasswords fills in missing passwords. A generated password never
// equals the other one. Passwords supplied by the caller are kept as they
// are, so two equal ones are left for Validate to reject.
func (r *MeetingRequest) GeneratePasswords() error {
	var err error
	if r.AttendeePassword == "" {
		if r.AttendeePassword, err = generateDistinct(r.ModeratorPassword); err != nil {
			return err
		}
	}
	if r.ModeratorPassword == "" {
		if r.ModeratorPassword, err = generateDistinct(r.AttendeePassword); err != nil {
			return err
		}
	}
	return nil
}

func generateDistinct(other string) (string, error) {
	for {
		pw, err := GeneratePassword()
		if err != nil || pw != other {
			return pw, err
		}
	}
}

// AddMeta appends a meta entry, replacing the value of an existing key in place.
func (r *MeetingRequest) AddMeta(key, value string) {
	for i := range r.Meta {
		if r.Meta[i].Key == key {
			r.Meta[i].Value = value
			return
		}
	}
	r.Meta = append(r.Meta, MetaEntry{Key: key, Value: value})
}

// CreatedMeeting is returned to the caller after a successful create. It
// carries the passwords because the service may have generated them.
type CreatedMeeting struct {
	MeetingID         string `json:"meeting_id"`
	AttendeePassword  string `json:"attendee_password"`
	ModeratorPassword string `json:"moderator_password"`
	CreateTime        string `json:"create_time,omitempty"`
	VoiceBridge       string `json:"voice_bridge,omitempty"`
}

// GeneratePassword returns a random URL-safe password.
func GeneratePassword() (string, error) {
	buf := make([]byte, passwordBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base58.Encode(buf), nil
}

// JoinRequest describes a participant joining a meeting.
type JoinRequest struct {
	MeetingID string `json:"meeting_id"`
	GroupID   string `json:"group_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	FullName  string `json:"full_name"`
	// Moderator selects the moderator password instead of the attendee one.
	Moderator         bool   `json:"moderator"`
	AttendeePassword  string `json:"attendee_password"`
	ModeratorPassword string `json:"moderator_password"`
}

// Password returns the password matching the requested role.
func (j *JoinRequest) Password() string {
	if j.Moderator {
		return j.ModeratorPassword
	}
	return j.AttendeePassword
}

// MeetingInfo is the typed view of a getMeetingInfo response. Fields the
// server does not report, or that were cleared, are left empty.
type MeetingInfo struct {
	MeetingID             string     `xml:"meetingID" json:"meeting_id"`
	MeetingName           string     `xml:"meetingName" json:"meeting_name,omitempty"`
	CreateTime            string     `xml:"createTime" json:"create_time,omitempty"`
	VoiceBridge           string     `xml:"voiceBridge" json:"voice_bridge,omitempty"`
	Running               bool       `xml:"running" json:"running"`
	Recording             bool       `xml:"recording" json:"recording"`
	HasBeenForciblyEnded  bool       `xml:"hasBeenForciblyEnded" json:"has_been_forcibly_ended"`
	StartTime             string     `xml:"startTime" json:"start_time,omitempty"`
	EndTime               string     `xml:"endTime" json:"end_time,omitempty"`
	ParticipantCount      int        `xml:"participantCount" json:"participant_count"`
	ModeratorCount        int        `xml:"moderatorCount" json:"moderator_count"`
	MaxUsers              int        `xml:"maxUsers" json:"max_users,omitempty"`
	Attendees             []Attendee `xml:"attendees" json:"attendees,omitempty"`
	HasUserJoined         bool       `xml:"hasUserJoined" json:"has_user_joined"`
	ListenerCount         int        `xml:"listenerCount" json:"listener_count"`
	VoiceParticipantCount int        `xml:"voiceParticipantCount" json:"voice_participant_count"`
	VideoCount            int        `xml:"videoCount" json:"video_count"`
}

// Attendee is a participant listed in a getMeetingInfo response.
type Attendee struct {
	UserID   string `xml:"userID" json:"user_id"`
	FullName string `xml:"fullName" json:"full_name"`
	Role     string `xml:"role" json:"role"`
}
