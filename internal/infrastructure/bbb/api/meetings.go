// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"strconv"
	"strings"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/infrastructure/bbb/xmlvalue"
)

// defaultFullName is sent on join when the participant has no display name.
const defaultFullName = "user"

// createQuery builds the create parameters in wire order.
func (c *Client) createQuery(req *models.MeetingRequest) *query {
	q := c.newQuery().
		add("meetingID", req.ID).
		add("name", req.Name).
		addInt("voiceBridge", req.VoiceBridge).
		add("attendeePW", req.AttendeePassword).
		add("moderatorPW", req.ModeratorPassword)
	if req.LogoutURL != "" {
		q.add("logoutURL", req.LogoutURL)
	}
	q.addBool("record", req.Record).
		addInt("duration", req.Duration)
	for _, meta := range req.Meta {
		q.add("meta_"+meta.Key, meta.Value)
	}
	return q.add("welcome", req.Welcome)
}

// Create creates a meeting. When presentation preload is enabled and the
// request names a presentation, the document is posted with the request.
func (c *Client) Create(ctx context.Context, req *models.MeetingRequest) (*xmlvalue.Map, error) {
	if req == nil {
		return nil, withCall(domain.NewMisconfiguredError("meeting request is required"), CallCreate)
	}

	call := c.get(CallCreate, c.createQuery(req))
	call.meetingID = req.ID

	if c.preloads(req) {
		url, release := c.grantPresentation(ctx, req.Presentation)
		defer release()
		if url != "" {
			call = withPresentation(call, url)
		}
	}

	return c.do(ctx, call)
}

// IsMeetingRunning reports whether the meeting currently has participants.
func (c *Client) IsMeetingRunning(ctx context.Context, meetingID string) (bool, error) {
	call := c.get(CallIsMeetingRunning, c.newQuery().add("meetingID", meetingID))
	call.meetingID = meetingID

	response, err := c.do(ctx, call)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(response.GetString("running"), "true"), nil
}

// GetMeetingInfo returns the live details of a meeting. Passwords are never
// returned.
func (c *Client) GetMeetingInfo(ctx context.Context, meetingID, password string) (*xmlvalue.Map, error) {
	call := c.get(CallGetMeetingInfo, c.newQuery().
		add("meetingID", meetingID).
		add("password", password))
	call.meetingID = meetingID

	response, err := c.do(ctx, call)
	if err != nil {
		return nil, err
	}
	nullifyPasswords(response)
	c.config.Profile.adaptMeetingInfo(response)
	return response, nil
}

// GetMeetings lists the meetings the server knows about.
func (c *Client) GetMeetings(ctx context.Context) (*xmlvalue.Map, error) {
	// The random parameter defeats caching proxies between us and the server.
	q := c.newQuery().add("random", strconv.FormatInt(c.config.Now().UnixNano(), 10))

	response, err := c.do(ctx, c.get(CallGetMeetings, q))
	if err != nil {
		return nil, err
	}
	meetings, _ := response.GetList("meetings")
	for _, item := range meetings {
		if meeting, ok := item.(*xmlvalue.Map); ok {
			nullifyPasswords(meeting)
		}
	}
	return response, nil
}

// End forcibly ends a meeting. A meeting the server does not know about is
// reported as an API failure with the notFound message key.
func (c *Client) End(ctx context.Context, meetingID, password string) error {
	call := c.get(CallEnd, c.newQuery().
		add("meetingID", meetingID).
		add("password", password))
	call.meetingID = meetingID

	_, err := c.do(ctx, call)
	return err
}

// JoinURL builds the signed URL a participant opens to join a meeting. No
// request is made.
func (c *Client) JoinURL(meetingID, userID, fullName, password string) (string, error) {
	if err := c.validateConfig(false); err != nil {
		return "", withCall(err, CallJoin)
	}
	if fullName == "" {
		fullName = defaultFullName
	}

	q := c.newQuery().add("meetingID", meetingID)
	if userID != "" {
		q.add("userID", userID)
	}
	q.add("fullName", fullName).
		add("password", password)
	return c.callURL(CallJoin, q), nil
}

func nullifyPasswords(m *xmlvalue.Map) {
	for _, key := range []string{"attendeePW", "moderatorPW"} {
		if m.Has(key) {
			m.Set(key, xmlvalue.Null{})
		}
	}
}
