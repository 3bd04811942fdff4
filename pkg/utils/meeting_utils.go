// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"fmt"
	"strings"
)

// GroupMeetingID returns the conferencing server meeting ID of a group session.
// e.g. meetingID=site-42, groupID=tutors -> site-42[tutors]
// e.g. meetingID=site-42, groupID= -> site-42
func GroupMeetingID(meetingID string, groupID string) string {
	if groupID == "" {
		return meetingID
	}
	return fmt.Sprintf("%s[%s]", meetingID, groupID)
}

// ParseGroupMeetingID splits a server meeting ID into its meeting ID and group ID.
// e.g. site-42[tutors] -> meetingID=site-42, groupID=tutors
// e.g. site-42 -> meetingID=site-42, groupID=
func ParseGroupMeetingID(id string) (meetingID string, groupID string) {
	if !strings.HasSuffix(id, "]") {
		return id, ""
	}
	open := strings.LastIndex(id, "[")
	if open <= 0 {
		return id, ""
	}
	return id[:open], id[open+1 : len(id)-1]
}

// SplitIDs splits a comma separated list of IDs, trimming whitespace around
// each entry and dropping empty ones.
func SplitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
