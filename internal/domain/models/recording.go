// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"strings"
)

// DefaultRecordingFormats are the playback formats shown when no whitelist is configured.
var DefaultRecordingFormats = []string{"presentation", "video"}

// Recording is the typed view of a recording entry.
type Recording struct {
	RecordID  string           `xml:"recordID" json:"record_id"`
	MeetingID string           `xml:"meetingID" json:"meeting_id"`
	GroupID   string           `xml:"-" json:"group_id,omitempty"`
	Name      string           `xml:"name" json:"name,omitempty"`
	Published bool             `xml:"published" json:"published"`
	Protected bool             `xml:"protected" json:"protected"`
	State     string           `xml:"state" json:"state,omitempty"`
	StartTime string           `xml:"startTime" json:"start_time"`
	EndTime   string           `xml:"endTime" json:"end_time"`
	Playback  []PlaybackFormat `xml:"playback" json:"playback,omitempty"`
}

// PlaybackFormat is one way of watching a recording.
type PlaybackFormat struct {
	Type   string `xml:"type" json:"type"`
	URL    string `xml:"url" json:"url"`
	Length int    `xml:"length" json:"length,omitempty"`
}

// RecordingFormatFilter keeps only whitelisted playback formats.
type RecordingFormatFilter struct {
	allowed map[string]struct{}
}

// NewRecordingFormatFilter builds a filter from a comma separated list of
// format types. An empty list selects DefaultRecordingFormats.
func NewRecordingFormatFilter(whitelist string) *RecordingFormatFilter {
	var formats []string
	for _, f := range strings.Split(whitelist, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		formats = DefaultRecordingFormats
	}

	allowed := make(map[string]struct{}, len(formats))
	for _, f := range formats {
		allowed[f] = struct{}{}
	}
	return &RecordingFormatFilter{allowed: allowed}
}

// Allows reports whether a playback format type passes the filter.
func (f *RecordingFormatFilter) Allows(formatType string) bool {
	_, ok := f.allowed[strings.ToLower(formatType)]
	return ok
}

// Apply drops the formats that are not allowed. Recordings left without any
// playback format are dropped too.
func (f *RecordingFormatFilter) Apply(recordings []Recording) []Recording {
	out := make([]Recording, 0, len(recordings))
	for _, rec := range recordings {
		var kept []PlaybackFormat
		for _, pf := range rec.Playback {
			if f.Allows(pf.Type) {
				kept = append(kept, pf)
			}
		}
		if len(kept) == 0 {
			continue
		}
		rec.Playback = kept
		out = append(out, rec)
	}
	return out
}
