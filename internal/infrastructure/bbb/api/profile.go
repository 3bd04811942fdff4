// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/infrastructure/bbb/xmlvalue"
)

// MinimumVersion is reported for servers that do not answer the version call.
const MinimumVersion = "0.63"

// participantCountUnknown replaces the participant count on servers that
// cannot be trusted to report it.
const participantCountUnknown = "-1"

// Profile describes how a server version differs from the current protocol.
// Profiles are plain values; the zero value is not meaningful, use one of the
// predefined profiles or ProfileFor.
type Profile struct {
	Name               string
	Checksum           ChecksumStrategy
	Charset            Charset
	NullifyMeetingInfo bool
	NullifyRecordings  bool
	// PresentationPreload allows a presentation to be posted with create.
	PresentationPreload bool
}

var (
	// ProfileLegacy covers servers older than 0.70.
	ProfileLegacy = Profile{
		Name:               "legacy",
		Checksum:           ChecksumQueryOnly,
		Charset:            CharsetISO88591,
		NullifyMeetingInfo: true,
		NullifyRecordings:  true,
	}
	// ProfileV070 covers 0.70 up to 0.79.
	ProfileV070 = Profile{
		Name:              "0.70",
		Checksum:          ChecksumWithCallName,
		Charset:           CharsetUTF8,
		NullifyRecordings: true,
	}
	// ProfileV080 covers 0.80.
	ProfileV080 = Profile{
		Name:     "0.80",
		Checksum: ChecksumWithCallName,
		Charset:  CharsetUTF8,
	}
	// ProfileCurrent covers 0.81 and later.
	ProfileCurrent = Profile{
		Name:                "current",
		Checksum:            ChecksumWithCallName,
		Charset:             CharsetUTF8,
		PresentationPreload: true,
	}
)

// Version is a parsed server version. Versions compare as decimal numbers
// of their first two components, so 0.7 and 0.70 are the same release.
type Version struct {
	Raw    string
	Number float64
	// Snapshot is set for development builds such as 0.81-SNAPSHOT.
	Snapshot bool
	// Unknown is set when Raw could not be parsed. Unknown versions are
	// treated as the latest release.
	Unknown bool
}

// ParseVersion reads the major.minor number of a version string.
func ParseVersion(raw string) Version {
	v := Version{Raw: strings.TrimSpace(raw)}
	s := v.Raw
	if base, suffix, found := strings.Cut(s, "-"); found {
		s = base
		v.Snapshot = suffix != ""
	}

	if strings.Trim(s, "0123456789.") != "" {
		v.Unknown = true
		return v
	}
	parts := strings.SplitN(s, ".", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	number, err := strconv.ParseFloat(strings.Join(parts, "."), 64)
	if err != nil {
		v.Unknown = true
		return v
	}
	v.Number = number
	return v
}

// Less reports whether v is older than the given version number. Unknown
// versions are never older than anything.
func (v Version) Less(number float64) bool {
	return !v.Unknown && v.Number < number
}

func (v Version) String() string {
	if v.Unknown {
		return fmt.Sprintf("unknown(%s)", v.Raw)
	}
	return strconv.FormatFloat(v.Number, 'f', -1, 64)
}

// ProfileFor returns the profile matching a version string.
func ProfileFor(raw string) Profile {
	v := ParseVersion(raw)
	switch {
	case v.Less(0.70):
		return ProfileLegacy
	case v.Less(0.80):
		return ProfileV070
	case v.Less(0.81):
		return ProfileV080
	default:
		return ProfileCurrent
	}
}

// adaptMeetingInfo applies the profile to a getMeetingInfo response.
func (p Profile) adaptMeetingInfo(m *xmlvalue.Map) {
	if !p.NullifyMeetingInfo {
		return
	}
	nullifyFields(m)
	m.Set("participantCount", xmlvalue.Scalar(participantCountUnknown))
}

// adaptRecordings applies the profile to a getRecordings response.
func (p Profile) adaptRecordings(m *xmlvalue.Map) {
	if p.NullifyRecordings {
		nullifyFields(m)
	}
}

// nullifyFields clears every top-level field the server cannot be trusted
// to report. participantCount survives as the unknown sentinel.
func nullifyFields(m *xmlvalue.Map) {
	for _, key := range m.Keys() {
		if key == "participantCount" {
			m.Set(key, xmlvalue.Scalar(participantCountUnknown))
			continue
		}
		m.Set(key, xmlvalue.Null{})
	}
}
