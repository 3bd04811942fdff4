// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/infrastructure/bbb/xmlvalue"
	"github.com/linuxfoundation/lfx-v2-bbb-service/pkg/concurrent"
)

// legacyTimeLayout is the human readable timestamp older servers report,
// e.g. "Thu Mar 04 14:05:30 EST 2010", with the zone field taken out.
// time.Parse gives unknown zone abbreviations a zero offset, so the zone is
// resolved through zoneOffsets instead.
const legacyTimeLayout = "Mon Jan _2 15:04:05 2006"

// zoneOffsets maps the zone abbreviations servers print to their UTC offset
// in minutes. Ambiguous abbreviations resolve the way the JVM does (CST is
// US Central, IST is India).
var zoneOffsets = map[string]int{
	"UTC": 0, "GMT": 0, "UT": 0, "Z": 0, "WET": 0,
	"BST": 60, "WEST": 60, "CET": 60, "MET": 60, "WAT": 60,
	"CEST": 120, "MEST": 120, "EET": 120, "SAST": 120, "CAT": 120, "IST": 330,
	"EEST": 180, "MSK": 180, "EAT": 180,
	"PKT": 300, "ICT": 420, "WIB": 420,
	"CST": -360, "CDT": -300, "EST": -300, "EDT": -240,
	"MST": -420, "MDT": -360, "PST": -480, "PDT": -420,
	"AKST": -540, "AKDT": -480, "HST": -600,
	"AST": -240, "ADT": -180, "NST": -210, "NDT": -150,
	"BRT": -180, "ART": -180,
	"SGT": 480, "HKT": 480, "AWST": 480, "PHT": 480,
	"JST": 540, "KST": 540, "ACST": 570, "ACDT": 630,
	"AEST": 600, "AEDT": 660, "NZST": 720, "NZDT": 780,
}

// GetRecordings fetches the recordings of the given meetings. IDs are sent
// in pages, and the entries of every page are concatenated in page order.
// The first failing page aborts the remaining ones and its error is
// returned; results of earlier pages are discarded.
func (c *Client) GetRecordings(ctx context.Context, meetingIDs []string) (*xmlvalue.Map, error) {
	pages := paginate(meetingIDs, c.config.RecordingPageSize)
	pool := concurrent.NewWorkerPool(c.config.RecordingPageConcurrency)

	results, err := concurrent.Collect(ctx, pool, len(pages), func(ctx context.Context, i int) (xmlvalue.List, error) {
		return c.getRecordingsPage(ctx, pages[i])
	})
	if err != nil {
		return nil, err
	}

	merged := xmlvalue.List{}
	for _, page := range results {
		merged = append(merged, page...)
	}
	return c.recordingsResult(merged), nil
}

// GetAllRecordings fetches every recording the server knows about in a
// single unfiltered call.
func (c *Client) GetAllRecordings(ctx context.Context) (*xmlvalue.Map, error) {
	recordings, err := c.getRecordingsPage(ctx, nil)
	if err != nil {
		return nil, err
	}
	return c.recordingsResult(recordings), nil
}

func (c *Client) recordingsResult(recordings xmlvalue.List) *xmlvalue.Map {
	result := xmlvalue.MapOf(
		"returncode", returnCodeSuccess,
		"recordings", recordings,
	)
	c.config.Profile.adaptRecordings(result)
	return result
}

// getRecordingsPage issues one getRecordings call for a comma-joined list
// of meeting IDs and returns its normalized recording entries. A response
// without a recordings list, such as the noRecordings answer, is an empty
// page.
func (c *Client) getRecordingsPage(ctx context.Context, meetingIDs []string) (xmlvalue.List, error) {
	q := c.newQuery().add("meetingID", strings.Join(meetingIDs, ","))
	response, err := c.do(ctx, c.get(CallGetRecordings, q))
	if err != nil {
		return nil, err
	}

	recordings, ok := response.GetList("recordings")
	if !ok {
		return xmlvalue.List{}, nil
	}
	for _, item := range recordings {
		if entry, ok := item.(*xmlvalue.Map); ok {
			entry.Set("startTime", xmlvalue.Scalar(normalizeTimestamp(entry.GetString("startTime"))))
			entry.Set("endTime", xmlvalue.Scalar(normalizeTimestamp(entry.GetString("endTime"))))
		}
	}
	return recordings, nil
}

// paginate splits ids into consecutive pages of at most size entries.
func paginate(ids []string, size int) [][]string {
	var pages [][]string
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		pages = append(pages, ids[start:end])
	}
	return pages
}

// normalizeTimestamp returns an epoch millisecond string truncated to whole
// seconds. Values that are neither epoch milliseconds nor in the legacy
// layout become "".
func normalizeTimestamp(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return strconv.FormatInt(floorToSecond(ms), 10)
	}
	if t, ok := parseLegacyTime(raw); ok {
		return strconv.FormatInt(floorToSecond(t.UnixMilli()), 10)
	}
	return ""
}

// parseLegacyTime reads "Thu Mar 04 14:05:30 EST 2010". The zone may also be
// a GMT offset such as "GMT+05:30". Unknown zones fail.
func parseLegacyTime(raw string) (time.Time, bool) {
	fields := strings.Fields(raw)
	if len(fields) != 6 {
		return time.Time{}, false
	}
	offset, ok := zoneOffset(fields[4])
	if !ok {
		return time.Time{}, false
	}
	value := strings.Join(append(fields[:4:4], fields[5]), " ")
	t, err := time.ParseInLocation(legacyTimeLayout, value, time.FixedZone(fields[4], offset*60))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// zoneOffset returns the UTC offset in minutes of a zone abbreviation or a
// "GMT+hh:mm" style offset.
func zoneOffset(zone string) (int, bool) {
	if offset, ok := zoneOffsets[zone]; ok {
		return offset, true
	}
	rest, found := strings.CutPrefix(zone, "GMT")
	if !found {
		rest, found = strings.CutPrefix(zone, "UTC")
	}
	if !found || len(rest) < 2 || (rest[0] != '+' && rest[0] != '-') {
		return 0, false
	}
	hh, mm, _ := strings.Cut(rest[1:], ":")
	hours, err := strconv.Atoi(hh)
	if err != nil || hours > 14 {
		return 0, false
	}
	minutes := 0
	if mm != "" {
		if minutes, err = strconv.Atoi(mm); err != nil || minutes > 59 {
			return 0, false
		}
	}
	offset := hours*60 + minutes
	if rest[0] == '-' {
		offset = -offset
	}
	return offset, true
}

func floorToSecond(ms int64) int64 {
	rem := ms % 1000
	if rem < 0 {
		rem += 1000
	}
	return ms - rem
}
