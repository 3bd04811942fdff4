// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package xmlvalue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSetKeepsPosition(t *testing.T) {
	m := NewMap()
	m.Set("a", Scalar("1"))
	m.Set("b", Scalar("2"))
	m.Set("a", Null{})

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, Null{}, v)
	assert.True(t, m.Has("a"))
	assert.Equal(t, "", m.GetString("a"))
}

func TestMapZeroValueUsable(t *testing.T) {
	var m Map
	m.Set("x", Scalar("y"))
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "y", m.GetString("x"))
}

func TestMapDelete(t *testing.T) {
	m := MapOf("a", "1", "b", "2", "c", "3")
	m.Delete("b")
	m.Delete("missing")

	assert.Equal(t, []string{"a", "c"}, m.Keys())
	assert.False(t, m.Has("b"))
}

func TestNilMapAccessors(t *testing.T) {
	var m *Map
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Keys())
	assert.False(t, m.Has("a"))
	assert.Equal(t, "", m.GetString("a"))
	assert.True(t, m.Equal(NewMap()))
}

func TestEqual(t *testing.T) {
	a := MapOf("x", "1", "y", List{Scalar("a"), Null{}})
	b := MapOf("x", "1", "y", List{Scalar("a"), Null{}})
	reordered := MapOf("y", List{Scalar("a"), Null{}}, "x", "1")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(reordered))
	assert.False(t, Equal(Scalar(""), Null{}))
	assert.False(t, Equal(List{}, Scalar("")))
}

func TestMarshalJSONKeepsOrder(t *testing.T) {
	m := MapOf(
		"returncode", "SUCCESS",
		"attendeePW", nil,
		"recordings", List{MapOf("recordID", "r1")},
	)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"returncode":"SUCCESS","attendeePW":null,"recordings":[{"recordID":"r1"}]}`, string(data))
}

func TestToAny(t *testing.T) {
	m := MapOf("a", "1", "b", nil, "c", List{MapOf("d", "2")})

	assert.Equal(t, map[string]any{
		"a": "1",
		"b": nil,
		"c": []any{map[string]any{"d": "2"}},
	}, ToAny(m))
}

func TestMapAs(t *testing.T) {
	type format struct {
		Type string `xml:"type"`
		URL  string `xml:"url"`
	}
	type recording struct {
		RecordID  string   `xml:"recordID"`
		Published bool     `xml:"published"`
		Size      int64    `xml:"size"`
		Playback  []format `xml:"playback"`
	}

	m := MapOf(
		"recordID", "r1",
		"published", "true",
		"size", "2048",
		"playback", List{MapOf("type", "video", "url", "https://bbb.example.org/v")},
	)

	var got recording
	require.NoError(t, m.As(&got))
	assert.Equal(t, recording{
		RecordID:  "r1",
		Published: true,
		Size:      2048,
		Playback:  []format{{Type: "video", URL: "https://bbb.example.org/v"}},
	}, got)
}

func TestMapOfPanicsOnOddArguments(t *testing.T) {
	assert.Panics(t, func() { MapOf("a") })
	assert.Panics(t, func() { MapOf(1, "a") })
}

func TestMapAsEmptyElements(t *testing.T) {
	type attendee struct {
		UserID string `xml:"userID"`
	}
	type info struct {
		MeetingID        string     `xml:"meetingID"`
		ParticipantCount int        `xml:"participantCount"`
		Running          bool       `xml:"running"`
		Attendees        []attendee `xml:"attendees"`
	}

	m := MapOf(
		"meetingID", "abc",
		"participantCount", "",
		"running", nil,
		"attendees", "",
	)

	var got info
	require.NoError(t, m.As(&got))
	assert.Equal(t, info{MeetingID: "abc"}, got)
}
