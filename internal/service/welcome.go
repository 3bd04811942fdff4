// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"
)

// Placeholders the conferencing server substitutes in the welcome message.
const (
	PlaceholderConferenceName   = "%%CONFNAME%%"
	PlaceholderDialNumber       = "%%DIALNUM%%"
	PlaceholderConferenceNumber = "%%CONFNUM%%"
)

const (
	welcomeSeparator = "<br><br>"
	// emptyEditorValue is what rich text editors submit for an empty description.
	emptyEditorValue = "<br />"
)

// ComposeWelcome builds the welcome message shown when a participant joins.
func ComposeWelcome(description string, record bool, durationMinutes int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome to <b>%s</b>!", PlaceholderConferenceName)

	if d := strings.TrimSpace(description); d != "" && d != emptyEditorValue {
		b.WriteString(welcomeSeparator)
		b.WriteString(d)
	}

	b.WriteString(welcomeSeparator)
	fmt.Fprintf(&b, "To join the audio conference by phone, dial %s and enter the conference number %s.",
		PlaceholderDialNumber, PlaceholderConferenceNumber)

	if record {
		b.WriteString(welcomeSeparator)
		b.WriteString("<b>This meeting is being recorded.</b>")
	}
	if durationMinutes > 0 {
		b.WriteString(welcomeSeparator)
		fmt.Fprintf(&b, "<b>This meeting will end automatically after %d minutes.</b>", durationMinutes)
	}
	return b.String()
}
