// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain/models"
)

type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration for the Services.
type ServiceConfig struct {
	// AutocloseLogoutURL is sent as the logout URL of meetings that do not
	// name one, so that the meeting window closes itself.
	AutocloseLogoutURL string
	// RecordingEnabled allows meetings to be recorded. When false the record
	// flag of every request is cleared.
	RecordingEnabled bool
	// RecordingReadyURL is called back by the server when a recording has
	// been processed. Sent only for recorded meetings.
	RecordingReadyURL string
	// RecordingFormats filters the playback formats returned to callers.
	// Nil selects the default whitelist.
	RecordingFormats *models.RecordingFormatFilter
}
