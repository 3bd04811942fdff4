// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectedErr string
		check       func(t *testing.T, env environment)
	}{
		{
			name: "defaults",
			env: map[string]string{
				"BBB_URL":    "https://bbb.example.org/bigbluebutton",
				"BBB_SECRET": "s3cret",
			},
			check: func(t *testing.T, env environment) {
				assert.Equal(t, "8080", env.Port)
				assert.Equal(t, "nats://localhost:4222", env.NatsURL)
				assert.False(t, env.DocumentsGrantEnabled)
				assert.Equal(t, bbbConfig{URL: "https://bbb.example.org/bigbluebutton", Secret: "s3cret"}, env.BBB)
				assert.True(t, env.Meetings.RecordingEnabled)
			},
		},
		{
			name: "everything set",
			env: map[string]string{
				"PORT":                           "9090",
				"NATS_URL":                       "nats://nats:4222",
				"DOCUMENTS_GRANT_ENABLED":        "true",
				"BBB_URL":                        "https://bbb.example.org/bigbluebutton/api",
				"BBB_SECRET":                     "s3cret",
				"BBB_API_VERSION":                " 0.81 ",
				"BBB_TIMEOUT":                    "5s",
				"BBB_PREUPLOAD_PRESENTATION":     "true",
				"BBB_RECORDING_PAGE_CONCURRENCY": "4",
				"BBB_AUTOCLOSE_LOGOUT_URL":       "https://app.example.org/close",
				"BBB_RECORDING_ENABLED":          "false",
				"BBB_RECORDING_READY_URL":        "https://app.example.org/ready",
				"BBB_RECORDING_FORMAT_WHITELIST": "presentation,podcast",
			},
			check: func(t *testing.T, env environment) {
				assert.Equal(t, "9090", env.Port)
				assert.Equal(t, "nats://nats:4222", env.NatsURL)
				assert.True(t, env.DocumentsGrantEnabled)
				assert.Equal(t, bbbConfig{
					URL:                      "https://bbb.example.org/bigbluebutton/api",
					Secret:                   "s3cret",
					APIVersion:               "0.81",
					Timeout:                  5 * time.Second,
					PreuploadPresentation:    true,
					RecordingPageConcurrency: 4,
				}, env.BBB)
				assert.Equal(t, meetingsConfig{
					AutocloseLogoutURL:       "https://app.example.org/close",
					RecordingEnabled:         false,
					RecordingReadyURL:        "https://app.example.org/ready",
					RecordingFormatWhitelist: "presentation,podcast",
				}, env.Meetings)
			},
		},
		{
			name: "invalid numbers fall back to defaults",
			env: map[string]string{
				"BBB_URL":                        "https://bbb.example.org/bigbluebutton",
				"BBB_SECRET":                     "s3cret",
				"BBB_TIMEOUT":                    "soon",
				"BBB_RECORDING_PAGE_CONCURRENCY": "0",
			},
			check: func(t *testing.T, env environment) {
				assert.Zero(t, env.BBB.Timeout)
				assert.Zero(t, env.BBB.RecordingPageConcurrency)
			},
		},
		{
			name: "unsigned without secret",
			env: map[string]string{
				"BBB_URL":            "http://localhost:8090/bigbluebutton",
				"BBB_ALLOW_UNSIGNED": "true",
			},
			check: func(t *testing.T, env environment) {
				assert.True(t, env.BBB.AllowUnsigned)
				assert.Empty(t, env.BBB.Secret)
			},
		},
		{
			name:        "missing url",
			env:         map[string]string{"BBB_SECRET": "s3cret"},
			expectedErr: "BBB_URL environment variable is required",
		},
		{
			name:        "relative url",
			env:         map[string]string{"BBB_URL": "bbb.example.org", "BBB_SECRET": "s3cret"},
			expectedErr: "BBB_URL must be an absolute URL",
		},
		{
			name:        "missing secret",
			env:         map[string]string{"BBB_URL": "https://bbb.example.org/bigbluebutton"},
			expectedErr: "BBB_SECRET environment variable is required",
		},
	}

	vars := []string{
		"PORT", "NATS_URL", "DOCUMENTS_GRANT_ENABLED",
		"BBB_URL", "BBB_SECRET", "BBB_API_VERSION", "BBB_TIMEOUT", "BBB_ALLOW_UNSIGNED",
		"BBB_PREUPLOAD_PRESENTATION", "BBB_RECORDING_PAGE_CONCURRENCY",
		"BBB_AUTOCLOSE_LOGOUT_URL", "BBB_RECORDING_ENABLED", "BBB_RECORDING_READY_URL",
		"BBB_RECORDING_FORMAT_WHITELIST",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range vars {
				t.Setenv(v, tt.env[v])
			}

			env, err := parseEnv()

			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, env)
		})
	}
}
