// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain"
)

// GetVersion returns the version string reported by the server. The version
// endpoint takes no parameters and no checksum.
func (c *Client) GetVersion(ctx context.Context) (string, error) {
	call := request{
		call:     CallVersion,
		method:   http.MethodGet,
		url:      c.config.BaseURL + apiPath + "/",
		unsigned: true,
	}
	response, err := c.do(ctx, call)
	if err != nil {
		return "", err
	}
	return response.GetString("version"), nil
}

// DetectVersion asks the server for its version. Servers that predate the
// version endpoint answer with noActionSpecified and are reported as
// MinimumVersion.
func (c *Client) DetectVersion(ctx context.Context) (string, error) {
	version, err := c.GetVersion(ctx)
	if domain.IsMessageKey(err, domain.MessageKeyNoActionSpecified) {
		slog.InfoContext(ctx, "conferencing server does not report its version, assuming minimum",
			"version", MinimumVersion,
		)
		return MinimumVersion, nil
	}
	if err != nil {
		return "", err
	}
	if version == "" {
		return MinimumVersion, nil
	}
	return version, nil
}

// Detect returns a copy of the client using the profile matching the
// server's version.
func (c *Client) Detect(ctx context.Context) (*Client, string, error) {
	version, err := c.DetectVersion(ctx)
	if err != nil {
		return nil, "", err
	}
	profile := ProfileFor(version)
	slog.InfoContext(ctx, "detected conferencing server version",
		"version", version,
		"profile", profile.Name,
		"snapshot", ParseVersion(version).Snapshot,
	)
	return c.WithProfile(profile), version, nil
}
