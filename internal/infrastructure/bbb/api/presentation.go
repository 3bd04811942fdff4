// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"context"
	"encoding/xml"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/logging"
)

const presentationContentType = "text/xml"

// preloads reports whether create should carry the request's presentation.
func (c *Client) preloads(req *models.MeetingRequest) bool {
	return req.Presentation != "" &&
		c.config.PreuploadPresentation &&
		c.config.Profile.PresentationPreload &&
		c.grantor != nil
}

// grantPresentation asks the document store to expose the presentation and
// returns its public URL together with a release function. The release
// function revokes the grant on a context detached from ctx and must be
// called on every exit path. A failed grant yields an empty URL and a no-op
// release, and the meeting is created without a presentation.
func (c *Client) grantPresentation(ctx context.Context, reference string) (string, func()) {
	url, err := c.grantor.GrantPublicRead(ctx, reference)
	if err != nil || url == "" {
		slog.WarnContext(ctx, "unable to grant public access to presentation, creating meeting without it",
			"presentation", reference,
			logging.ErrKey, err,
		)
		return "", func() {}
	}

	release := func() {
		revokeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.RevokeTimeout)
		defer cancel()
		if errRevoke := c.grantor.RevokePublicRead(revokeCtx, reference); errRevoke != nil {
			slog.ErrorContext(revokeCtx, "unable to revoke public access to presentation",
				"presentation", reference,
				logging.ErrKey, errRevoke,
				logging.PriorityCritical(),
			)
		}
	}
	return url, release
}

// withPresentation turns a create request into a POST carrying the modules
// document.
func withPresentation(call request, url string) request {
	call.method = http.MethodPost
	call.body = presentationBody(url)
	call.contentType = presentationContentType
	return call
}

// presentationBody renders the modules document naming the presentation URL.
func presentationBody(url string) []byte {
	var buf bytes.Buffer
	buf.WriteString("<?xml version='1.0' encoding='UTF-8'?>")
	buf.WriteString(`<modules><module name="presentation"><document url="`)
	// Escape errors only come from the writer, and bytes.Buffer never fails.
	_ = xml.EscapeText(&buf, []byte(url))
	buf.WriteString(`" /></module></modules>`)
	return buf.Bytes()
}
