// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
)

// PublishRecordings publishes or unpublishes a recording.
func (c *Client) PublishRecordings(ctx context.Context, recordID string, publish bool) error {
	q := c.newQuery().
		add("recordID", recordID).
		addBool("publish", publish)
	_, err := c.do(ctx, c.get(CallPublishRecording, q))
	return err
}

// ProtectRecordings marks a recording as protected, or clears the flag.
func (c *Client) ProtectRecordings(ctx context.Context, recordID string, protect bool) error {
	q := c.newQuery().
		add("recordID", recordID).
		addBool("protect", protect)
	_, err := c.do(ctx, c.get(CallUpdateRecordings, q))
	return err
}

// DeleteRecordings removes a recording from the server.
func (c *Client) DeleteRecordings(ctx context.Context, recordID string) error {
	q := c.newQuery().add("recordID", recordID)
	_, err := c.do(ctx, c.get(CallDeleteRecordings, q))
	return err
}
