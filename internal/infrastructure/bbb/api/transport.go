// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/logging"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 16 << 20

// Transport performs a single HTTP round trip and returns the response body.
// Implementations never retry.
type Transport interface {
	Do(ctx context.Context, method, url string, body []byte, contentType string) ([]byte, error)
}

// HTTPTransport is the net/http Transport.
type HTTPTransport struct {
	httpClient *http.Client
}

// NewHTTPTransport wraps httpClient. A nil client gets an instrumented client
// with the default timeout.
func NewHTTPTransport(httpClient *http.Client) *HTTPTransport {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   DefaultClientTimeout,
			Transport: newInstrumentedRoundTripper(),
		}
	}
	return &HTTPTransport{httpClient: httpClient}
}

func newInstrumentedRoundTripper() http.RoundTripper {
	return otelhttp.NewTransport(http.DefaultTransport)
}

var _ Transport = (*HTTPTransport)(nil)

// Do issues the request. A non-2xx status is returned as an HTTP protocol
// error without reading the body, and every network failure as unreachable.
func (t *HTTPTransport) Do(ctx context.Context, method, url string, body []byte, contentType string) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, domain.NewMisconfiguredError("invalid request URL", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "text/xml, application/xml")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewUnreachableError("request failed", err)
	}
	defer func() {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		if errClose := resp.Body.Close(); errClose != nil {
			slog.DebugContext(ctx, "error closing response body", logging.ErrKey, errClose)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.NewHTTPError(resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, domain.NewUnreachableError("reading response body", err)
	}
	if len(data) > maxResponseBytes {
		return nil, domain.NewInvalidResponseError(fmt.Sprintf("response body exceeds %d bytes", maxResponseBytes))
	}
	return data, nil
}
