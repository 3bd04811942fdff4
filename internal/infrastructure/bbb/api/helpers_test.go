// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

const testSecret = "s3cr3t"

// recordedRequest is what the fake conferencing server saw.
type recordedRequest struct {
	Method      string
	Path        string
	RawQuery    string
	Body        string
	ContentType string
}

// unsignedQuery returns the query without the trailing checksum parameter.
func (r recordedRequest) unsignedQuery() string {
	if i := strings.LastIndex(r.RawQuery, "&checksum="); i >= 0 {
		return r.RawQuery[:i]
	}
	return strings.TrimPrefix(r.RawQuery, "checksum=")
}

func (r recordedRequest) checksum() string {
	if i := strings.LastIndex(r.RawQuery, "checksum="); i >= 0 {
		return r.RawQuery[i+len("checksum="):]
	}
	return ""
}

// fakeServer is an httptest server that records requests and answers with a
// caller supplied responder.
type fakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

type responder func(req recordedRequest, index int) (status int, body string)

func newFakeServer(t *testing.T, respond responder) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec := recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			Body:        string(body),
			ContentType: r.Header.Get("Content-Type"),
		}
		fs.mu.Lock()
		index := len(fs.requests)
		fs.requests = append(fs.requests, rec)
		fs.mu.Unlock()

		status, payload := respond(rec, index)
		w.Header().Set("Content-Type", "text/xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) recorded() []recordedRequest {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]recordedRequest(nil), fs.requests...)
}

func (fs *fakeServer) client(mutate ...func(*Config)) *Client {
	cfg := Config{
		BaseURL: fs.URL + "/bigbluebutton/",
		Secret:  testSecret,
		Now:     func() time.Time { return time.Unix(1700000000, 0) },
	}
	for _, m := range mutate {
		m(&cfg)
	}
	return NewClient(cfg)
}

func always(body string) responder {
	return func(recordedRequest, int) (int, string) {
		return http.StatusOK, body
	}
}

const successBody = `<response><returncode>SUCCESS</returncode></response>`

// fakeGrantor records grant and revoke calls.
type fakeGrantor struct {
	mu        sync.Mutex
	url       string
	grantErr  error
	granted   []string
	revoked   []string
	// revokeErr and revokeHasDeadline describe the revoke context at call time.
	revokeErr         error
	revokeHasDeadline bool
}

func (g *fakeGrantor) GrantPublicRead(_ context.Context, reference string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.granted = append(g.granted, reference)
	if g.grantErr != nil {
		return "", g.grantErr
	}
	return g.url, nil
}

func (g *fakeGrantor) RevokePublicRead(ctx context.Context, reference string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.revoked = append(g.revoked, reference)
	g.revokeErr = ctx.Err()
	_, g.revokeHasDeadline = ctx.Deadline()
	return nil
}

var errGrantFailed = errors.New("document store unavailable")
