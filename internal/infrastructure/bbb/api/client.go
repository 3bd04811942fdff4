// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/infrastructure/bbb/xmlvalue"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/logging"
)

const (
	// DefaultClientTimeout is the default HTTP client timeout for conferencing server requests
	DefaultClientTimeout = 30 * time.Second
	// DefaultRevokeTimeout bounds the revoke of a presentation grant
	DefaultRevokeTimeout = 10 * time.Second
	// DefaultRecordingPageSize is the number of meeting IDs sent per getRecordings call
	DefaultRecordingPageSize = 25
	// DefaultRecordingPageConcurrency keeps recording pages strictly sequential
	DefaultRecordingPageConcurrency = 1

	apiPath = "/api"

	returnCodeSuccess = "SUCCESS"
	returnCodeFailed  = "FAILED"
)

// tracerName is the instrumentation name for the conferencing client.
const tracerName = "github.com/linuxfoundation/lfx-v2-bbb-service/internal/infrastructure/bbb/api"

// API call names, as they appear in the request path.
const (
	CallCreate           = "create"
	CallIsMeetingRunning = "isMeetingRunning"
	CallGetMeetingInfo   = "getMeetingInfo"
	CallGetMeetings      = "getMeetings"
	CallEnd              = "end"
	CallJoin             = "join"
	CallGetRecordings    = "getRecordings"
	CallPublishRecording = "publishRecordings"
	CallUpdateRecordings = "updateRecordings"
	CallDeleteRecordings = "deleteRecordings"
	CallVersion          = "version"
)

// Config holds the configuration for the conferencing client
type Config struct {
	// BaseURL of the server, with or without the trailing /api
	BaseURL string
	// Secret shared with the server. Required unless AllowUnsigned is set.
	Secret string
	// AllowUnsigned sends requests without a checksum when Secret is empty
	AllowUnsigned bool
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
	// Optional: protocol profile, defaults to ProfileCurrent
	Profile Profile
	// PreuploadPresentation posts the request's presentation on create when
	// the profile supports it
	PreuploadPresentation bool
	// Optional: recording pagination
	RecordingPageSize        int
	RecordingPageConcurrency int
	// Optional: timeout of the detached presentation revoke
	RevokeTimeout time.Duration
	// Optional: collaborators, mostly overridden in tests
	Transport Transport
	Signer    Signer
	Grantor   domain.DocumentAccessGrantor
	Now       func() time.Time
}

// Client is the conferencing server protocol client. It is immutable after
// construction and safe for concurrent use.
type Client struct {
	config       Config
	transport    Transport
	signer       Signer
	customSigner bool
	grantor      domain.DocumentAccessGrantor

	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// Ensure that Client implements domain.ConferencingClient
var _ domain.ConferencingClient = (*Client)(nil)

// NewClient creates a new conferencing client
func NewClient(config Config) *Client {
	// Set defaults if not provided
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	if config.Profile.Name == "" {
		config.Profile = ProfileCurrent
	}
	if config.RecordingPageSize <= 0 {
		config.RecordingPageSize = DefaultRecordingPageSize
	}
	if config.RecordingPageConcurrency <= 0 {
		config.RecordingPageConcurrency = DefaultRecordingPageConcurrency
	}
	if config.RevokeTimeout == 0 {
		config.RevokeTimeout = DefaultRevokeTimeout
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	config.BaseURL = normalizeBaseURL(config.BaseURL)

	c := &Client{
		config:       config,
		transport:    config.Transport,
		signer:       config.Signer,
		customSigner: config.Signer != nil,
		grantor:      config.Grantor,
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport(&http.Client{
			Timeout:   config.Timeout,
			Transport: newInstrumentedRoundTripper(),
		})
	}
	if !c.customSigner {
		c.signer = NewSHA1Signer(config.Secret, config.Profile.Checksum)
	}
	c.initMetrics()
	return c
}

// WithProfile returns a copy of the client speaking the given profile.
func (c *Client) WithProfile(p Profile) *Client {
	clone := *c
	clone.config.Profile = p
	if !clone.customSigner {
		clone.signer = NewSHA1Signer(clone.config.Secret, p.Checksum)
	}
	return &clone
}

// Profile returns the protocol profile in use.
func (c *Client) Profile() Profile {
	return c.config.Profile
}

func (c *Client) initMetrics() {
	meter := otel.Meter(tracerName)
	requests, err := meter.Int64Counter("bbb.api.requests",
		metric.WithDescription("Conferencing server API calls by outcome"))
	if err != nil {
		slog.Warn("unable to create request counter", logging.ErrKey, err)
		requests = noop.Int64Counter{}
	}
	duration, err := meter.Float64Histogram("bbb.api.duration",
		metric.WithDescription("Conferencing server API call duration"),
		metric.WithUnit("s"))
	if err != nil {
		slog.Warn("unable to create duration histogram", logging.ErrKey, err)
		duration = noop.Float64Histogram{}
	}
	c.requests = requests
	c.duration = duration
}

// normalizeBaseURL strips trailing slashes and a trailing /api so that both
// forms of the configured URL produce the same request URLs.
func normalizeBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	return strings.TrimSuffix(base, apiPath)
}

// validateConfig reports configuration problems before any network attempt.
func (c *Client) validateConfig(unsigned bool) error {
	if c.config.BaseURL == "" {
		return domain.NewMisconfiguredError("conferencing server URL is not configured")
	}
	if !unsigned && c.config.Secret == "" && !c.config.AllowUnsigned && !c.customSigner {
		return domain.NewMisconfiguredError("conferencing server secret is not configured")
	}
	return nil
}

// signedQuery returns the query with the checksum appended last. The
// checksum parameter is omitted when the signer returns an empty token.
func (c *Client) signedQuery(apiCall string, q *query) string {
	raw := q.String()
	checksum := c.signer.Sign(apiCall, raw)
	if checksum == "" {
		return raw
	}
	if raw == "" {
		return "checksum=" + checksum
	}
	return raw + "&checksum=" + checksum
}

// callURL builds {base}/api/{call}?{query}&checksum={token}.
func (c *Client) callURL(apiCall string, q *query) string {
	return c.config.BaseURL + apiPath + "/" + apiCall + "?" + c.signedQuery(apiCall, q)
}

func (c *Client) newQuery() *query {
	return newQuery(c.config.Profile.Charset)
}

// request describes a single round trip.
type request struct {
	call        string
	url         string
	method      string
	body        []byte
	contentType string
	meetingID   string
	// unsigned requests are allowed without a configured secret
	unsigned bool
}

// get prepares a signed GET request.
func (c *Client) get(apiCall string, q *query) request {
	return request{call: apiCall, method: http.MethodGet, url: c.callURL(apiCall, q)}
}

// do performs the round trip, decodes the response and classifies failures.
// A response with returncode FAILED is returned as an API failure carrying
// the server's messageKey and message.
func (c *Client) do(ctx context.Context, req request) (*xmlvalue.Map, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "bbb.api."+req.call,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("bbb.api.call", req.call),
			attribute.String("bbb.profile", c.config.Profile.Name),
			attribute.String("http.request.method", req.method),
		),
	)
	defer span.End()

	if req.meetingID != "" {
		span.SetAttributes(attribute.String("bbb.meeting_id", req.meetingID))
		ctx = logging.AppendCtx(ctx, logging.MeetingID(req.meetingID))
	}
	ctx = logging.AppendCtx(ctx, logging.APICall(req.call))

	start := c.config.Now()
	response, err := c.roundTrip(ctx, req)
	elapsed := c.config.Now().Sub(start)

	outcome := "success"
	if err != nil {
		outcome = domain.KindOf(err).String()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	attrs := metric.WithAttributes(
		attribute.String("call", req.call),
		attribute.String("outcome", outcome),
	)
	c.requests.Add(ctx, 1, attrs)
	c.duration.Record(ctx, elapsed.Seconds(), attrs)

	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "conferencing server request completed",
		"duration", elapsed.String(),
	)
	return response, nil
}

func (c *Client) roundTrip(ctx context.Context, req request) (*xmlvalue.Map, error) {
	if err := c.validateConfig(req.unsigned); err != nil {
		return nil, withCall(err, req.call)
	}

	slog.DebugContext(ctx, "making conferencing server request",
		"method", req.method,
		"url", redactURL(req.url),
	)

	data, err := c.transport.Do(ctx, req.method, req.url, req.body, req.contentType)
	if err != nil {
		slog.WarnContext(ctx, "conferencing server request failed", logging.ErrKey, err)
		return nil, withCall(err, req.call)
	}

	response, err := xmlvalue.Decode(data)
	if err != nil {
		err = domain.NewInvalidResponseError("unable to decode response", err)
		slog.ErrorContext(ctx, "conferencing server returned an invalid response",
			logging.ErrKey, err,
			logging.PriorityCritical(),
		)
		return nil, withCall(err, req.call)
	}

	if response.GetString("returncode") == returnCodeFailed {
		err := domain.NewAPIFailure(response.GetString("messageKey"), response.GetString("message"))
		slog.InfoContext(ctx, "conferencing server reported a failure",
			"message_key", err.MessageKey,
			"message", err.Message,
		)
		return nil, withCall(err, req.call)
	}
	return response, nil
}

func redactURL(u string) string {
	base, rawQuery, found := strings.Cut(u, "?")
	if !found {
		return u
	}
	return base + "?" + logging.RedactQuery(rawQuery)
}

// withCall stamps the API call name on a copy of protocol errors. Anything
// else is reported as unreachable, since only transport failures can
// produce it.
func withCall(err error, apiCall string) error {
	var protoErr *domain.ProtocolError
	if !errors.As(err, &protoErr) {
		protoErr = domain.NewUnreachableError("request failed", err)
	}
	if protoErr.Call != "" {
		return protoErr
	}
	stamped := *protoErr
	stamped.Call = apiCall
	return &stamped
}
