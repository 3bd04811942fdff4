// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
)

var otelEnvVars = []string{
	"OTEL_SERVICE_NAME",
	"OTEL_SERVICE_VERSION",
	"OTEL_EXPORTER_OTLP_PROTOCOL",
	"OTEL_EXPORTER_OTLP_ENDPOINT",
	"OTEL_EXPORTER_OTLP_INSECURE",
	"OTEL_TRACES_EXPORTER",
	"OTEL_TRACES_SAMPLE_RATIO",
	"OTEL_METRICS_EXPORTER",
	"OTEL_LOGS_EXPORTER",
}

// setOTelEnv clears every OTEL_* variable and then applies env.
func setOTelEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range otelEnvVars {
		t.Setenv(key, env[key])
	}
}

func disabledOTelConfig() OTelConfig {
	return OTelConfig{
		ServiceName:       "lfx-v2-bbb-service-test",
		Protocol:          OTelProtocolGRPC,
		TracesExporter:    OTelExporterNone,
		TracesSampleRatio: 1.0,
		MetricsExporter:   OTelExporterNone,
		LogsExporter:      OTelExporterNone,
	}
}

func TestOTelConfigFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected OTelConfig
	}{
		{
			name: "defaults export nothing",
			env:  nil,
			expected: OTelConfig{
				ServiceName:       "lfx-v2-bbb-service",
				Protocol:          OTelProtocolGRPC,
				TracesExporter:    OTelExporterNone,
				TracesSampleRatio: 1.0,
				MetricsExporter:   OTelExporterNone,
				LogsExporter:      OTelExporterNone,
			},
		},
		{
			name: "everything set",
			env: map[string]string{
				"OTEL_SERVICE_NAME":           "bbb-api",
				"OTEL_SERVICE_VERSION":        "1.2.3",
				"OTEL_EXPORTER_OTLP_PROTOCOL": "http",
				"OTEL_EXPORTER_OTLP_ENDPOINT": "collector:4318",
				"OTEL_EXPORTER_OTLP_INSECURE": "true",
				"OTEL_TRACES_EXPORTER":        "otlp",
				"OTEL_TRACES_SAMPLE_RATIO":    "0.25",
				"OTEL_METRICS_EXPORTER":       "otlp",
				"OTEL_LOGS_EXPORTER":          "otlp",
			},
			expected: OTelConfig{
				ServiceName:       "bbb-api",
				ServiceVersion:    "1.2.3",
				Protocol:          OTelProtocolHTTP,
				Endpoint:          "collector:4318",
				Insecure:          true,
				TracesExporter:    OTelExporterOTLP,
				TracesSampleRatio: 0.25,
				MetricsExporter:   OTelExporterOTLP,
				LogsExporter:      OTelExporterOTLP,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setOTelEnv(t, tt.env)
			assert.Equal(t, tt.expected, OTelConfigFromEnv())
		})
	}
}

func TestOTelConfigFromEnv_SampleRatio(t *testing.T) {
	tests := []struct {
		value    string
		expected float64
	}{
		{value: "0", expected: 0},
		{value: "0.01", expected: 0.01},
		{value: "1", expected: 1},
		{value: "-0.5", expected: 1},
		{value: "1.5", expected: 1},
		{value: "half", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			setOTelEnv(t, map[string]string{"OTEL_TRACES_SAMPLE_RATIO": tt.value})
			assert.InDelta(t, tt.expected, OTelConfigFromEnv().TracesSampleRatio, 1e-9)
		})
	}
}

func TestSetupOTelSDK_Disabled(t *testing.T) {
	ctx := context.Background()

	shutdown, err := SetupOTelSDKWithConfig(ctx, disabledOTelConfig())
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	// Shutdown is safe to call more than once.
	assert.NoError(t, shutdown(ctx))
	assert.NoError(t, shutdown(ctx))

	setOTelEnv(t, nil)
	shutdown, err = SetupOTelSDK(ctx)
	require.NoError(t, err)
	assert.NoError(t, shutdown(ctx))
}

func TestNewResource(t *testing.T) {
	tests := []struct {
		name            string
		cfg             OTelConfig
		expectedVersion string
	}{
		{name: "with version", cfg: OTelConfig{ServiceName: "bbb-api", ServiceVersion: "0.4.0"}, expectedVersion: "0.4.0"},
		{name: "without version", cfg: OTelConfig{ServiceName: "bbb-api"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newResource(tt.cfg)
			require.NoError(t, err)

			attrs := map[string]string{}
			for _, kv := range res.Attributes() {
				attrs[string(kv.Key)] = kv.Value.Emit()
			}
			assert.Equal(t, tt.cfg.ServiceName, attrs["service.name"])
			if tt.expectedVersion != "" {
				assert.Equal(t, tt.expectedVersion, attrs["service.version"])
			} else {
				assert.NotContains(t, attrs, "service.version")
			}
		})
	}
}

func TestNewPropagator(t *testing.T) {
	prop := newPropagator()

	fields := prop.Fields()
	for _, field := range []string{"traceparent", "tracestate", "baggage", "uber-trace-id"} {
		assert.Contains(t, fields, field)
	}

	carrier := propagation.MapCarrier{}
	prop.Inject(context.Background(), carrier)
	assert.Empty(t, carrier.Get("traceparent"), "no span means nothing to inject")
}
