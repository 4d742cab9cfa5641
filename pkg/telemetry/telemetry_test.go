package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/sort-bench/pkg/model"
)

func clearOtelEnv(t *testing.T) {
	for _, k := range []string{
		"OTEL_ENABLED", "OTEL_SERVICE_NAME", "OTEL_SERVICE_VERSION",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_PROTOCOL",
		"OTEL_EXPORTER_OTLP_HEADERS", "OTEL_EXPORTER_OTLP_INSECURE",
		"OTEL_TRACES_SAMPLER", "OTEL_TRACES_SAMPLER_ARG", "OTEL_RESOURCE_ATTRIBUTES",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearOtelEnv(t)

	cfg := LoadFromEnv("")
	assert.False(t, cfg.Enabled)
	assert.Equal(t, DefaultServiceName, cfg.ServiceName)
	assert.Equal(t, "unknown", cfg.ServiceVersion)
	assert.Equal(t, "grpc", cfg.Protocol)
	assert.Empty(t, cfg.Headers)

	assert.Equal(t, "1.2.3", LoadFromEnv("1.2.3").ServiceVersion)
}

func TestLoadFromEnv_Custom(t *testing.T) {
	clearOtelEnv(t)
	t.Setenv("OTEL_ENABLED", "TRUE")
	t.Setenv("OTEL_SERVICE_NAME", "bench-ci")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "HTTP/protobuf")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "Authorization=Bearer a=b, X-Team=perf")
	t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment=ci")

	cfg := LoadFromEnv("1.0.0")
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "bench-ci", cfg.ServiceName)
	assert.Equal(t, "http/protobuf", cfg.Protocol)
	assert.Equal(t, map[string]string{"Authorization": "Bearer a=b", "X-Team": "perf"}, cfg.Headers)
	assert.Equal(t, "ci", cfg.ResourceAttrs["deployment.environment"])
}

func TestParsePairs(t *testing.T) {
	assert.Empty(t, parsePairs(""))
	assert.Equal(t, map[string]string{"a": "1", "c": ""}, parsePairs("a=1,invalid,=x,c="))
}

func TestParseRatio(t *testing.T) {
	tests := map[string]float64{
		"":      1,
		"0.25":  0.25,
		"0":     0,
		"-0.5":  0,
		"1.5":   1,
		"bogus": 1,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseRatio(in), "input %q", in)
	}
}

func TestCreateSampler(t *testing.T) {
	for _, name := range []string{"", "always_on", "always_off", "traceidratio",
		"parentbased_always_on", "parentbased_always_off", "parentbased_traceidratio"} {
		s := createSampler(&Config{Sampler: name, SamplerArg: "0.5"})
		assert.NotNil(t, s, name)
	}
	assert.Equal(t, sdktrace.NeverSample().Description(), createSampler(&Config{Sampler: "always_off"}).Description())
}

func TestSplitScheme(t *testing.T) {
	ep, plain := splitScheme("http://collector:4318")
	assert.Equal(t, "collector:4318", ep)
	assert.True(t, plain)

	ep, plain = splitScheme("https://collector:4317")
	assert.Equal(t, "collector:4317", ep)
	assert.False(t, plain)
}

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), &Config{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	shutdown, err = Init(context.Background(), nil)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSortSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	ctx := context.Background()
	shutdown, err := InitWithExporter(ctx, &Config{ServiceName: "test", ServiceVersion: "dev"}, exporter)
	require.NoError(t, err)

	runCtx, run := StartRun(ctx, "run-1", 128, 4)
	_, good := StartSort(runCtx, model.StrategyBitonic, 0)
	EndSort(good, model.RunStats{Size: 128, Workers: 4, Rounds: 28, Padded: 128}, nil)
	_, bad := StartSort(runCtx, model.StrategyBucket, 0)
	EndSort(bad, model.RunStats{Size: 128}, errors.New("interrupted"))
	run.End()

	defer func() { _ = shutdown(ctx) }()

	tp, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	require.True(t, ok)
	require.NoError(t, tp.ForceFlush(ctx))

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)

	byStrategy := map[string]tracetest.SpanStub{}
	for _, s := range spans {
		for _, kv := range s.Attributes {
			if kv.Key == AttrStrategy {
				byStrategy[kv.Value.AsString()] = s
			}
		}
	}

	bitonic := byStrategy["bitonic"]
	assert.Equal(t, "sortbench.sort", bitonic.Name)
	assert.Contains(t, bitonic.Attributes, AttrRounds.Int(28))
	assert.Equal(t, codes.Unset, bitonic.Status.Code)

	bucket := byStrategy["bucket"]
	assert.Equal(t, codes.Error, bucket.Status.Code)
	assert.Equal(t, "interrupted", bucket.Status.Description)
	assert.Contains(t, bucket.Attributes, attribute.Int("sortbench.padded", 0))
}
