// Package telemetry provides OpenTelemetry tracing for benchmark runs.
package telemetry

import (
	"os"
	"strings"

	"github.com/samber/lo"
)

// DefaultServiceName is reported when OTEL_SERVICE_NAME is unset.
const DefaultServiceName = "sortbench"

// Config holds OpenTelemetry configuration loaded from environment variables.
type Config struct {
	// Enabled turns span export on. Loaded from OTEL_ENABLED.
	Enabled bool

	ServiceName    string
	ServiceVersion string

	// Endpoint is the OTLP collector endpoint, with or without scheme.
	Endpoint string

	// Protocol is grpc (default) or http/protobuf.
	Protocol string

	// Headers are sent with every export, e.g. Authorization.
	Headers  map[string]string
	Insecure bool

	// Sampler follows OTEL_TRACES_SAMPLER naming.
	Sampler    string
	SamplerArg string

	ResourceAttrs map[string]string
}

// LoadFromEnv loads configuration from the standard OTEL_* variables.
// version is used when OTEL_SERVICE_VERSION is unset.
func LoadFromEnv(version string) *Config {
	return &Config{
		Enabled:        envBool("OTEL_ENABLED"),
		ServiceName:    envOr("OTEL_SERVICE_NAME", DefaultServiceName),
		ServiceVersion: envOr("OTEL_SERVICE_VERSION", lo.Ternary(version == "", "unknown", version)),
		Endpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Protocol:       strings.ToLower(envOr("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")),
		Headers:        parsePairs(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
		Insecure:       envBool("OTEL_EXPORTER_OTLP_INSECURE"),
		Sampler:        strings.ToLower(os.Getenv("OTEL_TRACES_SAMPLER")),
		SamplerArg:     os.Getenv("OTEL_TRACES_SAMPLER_ARG"),
		ResourceAttrs:  parsePairs(os.Getenv("OTEL_RESOURCE_ATTRIBUTES")),
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv(key)), "true")
}

// parsePairs parses "k1=v1,k2=v2". Values may contain '='; malformed entries are skipped.
func parsePairs(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		out[key] = strings.TrimSpace(value)
	}
	return out
}
