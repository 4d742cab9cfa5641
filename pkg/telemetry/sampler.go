package telemetry

import (
	"strconv"

	"go.opentelemetry.io/otel/sdk/trace"
)

// createSampler maps OTEL_TRACES_SAMPLER names to samplers. Unknown or empty
// names sample everything: a benchmark run produces few spans.
func createSampler(cfg *Config) trace.Sampler {
	ratio := parseRatio(cfg.SamplerArg)

	switch cfg.Sampler {
	case "always_off":
		return trace.NeverSample()
	case "traceidratio":
		return trace.TraceIDRatioBased(ratio)
	case "parentbased_always_on":
		return trace.ParentBased(trace.AlwaysSample())
	case "parentbased_always_off":
		return trace.ParentBased(trace.NeverSample())
	case "parentbased_traceidratio":
		return trace.ParentBased(trace.TraceIDRatioBased(ratio))
	default:
		return trace.AlwaysSample()
	}
}

// parseRatio returns the ratio clamped to [0, 1], or 1 when s is not a number.
func parseRatio(s string) float64 {
	ratio, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 1
	}
	return min(max(ratio, 0), 1)
}
