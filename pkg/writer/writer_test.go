package writer

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sort-bench/pkg/model"
)

func sampleSummary() model.Summary {
	results := make([]model.BenchmarkResult, 0, 6)
	for _, st := range model.AllStrategies() {
		results = append(results, model.BenchmarkResult{
			RunID:    "run-1",
			Strategy: st.String(),
			Size:     100000,
			Workers:  8,
			Repeats:  3,
			Min:      time.Millisecond,
			Mean:     2 * time.Millisecond,
			Max:      3 * time.Millisecond,
			Rounds:   17,
			Correct:  true,
		})
	}
	return model.Summary{
		RunID:     "run-1",
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Seed:      42,
		Size:      100000,
		Workers:   8,
		Results:   results,
	}
}

func TestJSONWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter[model.RunStats]().Write(model.RunStats{Strategy: "bucket", Size: 3, Workers: 2, Rounds: 2}, &buf))
	assert.Equal(t, `{"strategy":"bucket","size":3,"workers":2,"rounds":2,"tasks":0}`+"\n", buf.String())

	buf.Reset()
	require.NoError(t, NewPrettyJSONWriter[model.RunStats]().Write(model.RunStats{}, &buf))
	assert.True(t, strings.Contains(buf.String(), "\n  \"strategy\""))
}

func TestCompressionFor(t *testing.T) {
	assert.Equal(t, CompressionNone, CompressionFor("out/summary.json"))
	assert.Equal(t, CompressionGzip, CompressionFor("summary.json.gz"))
	assert.Equal(t, CompressionZstd, CompressionFor("summary.json.ZST"))
	assert.Equal(t, "zstd", CompressionZstd.String())
}

func TestWriteToFile_RoundTrip(t *testing.T) {
	summary := sampleSummary()

	for _, name := range []string{"summary.json", "summary.json.gz", "summary.json.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			res, err := NewJSONWriter[model.Summary]().WriteToFile(summary, path)
			require.NoError(t, err)
			assert.Equal(t, CompressionFor(name), res.Compression)
			assert.Positive(t, res.JSONSize)
			assert.Positive(t, res.FileSize)

			got, err := ReadFile[model.Summary](path)
			require.NoError(t, err)
			assert.Equal(t, summary.RunID, got.RunID)
			assert.True(t, summary.StartedAt.Equal(got.StartedAt))
			assert.Equal(t, summary.Results, got.Results)
		})
	}
}

func TestWriteToFile_CompressesRepetitiveData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json.gz")
	res, err := NewPrettyJSONWriter[model.Summary]().WriteToFile(sampleSummary(), path)
	require.NoError(t, err)
	assert.Less(t, res.FileSize, res.JSONSize)
	assert.Less(t, res.CompressionPct, 100.0)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile[model.Summary](filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}
