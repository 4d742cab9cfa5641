package report

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sort-bench/pkg/errors"
	"github.com/sort-bench/pkg/model"
	"github.com/sort-bench/pkg/writer"
)

func testSummary() *model.Summary {
	return &model.Summary{
		RunID:   "4f1c",
		Seed:    42,
		Size:    100000,
		Workers: 8,
		Results: []model.BenchmarkResult{
			{Strategy: "bitonic", Size: 100000, Workers: 8, Repeats: 3, Min: 1500 * time.Microsecond,
				Mean: 2 * time.Millisecond, Max: 3 * time.Millisecond, Rounds: 153, Padded: 131072, Correct: true},
			{Strategy: "bucket", Size: 100000, Workers: 8, Repeats: 0, Rounds: 0,
				Error: "[VERIFY_FAILED] mismatch at index 3: expected 4, got 5"},
		},
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, testSummary()))

	out := buf.String()
	assert.Contains(t, out, "Run 4f1c  seed=42  size=100,000  workers=8")
	assert.Contains(t, out, "Strategy")
	assert.Contains(t, out, "bitonic")
	assert.Contains(t, out, "153 (padded 131,072)")
	assert.Contains(t, out, "1.5ms")
	assert.Contains(t, out, "FAIL VERIFY_FAILED")
	assert.Contains(t, out, "1 of 2 strategies FAILED")
}

func TestRenderTable_AllCorrect(t *testing.T) {
	s := testSummary()
	s.Results = s.Results[:1]

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s, FormatTable))
	assert.Contains(t, buf.String(), "1 strategies, all correct")
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testSummary(), FormatJSON))

	var decoded model.Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "4f1c", decoded.RunID)
	assert.Len(t, decoded.Results, 2)
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, testSummary(), "xml")
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "INTERRUPTED", errorCode("[INTERRUPTED] bucket interrupted after 2 rounds: context canceled"))
	assert.Equal(t, apperrors.CodeUnknown, errorCode("plain failure"))
	assert.Equal(t, apperrors.CodeUnknown, errorCode("[]"))
	assert.Equal(t, apperrors.CodeUnknown, errorCode(""))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "-", formatDuration(0))
	assert.Equal(t, "12µs", formatDuration(12345*time.Nanosecond))
	assert.Equal(t, "2.5s", formatDuration(2500*time.Millisecond))
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json.gz")

	res, err := Save(testSummary(), path)
	require.NoError(t, err)
	assert.Equal(t, writer.CompressionGzip, res.Compression)
	assert.NotEmpty(t, res.HumanSize)

	loaded, err := writer.ReadFile[model.Summary](path)
	require.NoError(t, err)
	assert.Equal(t, testSummary().Results, loaded.Results)
}
