// Package report renders benchmark summaries for people and machines.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	apperrors "github.com/sort-bench/pkg/errors"
	"github.com/sort-bench/pkg/model"
	"github.com/sort-bench/pkg/writer"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

var tableHeader = []string{"Strategy", "Size", "Workers", "Runs", "Min", "Mean", "P50", "P99", "Max", "Rounds", "Status"}

// Render writes summary to w in the given format.
func Render(w io.Writer, summary *model.Summary, format string) error {
	switch format {
	case FormatTable, "":
		return RenderTable(w, summary)
	case FormatJSON:
		return writer.NewPrettyJSONWriter[*model.Summary]().Write(summary, w)
	default:
		return apperrors.Newf(apperrors.CodeInvalidInput, "unsupported report format %q", format)
	}
}

// RenderTable writes one row per strategy followed by a one-line verdict.
func RenderTable(w io.Writer, summary *model.Summary) error {
	if _, err := fmt.Fprintf(w, "Run %s  seed=%d  size=%s  workers=%d\n",
		summary.RunID, summary.Seed, humanize.Comma(int64(summary.Size)), summary.Workers); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(tableHeader)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for i := range summary.Results {
		table.Append(row(&summary.Results[i]))
	}
	table.Render()

	failed := summary.FailedCount()
	verdict := fmt.Sprintf("%d strategies, all correct", len(summary.Results))
	if failed > 0 {
		verdict = fmt.Sprintf("%d of %d strategies FAILED", failed, len(summary.Results))
	}
	_, err := fmt.Fprintln(w, verdict)
	return err
}

func row(r *model.BenchmarkResult) []string {
	rounds := strconv.Itoa(r.Rounds)
	switch {
	case r.Padded > r.Size:
		rounds += " (padded " + humanize.Comma(int64(r.Padded)) + ")"
	case r.Fallback:
		rounds += " (fallback)"
	}

	return []string{
		r.Strategy,
		humanize.Comma(int64(r.Size)),
		strconv.Itoa(r.Workers),
		strconv.Itoa(r.Repeats),
		formatDuration(r.Min),
		formatDuration(r.Mean),
		formatDuration(r.P50),
		formatDuration(r.P99),
		formatDuration(r.Max),
		rounds,
		status(r),
	}
}

func status(r *model.BenchmarkResult) string {
	if !r.Failed() {
		return "ok"
	}
	return "FAIL " + errorCode(r.Error)
}

// errorCode extracts the code from an "[CODE] message" string.
func errorCode(msg string) string {
	rest, ok := strings.CutPrefix(msg, "[")
	if !ok {
		return apperrors.CodeUnknown
	}
	code, _, ok := strings.Cut(rest, "]")
	if !ok || code == "" {
		return apperrors.CodeUnknown
	}
	return code
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.Round(time.Millisecond).String()
	}
}

// SaveResult describes a persisted summary.
type SaveResult struct {
	*writer.WriteResult

	// HumanSize is the on-disk size, e.g. "12 kB".
	HumanSize string
}

// Save writes summary as JSON to path; ".gz" and ".zst" suffixes compress it.
func Save(summary *model.Summary, path string) (*SaveResult, error) {
	res, err := writer.NewPrettyJSONWriter[*model.Summary]().WriteToFile(summary, path)
	if err != nil {
		return nil, fmt.Errorf("failed to save summary: %w", err)
	}
	return &SaveResult{
		WriteResult: res,
		HumanSize:   humanize.Bytes(uint64(res.FileSize)),
	}, nil
}
