// Package writer persists benchmark summaries as JSON, optionally compressed.
package writer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression selects the codec wrapped around the JSON stream.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	default:
		return "none"
	}
}

// CompressionFor picks the codec from the file extension: ".gz" or ".zst".
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// detect sniffs the codec from magic bytes.
func detect(data []byte) Compression {
	switch {
	case len(data) >= 4 && data[0] == 0x28 && data[1] == 0xb5 && data[2] == 0x2f && data[3] == 0xfd:
		return CompressionZstd
	case len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b:
		return CompressionGzip
	default:
		return CompressionNone
	}
}

// JSONWriter writes values of T as JSON.
type JSONWriter[T any] struct {
	// Indent enables pretty printing; empty means compact output.
	Indent string
}

// NewJSONWriter creates a writer with compact output.
func NewJSONWriter[T any]() *JSONWriter[T] {
	return &JSONWriter[T]{}
}

// NewPrettyJSONWriter creates a writer indenting with two spaces.
func NewPrettyJSONWriter[T any]() *JSONWriter[T] {
	return &JSONWriter[T]{Indent: "  "}
}

// Write encodes data to w.
func (w *JSONWriter[T]) Write(data T, out io.Writer) error {
	enc := json.NewEncoder(out)
	if w.Indent != "" {
		enc.SetIndent("", w.Indent)
	}
	return enc.Encode(data)
}

// WriteResult contains statistics about a written file.
type WriteResult struct {
	Path           string
	Compression    Compression
	JSONSize       int64
	FileSize       int64
	CompressionPct float64
}

// WriteToFile writes data to path, compressing according to its extension.
func (w *JSONWriter[T]) WriteToFile(data T, path string) (*WriteResult, error) {
	var raw bytes.Buffer
	if err := w.Write(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to encode data: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	comp := CompressionFor(path)
	if err := compressTo(file, raw.Bytes(), comp); err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	res := &WriteResult{
		Path:        path,
		Compression: comp,
		JSONSize:    int64(raw.Len()),
		FileSize:    info.Size(),
	}
	if res.JSONSize > 0 {
		res.CompressionPct = float64(res.FileSize) / float64(res.JSONSize) * 100
	}
	return res, nil
}

func compressTo(out io.Writer, data []byte, comp Compression) error {
	switch comp {
	case CompressionGzip:
		zw := gzip.NewWriter(out)
		if _, err := zw.Write(data); err != nil {
			zw.Close()
			return fmt.Errorf("failed to write gzip data: %w", err)
		}
		return zw.Close()
	case CompressionZstd:
		zw, err := zstd.NewWriter(out)
		if err != nil {
			return fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		if _, err := zw.Write(data); err != nil {
			zw.Close()
			return fmt.Errorf("failed to write zstd data: %w", err)
		}
		return zw.Close()
	default:
		_, err := out.Write(data)
		return err
	}
}

// ReadFile decodes a file written by WriteToFile, detecting compression
// from its content.
func ReadFile[T any](path string) (T, error) {
	var out T

	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("failed to read file: %w", err)
	}

	var r io.Reader = bytes.NewReader(data)
	switch detect(data) {
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return out, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer zr.Close()
		r = zr
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return out, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return out, fmt.Errorf("failed to decode data: %w", err)
	}
	return out, nil
}
