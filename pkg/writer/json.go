// Package writer provides common JSON and gzip writers for report
// export payloads.
package writer

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSONWriter writes a payload as JSON.
type JSONWriter[T any] struct {
	// Indent is the indentation unit for pretty printing. Empty means
	// compact output.
	Indent string
}

// NewJSONWriter creates a compact JSON writer.
func NewJSONWriter[T any]() *JSONWriter[T] {
	return &JSONWriter[T]{}
}

// NewPrettyJSONWriter creates a JSON writer with two-space indentation.
func NewPrettyJSONWriter[T any]() *JSONWriter[T] {
	return &JSONWriter[T]{Indent: "  "}
}

// Write encodes the payload to the writer.
func (w *JSONWriter[T]) Write(data T, out io.Writer) error {
	enc := json.NewEncoder(out)
	if w.Indent != "" {
		enc.SetIndent("", w.Indent)
	}
	return enc.Encode(data)
}

// WriteToFile encodes the payload to a file, creating or truncating it.
func (w *JSONWriter[T]) WriteToFile(data T, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := w.Write(data, file); err != nil {
		return err
	}
	return file.Close()
}

// GzipWriter writes a payload as gzipped JSON.
type GzipWriter[T any] struct {
	// Level is the gzip compression level.
	Level int
}

// NewGzipWriter creates a gzip writer with default compression.
func NewGzipWriter[T any]() *GzipWriter[T] {
	return &GzipWriter[T]{Level: gzip.DefaultCompression}
}

// NewGzipWriterWithLevel creates a gzip writer with the given level.
func NewGzipWriterWithLevel[T any](level int) *GzipWriter[T] {
	return &GzipWriter[T]{Level: level}
}

// Write encodes the payload as gzipped JSON to the writer.
func (w *GzipWriter[T]) Write(data T, out io.Writer) error {
	gz, err := gzip.NewWriterLevel(out, w.Level)
	if err != nil {
		return fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if err := json.NewEncoder(gz).Encode(data); err != nil {
		gz.Close()
		return fmt.Errorf("failed to encode data: %w", err)
	}

	return gz.Close()
}

// WriteToFile encodes the payload as gzipped JSON to a file.
func (w *GzipWriter[T]) WriteToFile(data T, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := w.Write(data, file); err != nil {
		return err
	}
	return file.Close()
}

// WriteStats reports the sizes of one gzipped write.
type WriteStats struct {
	RawSize        int64
	CompressedSize int64
	Ratio          float64
}

// WriteToFileWithStats writes the payload and reports raw versus
// compressed sizes, for export logging.
func (w *GzipWriter[T]) WriteToFileWithStats(data T, path string) (*WriteStats, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal data: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewWriterLevel(file, w.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}
	if _, err := gz.Write(raw); err != nil {
		gz.Close()
		return nil, fmt.Errorf("failed to write gzip data: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	stats := &WriteStats{
		RawSize:        int64(len(raw)),
		CompressedSize: info.Size(),
	}
	if stats.RawSize > 0 {
		stats.Ratio = float64(stats.CompressedSize) / float64(stats.RawSize) * 100
	}
	return stats, nil
}
