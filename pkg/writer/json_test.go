package writer

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name    string `json:"name"`
	Samples int64  `json:"samples"`
}

func TestJSONWriter_Compact(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter[samplePayload]()

	err := w.Write(samplePayload{Name: "main", Samples: 100}, &buf)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"main","samples":100}`+"\n", buf.String())
}

func TestJSONWriter_Pretty(t *testing.T) {
	var buf bytes.Buffer
	w := NewPrettyJSONWriter[samplePayload]()

	err := w.Write(samplePayload{Name: "main", Samples: 100}, &buf)
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "\n  \"name\""))
}

func TestJSONWriter_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w := NewJSONWriter[samplePayload]()

	require.NoError(t, w.WriteToFile(samplePayload{Name: "f", Samples: 7}, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got samplePayload
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, samplePayload{Name: "f", Samples: 7}, got)
}

func TestGzipWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewGzipWriter[samplePayload]()

	require.NoError(t, w.Write(samplePayload{Name: "hot", Samples: 42}, &buf))

	gz, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	defer gz.Close()

	var got samplePayload
	require.NoError(t, json.NewDecoder(gz).Decode(&got))
	assert.Equal(t, samplePayload{Name: "hot", Samples: 42}, got)
}

func TestGzipWriter_InvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	w := NewGzipWriterWithLevel[samplePayload](99)

	err := w.Write(samplePayload{}, &buf)
	assert.Error(t, err)
}

func TestGzipWriter_WriteToFileWithStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json.gz")
	w := NewGzipWriter[map[string]string]()

	payload := map[string]string{"repeat": strings.Repeat("abcdef", 500)}
	stats, err := w.WriteToFileWithStats(payload, path)
	require.NoError(t, err)

	assert.Greater(t, stats.RawSize, int64(0))
	assert.Greater(t, stats.CompressedSize, int64(0))
	assert.Less(t, stats.CompressedSize, stats.RawSize, "repetitive payload must compress")
	assert.InDelta(t, float64(stats.CompressedSize)/float64(stats.RawSize)*100, stats.Ratio, 0.01)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	gz, err := gzip.NewReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer gz.Close()

	var got map[string]string
	require.NoError(t, json.NewDecoder(gz).Decode(&got))
	assert.Equal(t, payload, got)
}
