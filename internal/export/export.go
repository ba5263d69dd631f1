package export

import (
	"fmt"
	"os"

	"github.com/flame-analysis/internal/stacktree"
	"github.com/flame-analysis/pkg/model"
	"github.com/flame-analysis/pkg/writer"
)

// Document is the JSON export payload for one report run.
type Document struct {
	InputFile    string             `json:"input_file"`
	FrameCount   int                `json:"frame_count"`
	TotalSamples int64              `json:"total_samples"`
	Groups       []*model.GroupStat `json:"groups,omitempty"`
	Tree         *stacktree.Tree    `json:"tree,omitempty"`
}

// WriteJSON writes the document as pretty-printed JSON to path, or
// gzipped compact JSON when the path ends in .gz.
func WriteJSON(doc *Document, path string) error {
	if len(path) > 3 && path[len(path)-3:] == ".gz" {
		w := writer.NewGzipWriter[*Document]()
		return w.WriteToFile(doc, path)
	}
	w := writer.NewPrettyJSONWriter[*Document]()
	return w.WriteToFile(doc, path)
}

// WriteFolded folds the stacks and writes them in collapsed format,
// one "frame;frame count" line per self-sample path.
func WriteFolded(stacks []*model.Stack, rename func(string) string, path string) error {
	tree := stacktree.Fold(stacks, rename)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := stacktree.NewFoldedWriter().Write(tree, file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write folded stacks: %w", err)
	}
	return file.Close()
}
