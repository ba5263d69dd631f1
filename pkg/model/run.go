package model

import "time"

// RunSummary captures the outcome of one report run for persistence in
// the history database.
type RunSummary struct {
	ID           int64     `json:"id,omitempty"`
	InputFile    string    `json:"input_file"`
	FrameCount   int       `json:"frame_count"`
	TotalSamples int64     `json:"total_samples"`
	GroupBy      string    `json:"group_by"`
	TopFunction  string    `json:"top_function"`
	TopSamples   int64     `json:"top_samples"`
	CreatedAt    time.Time `json:"created_at"`
}
