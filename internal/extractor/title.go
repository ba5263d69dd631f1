// Package extractor parses rendered flame graph SVG markup back into
// flat frame records: label, sample count, percentage and, when the
// element carries positional attributes, rectangle geometry.
package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

// Title annotation: "function_name (N samples, X.XX%)". The count may
// carry thousands separators, "sample" and "samples" are both valid.
var titleAnnotationRegex = regexp.MustCompile(`^(.+?)\s+\(([0-9,]+)\s+samples?,\s+([0-9.]+)%\)$`)

// TitleAnnotation is the parsed label/metric triple of one element.
type TitleAnnotation struct {
	Label   string
	Samples int64
	Percent float64
}

// ParseTitle parses one title annotation. It returns nil for anything
// that does not match the expected shape: legend entries, search UI
// text and other metadata share the title element with real frames and
// are skipped, not reported.
func ParseTitle(content string) *TitleAnnotation {
	m := titleAnnotationRegex.FindStringSubmatch(strings.TrimSpace(content))
	if m == nil {
		return nil
	}

	samples, err := strconv.ParseInt(strings.ReplaceAll(m[2], ",", ""), 10, 64)
	if err != nil {
		return nil
	}
	percent, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return nil
	}

	return &TitleAnnotation{
		Label:   m[1],
		Samples: samples,
		Percent: percent,
	}
}
