package extractor

import (
	"context"
	"html"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/flame-analysis/pkg/errors"
	"github.com/flame-analysis/pkg/model"
	"github.com/flame-analysis/pkg/utils"
)

var (
	titleElementRegex = regexp.MustCompile(`<title>([^<]*)</title>`)
	rectElementRegex  = regexp.MustCompile(`<rect[^>]*>`)

	// Geometry attributes written by cargo-flamegraph/inferno: the y
	// coordinate is a plain SVG attribute, the horizontal offset and
	// width live in the fg: namespace and stay integral across zooming.
	yAttrRegex = regexp.MustCompile(`\sy="([^"]+)"`)
	xAttrRegex = regexp.MustCompile(`\sfg:x="([^"]+)"`)
	wAttrRegex = regexp.MustCompile(`\sfg:w="([^"]+)"`)
)

// Options holds configuration options for the extractor.
type Options struct {
	// Logger receives per-document diagnostics (skipped element
	// counts). Defaults to a NullLogger.
	Logger utils.Logger
}

// Extractor turns flame graph SVG markup into flat frame records.
type Extractor struct {
	log utils.Logger
}

// New creates a new Extractor.
func New(opts *Options) *Extractor {
	log := utils.Logger(&utils.NullLogger{})
	if opts != nil && opts.Logger != nil {
		log = opts.Logger
	}
	return &Extractor{log: log}
}

// Result holds the frames extracted from one document.
type Result struct {
	// Frames in document order. Downstream consumers must not depend
	// on this order.
	Frames []*model.Frame

	// TotalSamples is the sum of sample counts over all extracted
	// frames. Per-frame percentages are reconciled against this total
	// only, never individually.
	TotalSamples int64
}

// GeometryFrames returns the subset of frames usable for stack
// reconstruction.
func (r *Result) GeometryFrames() []*model.Frame {
	frames := make([]*model.Frame, 0, len(r.Frames))
	for _, f := range r.Frames {
		if f.HasGeometry {
			frames = append(frames, f)
		}
	}
	return frames
}

// ParseFile reads and parses the document at path.
func (e *Extractor) ParseFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeNotFound, "open input file", err)
	}
	defer f.Close()

	return e.Parse(ctx, f)
}

// Parse parses SVG markup from the reader into frame records.
//
// Each element whose title annotation matches the expected shape yields
// one frame. Elements with no matching annotation are skipped silently:
// legend and metadata clutter is expected in real inputs and must not
// abort a report. Geometry is taken from the first rect between this
// title and the next one; frames without geometry are still usable for
// grouped statistics.
func (e *Extractor) Parse(ctx context.Context, reader io.Reader) (*Result, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInvalidInput, "read input", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := string(content)
	titles := titleElementRegex.FindAllStringSubmatchIndex(doc, -1)

	result := &Result{Frames: make([]*model.Frame, 0, len(titles))}
	skipped := 0

	for i, loc := range titles {
		annotation := ParseTitle(html.UnescapeString(doc[loc[2]:loc[3]]))
		if annotation == nil {
			skipped++
			continue
		}

		frame := &model.Frame{
			Label:   annotation.Label,
			Samples: annotation.Samples,
			Percent: annotation.Percent,
		}

		// The companion rect of a title sits between it and the next
		// title in the same group element.
		segmentEnd := len(doc)
		if i+1 < len(titles) {
			segmentEnd = titles[i+1][0]
		}
		if x, w, depth, ok := parseGeometry(doc[loc[1]:segmentEnd]); ok {
			frame.X = x
			frame.Width = w
			frame.Depth = depth
			frame.HasGeometry = true
		}

		result.Frames = append(result.Frames, frame)
		result.TotalSamples += frame.Samples
	}

	e.log.Debug("extracted %d frames, skipped %d elements", len(result.Frames), skipped)

	if len(result.Frames) == 0 {
		return nil, errors.Wrap(errors.CodeEmptyInput, "no flame graph data found in input", nil)
	}
	return result, nil
}

// parseGeometry pulls x, width and the integer depth level out of the
// first rect element in the segment. A missing rect or a numeric field
// that fails to convert leaves the frame geometry-less.
func parseGeometry(segment string) (x, w, depth int, ok bool) {
	rectLoc := rectElementRegex.FindStringIndex(segment)
	if rectLoc == nil {
		return 0, 0, 0, false
	}
	rect := segment[rectLoc[0]:rectLoc[1]]

	xm := xAttrRegex.FindStringSubmatch(rect)
	wm := wAttrRegex.FindStringSubmatch(rect)
	ym := yAttrRegex.FindStringSubmatch(rect)
	if xm == nil || wm == nil || ym == nil {
		return 0, 0, 0, false
	}

	x, err := strconv.Atoi(xm[1])
	if err != nil {
		return 0, 0, 0, false
	}
	w, err = strconv.Atoi(wm[1])
	if err != nil {
		return 0, 0, 0, false
	}
	// The y coordinate may carry a fractional part; the depth level is
	// its integer truncation.
	yf, err := strconv.ParseFloat(ym[1], 64)
	if err != nil {
		return 0, 0, 0, false
	}

	return x, w, int(yf), true
}
