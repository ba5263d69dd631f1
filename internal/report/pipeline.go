package report

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/flame-analysis/internal/extractor"
	"github.com/flame-analysis/internal/grouping"
	"github.com/flame-analysis/internal/reconstruct"
	"github.com/flame-analysis/internal/stacktree"
	"github.com/flame-analysis/pkg/model"
	"github.com/flame-analysis/pkg/symbol"
	"github.com/flame-analysis/pkg/utils"
)

const tracerName = "github.com/flame-analysis/internal/report"

// Request selects what one report run produces.
type Request struct {
	InputFile  string
	TopN       int
	MinPercent float64
	GroupBy    grouping.Mode
	SortBy     SortKey
	Simplify   bool

	// ShowStacks and ShowTree enable the stack views; they are
	// independent and combinable. The grouped table renders unless
	// ShowStacks is set, where it would be redundant.
	ShowStacks bool
	ShowTree   bool
	MaxFrames  int
}

// Response carries the rendered report plus the aggregates the
// export and persistence layers reuse.
type Response struct {
	// Sections are the rendered report blocks in output order,
	// starting with the parse header.
	Sections []string

	FrameCount   int
	TotalSamples int64

	// Stacks are all reconstructed stacks (not only leaves); Tree is
	// their aggregation. Both are nil when no view or export needed
	// reconstruction.
	Stacks []*model.Stack
	Tree   *stacktree.Tree

	// Groups holds the per-key statistics in first-seen order,
	// regardless of which views rendered.
	Groups []*model.GroupStat

	Summary *model.RunSummary
}

// Pipeline runs the full batch analysis: extract, reconstruct,
// aggregate, render. It is single-threaded and one-shot; each stage
// completes before the next starts and no state outlives the run.
type Pipeline struct {
	log utils.Logger

	// NeedStacks forces stack reconstruction and tree folding even
	// when no stack view renders, for callers that export the
	// reconstructed data.
	NeedStacks bool
}

// NewPipeline creates a Pipeline logging to the given logger.
func NewPipeline(log utils.Logger) *Pipeline {
	if log == nil {
		log = &utils.NullLogger{}
	}
	return &Pipeline{log: log}
}

// Run executes one report run over the input file.
func (p *Pipeline) Run(ctx context.Context, req *Request) (*Response, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "report.Run",
		trace.WithAttributes(attribute.String("input.file", req.InputFile)))
	defer span.End()

	timer := utils.NewStageTimer()

	extracted, err := p.extract(ctx, tracer, timer, req.InputFile)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		FrameCount:   len(extracted.Frames),
		TotalSamples: extracted.TotalSamples,
	}
	resp.Sections = append(resp.Sections, parseHeader(resp.FrameCount, resp.TotalSamples))

	rename := renameFunc(req.Simplify)

	if req.ShowStacks || req.ShowTree || p.NeedStacks {
		p.reconstruct(ctx, tracer, timer, extracted, resp)
		if req.ShowTree || p.NeedStacks {
			resp.Tree = stacktree.Fold(resp.Stacks, rename)
		}
	}

	stop := timer.Start("render")
	_, renderSpan := tracer.Start(ctx, "report.render")

	if req.ShowStacks {
		leaves := reconstruct.Leaves(resp.Stacks)
		resp.Sections = append(resp.Sections, FormatStacks(leaves, StackOptions{
			TopN:       req.TopN,
			MinPercent: req.MinPercent,
			MaxFrames:  req.MaxFrames,
			Rename:     rename,
		}))
	}

	if req.ShowTree {
		resp.Sections = append(resp.Sections, FormatTree(resp.Tree, TreeOptions{
			TopN:         req.TopN,
			MinPercent:   req.MinPercent,
			TotalSamples: resp.TotalSamples,
		}))
	}

	// The grouped table is the default view; it is suppressed only
	// when the stack listing already covers the hot entries.
	calc := grouping.NewCalculator(grouping.WithMode(req.GroupBy), grouping.WithSimplify(req.Simplify))
	resp.Groups = calc.Calculate(extracted.Frames)
	if !req.ShowStacks {
		resp.Sections = append(resp.Sections, FormatTable(resp.Groups, TableOptions{
			TopN:       req.TopN,
			MinPercent: req.MinPercent,
			SortBy:     req.SortBy,
		}))
	}

	renderSpan.End()
	stop()

	resp.Summary = buildSummary(req, resp, resp.Groups)
	timer.Report(p.log)
	return resp, nil
}

// Render joins the report sections with blank-line separators.
func (resp *Response) Render() string {
	return strings.Join(resp.Sections, "\n\n")
}

func (p *Pipeline) extract(ctx context.Context, tracer trace.Tracer, timer *utils.StageTimer, path string) (*extractor.Result, error) {
	stop := timer.Start("extract")
	defer stop()

	ctx, span := tracer.Start(ctx, "report.extract")
	defer span.End()

	ex := extractor.New(&extractor.Options{Logger: p.log})
	result, err := ex.ParseFile(ctx, path)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("frames.count", len(result.Frames)))
	p.log.Debug("parsed %d frames, %d samples total", len(result.Frames), result.TotalSamples)
	return result, nil
}

func (p *Pipeline) reconstruct(ctx context.Context, tracer trace.Tracer, timer *utils.StageTimer, extracted *extractor.Result, resp *Response) {
	stop := timer.Start("reconstruct")
	defer stop()

	_, span := tracer.Start(ctx, "report.reconstruct")
	defer span.End()

	resp.Stacks = reconstruct.Stacks(extracted.GeometryFrames())
	span.SetAttributes(attribute.Int("stacks.count", len(resp.Stacks)))
}

func renameFunc(simplify bool) func(string) string {
	if !simplify {
		return nil
	}
	return symbol.Simplify
}

func parseHeader(frameCount int, totalSamples int64) string {
	return "Parsed " + comma(int64(frameCount)) + " stack frames\n" +
		"Total samples: " + comma(totalSamples)
}

func buildSummary(req *Request, resp *Response, groups []*model.GroupStat) *model.RunSummary {
	summary := &model.RunSummary{
		InputFile:    req.InputFile,
		FrameCount:   resp.FrameCount,
		TotalSamples: resp.TotalSamples,
		GroupBy:      string(req.GroupBy),
		CreatedAt:    time.Now(),
	}

	if len(groups) > 0 {
		top := groups[0]
		for _, g := range groups {
			if g.TotalSamples > top.TotalSamples {
				top = g
			}
		}
		summary.TopFunction = top.Key
		summary.TopSamples = top.TotalSamples
	}
	return summary
}
