package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/flame-analysis/internal/export"
	"github.com/flame-analysis/internal/grouping"
	"github.com/flame-analysis/internal/history"
	"github.com/flame-analysis/internal/report"
	"github.com/flame-analysis/internal/storage"
	"github.com/flame-analysis/pkg/config"
	apperrors "github.com/flame-analysis/pkg/errors"
	"github.com/flame-analysis/pkg/symbol"
)

var (
	// Report command flags
	topN       int
	minPercent float64
	groupBy    string
	sortBy     string
	demangle   bool
	showStacks bool
	showTree   bool
	maxFrames  int

	foldedPath string
	pprofPath  string
	jsonPath   string
	saveRun    bool
	archiveRun bool
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <flamegraph.svg>",
	Short: "Analyze a flame graph SVG and report hotspots",
	Long: `Report parses a rendered flame graph SVG, reconstructs the call
stacks from the frame geometry and prints hotspot views.

The default view is a ranked table of functions by total sample count.
--stacks replaces it with the hottest leaf stack traces, --tree adds
the aggregated stack tree. All views share the --top and --min-percent
thresholds.

Grouping modes:
  - function : full symbol (default)
  - module   : symbol minus its last path component
  - crate    : top-level namespace`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	binName := BinName()
	reportCmd.Example = `  # Ranked function table
  ` + binName + ` report flamegraph.svg

  # Hottest stacks with simplified symbols, long traces abbreviated
  ` + binName + ` report flamegraph.svg --stacks -d --max-frames 30

  # Aggregated tree grouped by crate
  ` + binName + ` report flamegraph.svg --tree -g crate

  # Export folded stacks and a pprof profile
  ` + binName + ` report flamegraph.svg --folded out.folded --pprof out.pb.gz`

	registerReportFlags(reportCmd.Flags())
}

func registerReportFlags(flags *pflag.FlagSet) {
	flags.IntVarP(&topN, "top", "n", 50, "Number of entries to report")
	flags.Float64VarP(&minPercent, "min-percent", "m", 0.0, "Minimum percentage threshold")
	flags.StringVarP(&groupBy, "group-by", "g", "function", "Grouping mode: function, module, crate")
	flags.StringVarP(&sortBy, "sort-by", "s", "samples", "Sort key: samples, percent")
	flags.BoolVarP(&demangle, "demangle", "d", false, "Simplify symbol names (strip template arguments)")

	flags.BoolVar(&showStacks, "stacks", false, "Show hottest stack traces instead of the table")
	flags.BoolVar(&showTree, "tree", false, "Show the aggregated stack tree")
	flags.IntVar(&maxFrames, "max-frames", 0, "Abbreviate traces longer than this many frames (0 = unlimited)")

	flags.StringVar(&foldedPath, "folded", "", "Write reconstructed stacks in collapsed format to file")
	flags.StringVar(&pprofPath, "pprof", "", "Write reconstructed stacks as a pprof profile to file")
	flags.StringVar(&jsonPath, "json", "", "Write the report as JSON to file (.gz for gzipped)")
	flags.BoolVar(&saveRun, "save", false, "Record this run in the history database")
	flags.BoolVar(&archiveRun, "archive", false, "Archive the input file to configured storage")
}

// applyConfigDefaults lets the config file's report section supply
// values for flags the user did not set on the command line.
func applyConfigDefaults(flags *pflag.FlagSet, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if !flags.Changed("top") {
		topN = cfg.Report.TopN
	}
	if !flags.Changed("min-percent") {
		minPercent = cfg.Report.MinPercent
	}
	if !flags.Changed("group-by") {
		groupBy = cfg.Report.GroupBy
	}
	if !flags.Changed("sort-by") {
		sortBy = cfg.Report.SortBy
	}
}

// shouldPersist reports whether --save may record the run.
func shouldPersist(cfg *config.Config) bool {
	return cfg == nil || cfg.History.Enabled
}

func runReport(cmd *cobra.Command, args []string) error {
	inputFile := args[0]
	log := GetLogger()
	ctx := cmd.Context()

	applyConfigDefaults(cmd.Flags(), GetConfig())

	mode, err := grouping.ParseMode(groupBy)
	if err != nil {
		return err
	}
	sortKey, err := report.ParseSortKey(sortBy)
	if err != nil {
		return err
	}
	if maxFrames < 0 {
		return apperrors.New(apperrors.CodeInvalidInput, "max-frames must not be negative")
	}

	pipeline := report.NewPipeline(log)
	pipeline.NeedStacks = foldedPath != "" || pprofPath != "" || jsonPath != ""

	req := &report.Request{
		InputFile:  inputFile,
		TopN:       topN,
		MinPercent: minPercent,
		GroupBy:    mode,
		SortBy:     sortKey,
		Simplify:   demangle,
		ShowStacks: showStacks,
		ShowTree:   showTree,
		MaxFrames:  maxFrames,
	}

	resp, err := pipeline.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Println(resp.Render())

	if foldedPath != "" {
		rename := renameFunc()
		if err := export.WriteFolded(resp.Stacks, rename, foldedPath); err != nil {
			return err
		}
		log.Info("folded stacks written to %s", foldedPath)
	}

	if pprofPath != "" {
		if err := export.WriteProfile(resp.Stacks, pprofPath); err != nil {
			return err
		}
		log.Info("pprof profile written to %s", pprofPath)
	}

	if jsonPath != "" {
		doc := &export.Document{
			InputFile:    inputFile,
			FrameCount:   resp.FrameCount,
			TotalSamples: resp.TotalSamples,
			Groups:       resp.Groups,
			Tree:         resp.Tree,
		}
		if err := export.WriteJSON(doc, jsonPath); err != nil {
			return err
		}
		log.Info("JSON report written to %s", jsonPath)
	}

	if saveRun {
		if !shouldPersist(GetConfig()) {
			log.Warn("history is disabled in config; run not recorded")
		} else if err := persistRun(cmd, resp); err != nil {
			log.Warn("failed to save run history: %v", err)
		}
	}

	if archiveRun {
		if err := archiveInput(cmd, inputFile); err != nil {
			log.Warn("failed to archive input: %v", err)
		}
	}

	return nil
}

func renameFunc() func(string) string {
	if !demangle {
		return nil
	}
	return symbol.Simplify
}

func persistRun(cmd *cobra.Command, resp *report.Response) error {
	db, err := history.NewGormDB(&GetConfig().History)
	if err != nil {
		return err
	}
	defer history.Close(db)

	repo := history.NewGormRunRepository(db)
	if err := repo.Save(cmd.Context(), resp.Summary); err != nil {
		return err
	}

	GetLogger().Info("run #%d recorded", resp.Summary.ID)
	return nil
}

func archiveInput(cmd *cobra.Command, inputFile string) error {
	store, err := storage.New(&GetConfig().Storage)
	if err != nil {
		return err
	}

	key := filepath.Join(
		time.Now().Format("2006/01/02"),
		filepath.Base(inputFile),
	)
	if err := store.UploadFile(cmd.Context(), key, inputFile); err != nil {
		return err
	}

	GetLogger().Info("input archived to %s", store.URL(key))
	return nil
}
