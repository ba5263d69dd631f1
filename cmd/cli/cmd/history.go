package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/flame-analysis/internal/history"
)

var (
	// History command flags
	historyLimit int
	pruneDays    int
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past report runs",
	Long: `History lists report runs recorded with --save, newest first.

Each row shows the run ID, input file, frame and sample counts and the
hottest function of that run. --prune-days deletes runs older than the
given number of days before listing.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Maximum number of runs to list")
	historyCmd.Flags().IntVar(&pruneDays, "prune-days", 0, "Delete runs older than this many days (0 = keep all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	ctx := cmd.Context()

	db, err := history.NewGormDB(&GetConfig().History)
	if err != nil {
		return err
	}
	defer history.Close(db)

	repo := history.NewGormRunRepository(db)

	if pruneDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -pruneDays)
		removed, err := repo.Prune(ctx, cutoff)
		if err != nil {
			return err
		}
		if removed > 0 {
			log.Info("pruned %d runs older than %d days", removed, pruneDays)
		}
	}

	runs, err := repo.List(ctx, historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	fmt.Printf("%4s  %-19s  %8s  %12s  %s\n", "ID", "Date", "Frames", "Samples", "Input / Top Function")
	for _, run := range runs {
		fmt.Printf("%4d  %-19s  %8d  %12d  %s\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.FrameCount, run.TotalSamples, run.InputFile)
		if run.TopFunction != "" {
			fmt.Printf("%4s  %-19s  %8s  %12d  └─ %s\n",
				"", "", "", run.TopSamples, run.TopFunction)
		}
	}

	return nil
}
