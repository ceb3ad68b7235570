package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/wslanalytics/pressbox/internal/model"
	"github.com/wslanalytics/pressbox/internal/worker"
)

var (
	batchSeason  string
	batchRounds  string
	batchPreview bool
	batchAngle   string
	batchWorkers int
	batchOutDir  string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate articles for multiple rounds in parallel",
	Long: `Batch generates one article per round concurrently and writes a
markdown file per round to the output directory.

Rounds are selected with a compact selector: "3", "1,4,7" or "1-11".
Batch requires a configured database; the stats views are read per round.

Example:
  pressbox batch --season 2025-26 --rounds 1-11
  pressbox batch --season 2025-26 --rounds 3,5 --preview --workers 2`,
	RunE: runBatchArticles,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchSeason, "season", "", "season label, e.g. 2025-26")
	batchCmd.Flags().StringVar(&batchRounds, "rounds", "", "round selector, e.g. 1-11 or 3,5,8")
	batchCmd.Flags().BoolVar(&batchPreview, "preview", false, "generate previews instead of recaps")
	batchCmd.Flags().StringVar(&batchAngle, "angle", "", "editorial angle hint for the prose")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&batchOutDir, "output-dir", "./pressbox-articles", "output directory")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the batch")

	_ = batchCmd.MarkFlagRequired("season")
	_ = batchCmd.MarkFlagRequired("rounds")
}

func runBatchArticles(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	rounds, err := worker.ParseRounds(batchRounds)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.DB.Configured() {
		return fmt.Errorf("batch requires a configured database; set DATABASE_URL or the db section of the config")
	}

	p, cleanup, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	kind := model.ArticleRecap
	if batchPreview {
		kind = model.ArticlePreview
	}

	fmt.Fprintf(os.Stderr, "⚙️  Generating %d %ss for %s with %d workers...\n",
		len(rounds), kind, batchSeason, batchWorkers)

	processor := worker.NewBatchProcessor(p, batchWorkers)
	results := processor.ProcessRounds(ctx, batchSeason, rounds, kind, batchAngle)

	var success, failure int
	for _, r := range results {
		if r.Err() != nil {
			failure++
			fmt.Fprintf(os.Stderr, "✗ round %d: %v\n", r.Round, r.Err())
			continue
		}

		path := filepath.Join(batchOutDir, fmt.Sprintf("%s-round-%02d-%s.md", r.Season, r.Round, r.Kind))
		if err := os.WriteFile(path, []byte(r.Response.Outputs.SubstackMD), 0o644); err != nil {
			failure++
			fmt.Fprintf(os.Stderr, "✗ round %d: write %s: %v\n", r.Round, path, err)
			continue
		}

		success++
		if n := len(r.Response.Ungrounded); n > 0 {
			fmt.Fprintf(os.Stderr, "✓ round %d (%d ungrounded figures)\n", r.Round, n)
		} else {
			fmt.Fprintf(os.Stderr, "✓ round %d\n", r.Round)
		}
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d ok, %d failed, output in %s\n", success, failure, batchOutDir)
	if failure > 0 {
		return fmt.Errorf("%d of %d rounds failed", failure, len(results))
	}
	return nil
}
