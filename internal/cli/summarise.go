package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wslanalytics/pressbox/internal/model"
)

var (
	sumSeason  string
	sumRound   int
	sumPreview bool
	sumAngle   string
	sumInput   string
	sumOutJSON string
	sumOutMD   string
	sumTimeout time.Duration
)

// summariseCmd represents the summarise command
var summariseCmd = &cobra.Command{
	Use:   "summarise",
	Short: "Generate a single article",
	Long: `Summarise generates one article and writes the result to stdout or
to files.

Database mode reads the stats views for --season/--round. File mode takes
the stat rows from a JSON file passed with --input, in the same shape the
HTTP API accepts.

Example:
  pressbox summarise --season 2025-26 --round 3
  pressbox summarise --season 2025-26 --round 4 --preview
  pressbox summarise --input round3.json --md recap.md --json response.json`,
	RunE: runSummarise,
}

func init() {
	rootCmd.AddCommand(summariseCmd)

	summariseCmd.Flags().StringVar(&sumSeason, "season", "", "season label, e.g. 2025-26")
	summariseCmd.Flags().IntVar(&sumRound, "round", 0, "round number")
	summariseCmd.Flags().BoolVar(&sumPreview, "preview", false, "generate a preview instead of a recap")
	summariseCmd.Flags().StringVar(&sumAngle, "angle", "", "editorial angle hint for the prose")
	summariseCmd.Flags().StringVar(&sumInput, "input", "", "JSON file with file-mode stat rows")
	summariseCmd.Flags().StringVar(&sumOutJSON, "json", "", "write the full response JSON to this path")
	summariseCmd.Flags().StringVar(&sumOutMD, "md", "", "write the Substack markdown to this path")
	summariseCmd.Flags().DurationVar(&sumTimeout, "timeout", 2*time.Minute, "overall generation timeout")
}

func runSummarise(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), sumTimeout)
	defer cancel()

	params := model.SummariseParams{
		Season: sumSeason,
		Round:  sumRound,
		Angle:  sumAngle,
	}
	if sumInput != "" {
		raw, err := os.ReadFile(sumInput)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if err := json.Unmarshal(raw, &params); err != nil {
			return fmt.Errorf("parse input: %w", err)
		}
		// Flags win over values baked into the input file.
		if sumSeason != "" {
			params.Season = sumSeason
		}
		if sumRound > 0 {
			params.Round = sumRound
		}
		if sumAngle != "" {
			params.Angle = sumAngle
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, cleanup, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var resp *model.SummariseResponse
	if sumPreview {
		resp, err = p.SummarisePreview(ctx, params)
	} else {
		resp, err = p.SummariseRound(ctx, params)
	}
	if err != nil {
		return fmt.Errorf("summarise: %w", err)
	}

	if len(resp.Ungrounded) > 0 {
		fmt.Fprintf(os.Stderr, "! %d ungrounded figures: %v\n", len(resp.Ungrounded), resp.Ungrounded)
	}

	if sumOutJSON != "" {
		raw, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		if err := os.WriteFile(sumOutJSON, raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", sumOutJSON, err)
		}
		fmt.Fprintf(os.Stderr, "✓ wrote %s\n", sumOutJSON)
	}
	if sumOutMD != "" {
		if err := os.WriteFile(sumOutMD, []byte(resp.Outputs.SubstackMD), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", sumOutMD, err)
		}
		fmt.Fprintf(os.Stderr, "✓ wrote %s\n", sumOutMD)
	}
	if sumOutJSON == "" && sumOutMD == "" {
		fmt.Println(resp.Outputs.SubstackMD)
	}
	return nil
}
