package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wslanalytics/pressbox/internal/model"
	"github.com/wslanalytics/pressbox/internal/store"
)

var (
	dbCheckSeason  string
	dbCheckRound   int
	dbCheckTimeout time.Duration
)

// dbCheckCmd represents the db-check command
var dbCheckCmd = &cobra.Command{
	Use:   "db-check",
	Short: "Verify database connectivity and the stats views",
	Long: `Db-check connects to the configured database, pings it, and reads a
sample from every stats view the pipeline depends on, reporting row counts.

Example:
  DATABASE_URL=postgres://... pressbox db-check --season 2025-26 --round 1`,
	RunE: runDBCheck,
}

func init() {
	rootCmd.AddCommand(dbCheckCmd)

	dbCheckCmd.Flags().StringVar(&dbCheckSeason, "season", "2025-26", "season to sample")
	dbCheckCmd.Flags().IntVar(&dbCheckRound, "round", 1, "round to sample")
	dbCheckCmd.Flags().DurationVar(&dbCheckTimeout, "timeout", 30*time.Second, "overall check timeout")
}

func runDBCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), dbCheckTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.DB.Configured() {
		return fmt.Errorf("no database configured; set DATABASE_URL or the db section of the config")
	}

	pg, err := store.NewPostgres(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pg.Close()

	if err := pg.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	fmt.Fprintln(os.Stderr, "✓ connected")

	checks := []struct {
		name string
		load func(context.Context) ([]model.Row, error)
	}{
		{"vw_round_facts", func(ctx context.Context) ([]model.Row, error) {
			return pg.RoundFacts(ctx, dbCheckSeason, dbCheckRound)
		}},
		{"vw_team_form_5", func(ctx context.Context) ([]model.Row, error) {
			return pg.TeamForm(ctx, dbCheckSeason, dbCheckRound)
		}},
		{"vw_player_leaders_90", func(ctx context.Context) ([]model.Row, error) {
			return pg.Leaders(ctx, dbCheckSeason)
		}},
		{"vw_shot_profile", func(ctx context.Context) ([]model.Row, error) {
			return pg.ShotProfiles(ctx, dbCheckSeason, dbCheckRound)
		}},
		{"vw_set_piece_share", func(ctx context.Context) ([]model.Row, error) {
			return pg.SetPieceShares(ctx, dbCheckSeason, dbCheckRound)
		}},
		{"vw_gk_xgot", func(ctx context.Context) ([]model.Row, error) {
			return pg.GKDeltas(ctx, dbCheckSeason)
		}},
		{"rpc_round_fixtures_preview", func(ctx context.Context) ([]model.Row, error) {
			return pg.PreviewFixtures(ctx, dbCheckSeason, dbCheckRound)
		}},
	}

	var failed int
	for _, c := range checks {
		rows, err := c.load(ctx)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %-28s %v\n", c.name, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %-28s %d rows\n", c.name, len(rows))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	fmt.Fprintln(os.Stderr, "✓ all checks passed")
	return nil
}
