package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wslanalytics/pressbox/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses, satisfied by pgxmock
// in tests.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// Postgres implements Store on a pgx connection pool.
type Postgres struct {
	pool Pool
}

// NewPostgres creates a Postgres store with a connection pool sized per
// config and verifies connectivity with a ping.
func NewPostgres(ctx context.Context, cfg model.DBConfig) (*Postgres, error) {
	dsn := cfg.DSN()
	if dsn == "" {
		return nil, fmt.Errorf("postgres: database not configured")
	}

	pgxCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 5
	}
	minConns := cfg.MinConns
	if minConns <= 0 {
		minConns = 1
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

const (
	queryRoundFacts = `SELECT * FROM public.vw_round_facts WHERE season=$1 AND round=$2 ORDER BY utc_kickoff`

	// Latest form row per team appearing in the round.
	queryTeamForm = `
WITH teams_in_round AS (
  SELECT DISTINCT home_team_id AS team_id FROM public.vw_round_facts WHERE season=$1 AND round=$2
  UNION
  SELECT DISTINCT away_team_id FROM public.vw_round_facts WHERE season=$1 AND round=$2
)
SELECT DISTINCT ON (t.team_id)
       f.season, f.team_id, f.team, f.pts_avg, f.pts_5, f.gf_5, f.ga_5, f.utc_kickoff
FROM   teams_in_round t
JOIN   public.vw_team_form_5 f
       ON f.season=$1 AND f.team_id=t.team_id
ORDER BY t.team_id, f.utc_kickoff DESC`

	queryLeaders = `SELECT * FROM public.vw_player_leaders_90 WHERE season=$1 LIMIT 50`

	queryShotProfiles = `
SELECT sp.* FROM public.vw_shot_profile sp
WHERE season=$1 AND team_id IN (
    SELECT home_team_id FROM public.vw_round_facts WHERE season=$1 AND round=$2
    UNION
    SELECT away_team_id FROM public.vw_round_facts WHERE season=$1 AND round=$2
)`

	querySetPieceShares = `
SELECT * FROM public.vw_set_piece_share
WHERE season=$1 AND team_id IN (
    SELECT home_team_id FROM public.vw_round_facts WHERE season=$1 AND round=$2
    UNION
    SELECT away_team_id FROM public.vw_round_facts WHERE season=$1 AND round=$2
)`

	queryGKDeltas = `SELECT * FROM public.vw_gk_xgot WHERE season=$1 LIMIT 30`

	queryPreviewFixtures = `SELECT rpc_round_fixtures_preview($1,$2,'WSL') AS js`

	queryInsertArticle = `INSERT INTO articles (id, season, round, kind, model, body, ungrounded, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

const postgresMigration = `
CREATE TABLE IF NOT EXISTS articles (
	id         TEXT PRIMARY KEY,
	season     TEXT NOT NULL,
	round      INT NOT NULL,
	kind       TEXT NOT NULL,
	model      TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL,
	ungrounded JSONB NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_articles_season_round ON articles(season, round);
`

// RoundFacts returns the match rows of a round, in kickoff order.
func (s *Postgres) RoundFacts(ctx context.Context, season string, round int) ([]model.Row, error) {
	return s.queryRows(ctx, "round facts", queryRoundFacts, season, round)
}

// TeamForm returns the latest five-match form row of every team in the
// round.
func (s *Postgres) TeamForm(ctx context.Context, season string, round int) ([]model.Row, error) {
	return s.queryRows(ctx, "team form", queryTeamForm, season, round)
}

// Leaders returns the per-90 player leaders of the season.
func (s *Postgres) Leaders(ctx context.Context, season string) ([]model.Row, error) {
	return s.queryRows(ctx, "leaders", queryLeaders, season)
}

// ShotProfiles returns shot profile rows for teams in the round.
func (s *Postgres) ShotProfiles(ctx context.Context, season string, round int) ([]model.Row, error) {
	return s.queryRows(ctx, "shot profiles", queryShotProfiles, season, round)
}

// SetPieceShares returns set-piece xG share rows for teams in the round.
func (s *Postgres) SetPieceShares(ctx context.Context, season string, round int) ([]model.Row, error) {
	return s.queryRows(ctx, "set piece shares", querySetPieceShares, season, round)
}

// GKDeltas returns goalkeeper xGOT delta rows of the season.
func (s *Postgres) GKDeltas(ctx context.Context, season string) ([]model.Row, error) {
	return s.queryRows(ctx, "gk deltas", queryGKDeltas, season)
}

// PreviewFixtures returns the upcoming fixtures of a round with win
// probabilities and likely scorelines, via the preview RPC. The RPC
// returns a JSON document; the argument order (round, season) follows it.
func (s *Postgres) PreviewFixtures(ctx context.Context, season string, round int) ([]model.Row, error) {
	var js []byte
	if err := s.pool.QueryRow(ctx, queryPreviewFixtures, round, season).Scan(&js); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("preview fixtures: %w", err)
	}
	if len(js) == 0 {
		return nil, nil
	}
	var fixtures []model.Row
	if err := json.Unmarshal(js, &fixtures); err != nil {
		return nil, fmt.Errorf("preview fixtures: decode: %w", err)
	}
	return fixtures, nil
}

// SaveArticle persists one generated article with its verification
// verdict.
func (s *Postgres) SaveArticle(ctx context.Context, rec model.ArticleRecord) error {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	ungrounded := rec.Ungrounded
	if ungrounded == nil {
		ungrounded = []string{}
	}
	flagged, err := json.Marshal(ungrounded)
	if err != nil {
		return fmt.Errorf("save article: encode ungrounded: %w", err)
	}

	_, err = s.pool.Exec(ctx, queryInsertArticle,
		id, rec.Season, rec.Round, string(rec.Kind), rec.Model, rec.Body, flagged, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save article: %w", err)
	}
	return nil
}

// Migrate creates the audit-log table. The stats views are owned by the
// data warehouse and are never created here.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Ping verifies connectivity.
func (s *Postgres) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *Postgres) Close() {
	s.pool.Close()
}

// queryRows runs a SELECT and returns rows as plain maps keyed by column
// name, the shape the panel builder and prompts consume.
func (s *Postgres) queryRows(ctx context.Context, what, sql string, args ...any) ([]model.Row, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []model.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("%s: read row: %w", what, err)
		}
		m := make(model.Row, len(fields))
		for i, fd := range fields {
			m[fd.Name] = values[i]
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return out, nil
}
