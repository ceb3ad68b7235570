// Package store reads the stats views that feed article generation and
// keeps an audit log of generated articles.
package store

import (
	"context"

	"github.com/wslanalytics/pressbox/internal/model"
)

// Store defines the persistence interface consumed by the pipeline.
type Store interface {
	// Stats views
	RoundFacts(ctx context.Context, season string, round int) ([]model.Row, error)
	TeamForm(ctx context.Context, season string, round int) ([]model.Row, error)
	Leaders(ctx context.Context, season string) ([]model.Row, error)
	ShotProfiles(ctx context.Context, season string, round int) ([]model.Row, error)
	SetPieceShares(ctx context.Context, season string, round int) ([]model.Row, error)
	GKDeltas(ctx context.Context, season string) ([]model.Row, error)
	PreviewFixtures(ctx context.Context, season string, round int) ([]model.Row, error)

	// Audit log
	SaveArticle(ctx context.Context, rec model.ArticleRecord) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close()
}
