// Package pipeline orchestrates article generation: load stat rows, build
// the facts panel and prompt, generate prose, verify its numbers against
// the panel, and render the publishable outputs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/wslanalytics/pressbox/internal/cache"
	"github.com/wslanalytics/pressbox/internal/facts"
	"github.com/wslanalytics/pressbox/internal/guard"
	"github.com/wslanalytics/pressbox/internal/llm"
	"github.com/wslanalytics/pressbox/internal/model"
	"github.com/wslanalytics/pressbox/internal/render"
	"github.com/wslanalytics/pressbox/internal/store"
)

// Disclaimer is appended to an article body whose figures could not all be
// grounded in the facts panel.
const Disclaimer = "[Note: Certain figures omitted to maintain accuracy.]"

var (
	// ErrStoreNotConfigured is returned when DB mode is requested but no
	// database is configured. The server maps it to 503.
	ErrStoreNotConfigured = errors.New("database not configured; provide a DSN or send file-mode data")

	// ErrNoFixtures is returned when DB mode finds no rows for the
	// requested round. The server maps it to 404.
	ErrNoFixtures = errors.New("no fixtures found for the requested round")

	// ErrGenerationDisabled is returned when no LLM provider is
	// configured.
	ErrGenerationDisabled = errors.New("text generation is disabled; configure an LLM provider")
)

// Generator is the text-generation dependency, satisfied by *llm.Writer
// and by stubs in tests.
type Generator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error)
}

// Pipeline wires the stores, cache, generator and verifier together.
// Store, cache and generator are all optional; missing pieces narrow which
// modes are available rather than failing construction.
type Pipeline struct {
	store  store.Store
	cache  cache.Cache
	writer Generator
	config *model.Config
}

// New creates a pipeline.
func New(st store.Store, c cache.Cache, w Generator, cfg *model.Config) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	return &Pipeline{store: st, cache: c, writer: w, config: cfg}
}

// SummariseRound generates a round recap. DB mode (season+round, no rows
// supplied) loads every stats view; file mode uses the rows in params.
// The generated body is checked by the grounding verifier and a
// disclaimer is appended when any figure cannot be traced to the panel.
func (p *Pipeline) SummariseRound(ctx context.Context, params model.SummariseParams) (*model.SummariseResponse, error) {
	rf, tf, leaders, shots, setp, gk := params.RoundFacts, params.TeamForm, params.Leaders, params.ShotProfiles, params.SetPiece, params.GK

	if params.DBMode() {
		if p.store == nil {
			return nil, ErrStoreNotConfigured
		}
		var err error
		if rf, err = p.loadView(ctx, facts.SourceRoundFacts, params, p.store.RoundFacts); err != nil {
			return nil, err
		}
		if len(rf) == 0 {
			return nil, fmt.Errorf("%w: season=%s round=%d", ErrNoFixtures, params.Season, params.Round)
		}
		if tf, err = p.loadView(ctx, facts.SourceTeamForm, params, p.store.TeamForm); err != nil {
			return nil, err
		}
		if leaders, err = p.loadSeasonView(ctx, facts.SourcePlayerLeaders, params, p.store.Leaders); err != nil {
			return nil, err
		}
		if shots, err = p.loadView(ctx, facts.SourceShotProfile, params, p.store.ShotProfiles); err != nil {
			return nil, err
		}
		if setp, err = p.loadView(ctx, facts.SourceSetPieceShare, params, p.store.SetPieceShares); err != nil {
			return nil, err
		}
		if gk, err = p.loadSeasonView(ctx, facts.SourceGKXGOT, params, p.store.GKDeltas); err != nil {
			return nil, err
		}
	}

	// File-mode guard: nothing to write about, empty outputs.
	if len(rf) == 0 {
		return &model.SummariseResponse{Inputs: params, Citations: []string{}}, nil
	}

	panel := facts.RoundPanel(rf, tf, leaders, shots, setp, gk)

	prompt := llm.BuildRoundPrompt(llm.RoundPromptData{
		Angle:        params.Angle,
		RoundFacts:   rf,
		TeamForm:     tf,
		Leaders:      leaders,
		ShotProfiles: shots,
		SetPiece:     setp,
		GK:           gk,
		H2H:          params.H2H,
	})

	body, modelName, err := p.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	missing := guard.FindUngrounded(body, panel)
	if len(missing) > 0 {
		zap.L().Warn("ungrounded figures in generated recap",
			zap.String("season", params.Season),
			zap.Int("round", params.Round),
			zap.Strings("tokens", missing),
		)
		if p.config.Output.Disclaimer {
			body += "\n\n" + Disclaimer
		}
	}

	round := roundLabel(params, rf)
	headline, bullets := render.RecapHeadline(rf, round)
	teams := render.PrimaryTeams(rf,
		[]string{"home_team", "homeTeam", "home"},
		[]string{"away_team", "awayTeam", "away"})

	outputs, err := p.renderOutputs(render.Article{
		Round:    round,
		Headline: headline,
		Body:     body,
		Bullets:  bullets,
		Facts:    panel,
		Teams:    teams,
	}, false)
	if err != nil {
		return nil, err
	}

	p.saveArticle(ctx, model.ArticleRecord{
		Season:     params.Season,
		Round:      params.Round,
		Kind:       model.ArticleRecap,
		Model:      modelName,
		Body:       body,
		Ungrounded: missing,
	})

	return &model.SummariseResponse{
		Inputs:     params,
		Outputs:    outputs,
		Citations:  outputs.FactsPanel.Sources(),
		Ungrounded: missing,
	}, nil
}

// SummarisePreview generates a gameweek preview from upcoming fixtures.
func (p *Pipeline) SummarisePreview(ctx context.Context, params model.SummariseParams) (*model.SummariseResponse, error) {
	fixtures := params.PreviewFixtures

	if fixtures == nil && params.Season != "" && params.Round >= 1 {
		if p.store == nil {
			return nil, ErrStoreNotConfigured
		}
		var err error
		if fixtures, err = p.loadView(ctx, facts.SourcePreview, params, p.store.PreviewFixtures); err != nil {
			return nil, err
		}
	}

	if len(fixtures) == 0 {
		return &model.SummariseResponse{Inputs: params, Citations: []string{}}, nil
	}

	panel := facts.PreviewPanel(fixtures)

	body, modelName, err := p.generate(ctx, llm.BuildPreviewPrompt(params.Angle, fixtures))
	if err != nil {
		return nil, err
	}

	missing := guard.FindUngrounded(body, panel)
	if len(missing) > 0 {
		zap.L().Warn("ungrounded figures in generated preview",
			zap.String("season", params.Season),
			zap.Int("round", params.Round),
			zap.Strings("tokens", missing),
		)
		if p.config.Output.Disclaimer {
			body += "\n\n" + Disclaimer
		}
	}

	round := roundLabel(params, nil)
	headline, bullets := render.PreviewHeadline(round)
	teams := render.PrimaryTeams(fixtures, []string{"home"}, []string{"away"})

	outputs, err := p.renderOutputs(render.Article{
		Round:    round,
		Headline: headline,
		Body:     body,
		Bullets:  bullets,
		Facts:    panel,
		Teams:    teams,
	}, true)
	if err != nil {
		return nil, err
	}

	p.saveArticle(ctx, model.ArticleRecord{
		Season:     params.Season,
		Round:      params.Round,
		Kind:       model.ArticlePreview,
		Model:      modelName,
		Body:       body,
		Ungrounded: missing,
	})

	return &model.SummariseResponse{
		Inputs:     params,
		Outputs:    outputs,
		Citations:  outputs.FactsPanel.Sources(),
		Ungrounded: missing,
	}, nil
}

// generate runs the writer with the standard system prompt.
func (p *Pipeline) generate(ctx context.Context, prompt string) (body, modelName string, err error) {
	if p.writer == nil {
		return "", "", ErrGenerationDisabled
	}
	resp, err := p.writer.Generate(ctx, llm.GenerateRequest{
		System: llm.SystemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		return "", "", fmt.Errorf("generate: %w", err)
	}
	return resp.Text, resp.Model, nil
}

func (p *Pipeline) renderOutputs(a render.Article, preview bool) (model.RenderedOutputs, error) {
	substack, err := render.Substack(a, preview)
	if err != nil {
		return model.RenderedOutputs{}, err
	}
	thread, err := render.Thread(a)
	if err != nil {
		return model.RenderedOutputs{}, err
	}
	alt, err := render.AltText(a)
	if err != nil {
		return model.RenderedOutputs{}, err
	}
	seo, err := render.SEOYAML(a)
	if err != nil {
		return model.RenderedOutputs{}, err
	}
	return model.RenderedOutputs{
		SubstackMD: substack,
		ThreadText: thread,
		AltText:    alt,
		SEOYAML:    seo,
		FactsPanel: model.FactsPanel{Items: a.Facts},
	}, nil
}

// saveArticle persists the audit record; failures are logged, never
// surfaced, so a flaky audit table cannot block publication.
func (p *Pipeline) saveArticle(ctx context.Context, rec model.ArticleRecord) {
	if p.store == nil {
		return
	}
	if err := p.store.SaveArticle(ctx, rec); err != nil {
		zap.L().Warn("save article audit record failed", zap.Error(err))
	}
}

type viewLoader func(ctx context.Context, season string, round int) ([]model.Row, error)
type seasonLoader func(ctx context.Context, season string) ([]model.Row, error)

// loadView fetches one round-scoped view, consulting the snapshot cache.
func (p *Pipeline) loadView(ctx context.Context, view string, params model.SummariseParams, load viewLoader) ([]model.Row, error) {
	key := cache.SnapshotKey(view, params.Season, params.Round)
	if rows, ok := cache.GetRows(p.cache, key); ok {
		return rows, nil
	}
	rows, err := load(ctx, params.Season, params.Round)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", view, err)
	}
	cache.SetRows(p.cache, key, rows, p.config.Cache.TTL)
	return rows, nil
}

// loadSeasonView fetches one season-scoped view, consulting the snapshot
// cache.
func (p *Pipeline) loadSeasonView(ctx context.Context, view string, params model.SummariseParams, load seasonLoader) ([]model.Row, error) {
	key := cache.SnapshotKey(view, params.Season, 0)
	if rows, ok := cache.GetRows(p.cache, key); ok {
		return rows, nil
	}
	rows, err := load(ctx, params.Season)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", view, err)
	}
	cache.SetRows(p.cache, key, rows, p.config.Cache.TTL)
	return rows, nil
}

// roundLabel prefers the requested round number, falling back to the
// first match row's value.
func roundLabel(params model.SummariseParams, rf []model.Row) string {
	if params.Round >= 1 {
		return strconv.Itoa(params.Round)
	}
	if len(rf) > 0 {
		if v := facts.GetString(rf[0], "", "round"); v != "" {
			return v
		}
	}
	return "?"
}
