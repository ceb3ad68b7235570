package worker

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wslanalytics/pressbox/internal/model"
)

// Summariser generates one article per round. Satisfied by
// *pipeline.Pipeline.
type Summariser interface {
	SummariseRound(ctx context.Context, params model.SummariseParams) (*model.SummariseResponse, error)
	SummarisePreview(ctx context.Context, params model.SummariseParams) (*model.SummariseResponse, error)
}

// ArticleJob generates a single round's article.
type ArticleJob struct {
	Season     string
	Round      int
	Kind       model.ArticleKind
	Angle      string
	Summariser Summariser
}

// Execute runs the job.
func (j *ArticleJob) Execute(ctx context.Context) Result {
	params := model.SummariseParams{Season: j.Season, Round: j.Round, Angle: j.Angle}

	var (
		resp *model.SummariseResponse
		err  error
	)
	if j.Kind == model.ArticlePreview {
		resp, err = j.Summariser.SummarisePreview(ctx, params)
	} else {
		resp, err = j.Summariser.SummariseRound(ctx, params)
	}
	return &ArticleResult{Season: j.Season, Round: j.Round, Kind: j.Kind, Response: resp, Error: err}
}

// ArticleResult is the outcome of one round's generation.
type ArticleResult struct {
	Season   string
	Round    int
	Kind     model.ArticleKind
	Response *model.SummariseResponse
	Error    error
}

// Err reports the job error, if any.
func (r *ArticleResult) Err() error { return r.Error }

// BatchProcessor generates articles for many rounds concurrently.
type BatchProcessor struct {
	summariser  Summariser
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(s Summariser, concurrency int) *BatchProcessor {
	return &BatchProcessor{summariser: s, concurrency: concurrency}
}

// ProcessRounds generates one article per round and returns the results
// sorted by round number.
func (b *BatchProcessor) ProcessRounds(ctx context.Context, season string, rounds []int, kind model.ArticleKind, angle string) []*ArticleResult {
	if len(rounds) == 0 {
		return []*ArticleResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	for _, round := range rounds {
		pool.Submit(&ArticleJob{
			Season:     season,
			Round:      round,
			Kind:       kind,
			Angle:      angle,
			Summariser: b.summariser,
		})
	}

	results := pool.Wait()

	out := make([]*ArticleResult, 0, len(results))
	for _, r := range results {
		out = append(out, r.(*ArticleResult))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out
}

// ParseRounds expands a round selector like "1,3,5-8" into a sorted,
// de-duplicated list of round numbers.
func ParseRounds(selector string) ([]int, error) {
	seen := make(map[int]bool)
	var rounds []int

	add := func(n int) {
		if !seen[n] {
			seen[n] = true
			rounds = append(rounds, n)
		}
	}

	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid round range %q: %w", part, err)
			}
			end, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid round range %q: %w", part, err)
			}
			if start < 1 || end < start {
				return nil, fmt.Errorf("invalid round range %q", part)
			}
			for n := start; n <= end; n++ {
				add(n)
			}
			continue
		}

		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid round %q: %w", part, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("invalid round %q", part)
		}
		add(n)
	}

	if len(rounds) == 0 {
		return nil, fmt.Errorf("empty round selector %q", selector)
	}
	sort.Ints(rounds)
	return rounds, nil
}
