package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const writerMaxAttempts = 3

// writerSleepFunc is the sleep function used between retries (injectable
// for tests).
var writerSleepFunc = sleepCtx

// Writer owns a provider and centralises rate limiting and retry of
// transient failures, so callers (pipeline, batch workers) just ask for
// text.
type Writer struct {
	provider Provider
	limiter  *rate.Limiter
	config   Config
}

// NewWriter creates a writer for the configured provider. A nil return
// with nil error means generation is disabled.
func NewWriter(config Config) (*Writer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}

	rps := config.RatePerSec
	if rps <= 0 {
		rps = 1
	}

	return &Writer{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		config:   config,
	}, nil
}

// ProviderName returns the active provider's name.
func (w *Writer) ProviderName() string {
	return w.provider.Name()
}

// Generate produces article prose, waiting for rate-limit clearance and
// retrying transient failures (rate limits, server errors, network
// hiccups) with exponential backoff.
func (w *Writer) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var lastErr error
	for attempt := 0; attempt < writerMaxAttempts; attempt++ {
		if err := w.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		resp, err := w.provider.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isTransient(err) {
			return nil, err
		}
		if attempt < writerMaxAttempts-1 {
			backoff := 500 * time.Millisecond * time.Duration(1<<uint(attempt))
			if backoff > 6*time.Second {
				backoff = 6 * time.Second
			}
			if err := writerSleepFunc(ctx, backoff); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("generation failed after %d attempts: %w", writerMaxAttempts, lastErr)
}

// isTransient reports whether a provider error is worth retrying: rate
// limits, 5xx responses, timeouts, connection failures.
func isTransient(err error) bool {
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "status code: 429") || strings.Contains(s, "(429)") {
		return true
	}
	for _, code := range []string{"500", "502", "503", "504"} {
		if strings.Contains(s, "status code: "+code) || strings.Contains(s, "("+code+")") {
			return true
		}
	}
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "deadline exceeded") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
