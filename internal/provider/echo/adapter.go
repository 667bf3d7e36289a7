// Package echo provides an offline answer provider that echoes the query back.
// It makes no external API calls; an optional delay stands in for the latency
// of a hosted model so cache hits have something to be compared against.
package echo

import (
	"context"
	"fmt"
	"time"

	"github.com/davidbz/semcache/internal/domain"
	"github.com/davidbz/semcache/internal/observability"
)

const providerName = "echo"

// Config holds echo provider configuration.
type Config struct {
	Delay time.Duration `env:"ECHO_DELAY" envDefault:"1500ms"`
}

// Compile-time interface check.
var _ domain.AnswerProvider = (*Provider)(nil)

// Provider implements domain.AnswerProvider for offline use.
type Provider struct {
	name  string
	delay time.Duration
}

// NewProvider creates a new echo provider.
func NewProvider(config Config) *Provider {
	return &Provider{
		name:  providerName,
		delay: config.Delay,
	}
}

// Generate waits for the configured delay and returns the echoed query.
func (p *Provider) Generate(ctx context.Context, query string) (string, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("echoing query", observability.Duration("delay", p.delay))

	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	return buildEchoContent(query), nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

func buildEchoContent(query string) string {
	return fmt.Sprintf("[echo]: %s", query)
}
