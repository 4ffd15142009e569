// Package coaching turns teacher artifacts into structured coaching reports
// through a language model.
package coaching

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/eduelevate/internal/llm"
)

// Config holds gateway settings.
type Config struct {
	// Timeout bounds one request end to end. Zero disables the bound.
	Timeout     time.Duration
	Temperature float64
}

// DefaultConfig returns sensible defaults for coaching requests.
func DefaultConfig() Config {
	return Config{
		Timeout:     90 * time.Second,
		Temperature: 0.4,
	}
}

// kindSpec is the fixed model contract of one report kind.
type kindSpec struct {
	maxTokens int
	schema    func(Flags) *llm.Schema
	decode    func(json.RawMessage) (Report, error)
}

func decodeInto[T any, P interface {
	*T
	Report
}](raw json.RawMessage) (Report, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return P(&out), nil
}

var kinds = map[Kind]kindSpec{
	KindLessonCritique: {
		maxTokens: 2048,
		schema:    func(f Flags) *llm.Schema { return lessonCritiqueSchema(f.AlignmentMode) },
		decode:    decodeInto[LessonCritique],
	},
	KindLessonRewrite: {
		maxTokens: 8192,
		schema:    func(Flags) *llm.Schema { return lessonRewriteSchema() },
		decode:    decodeInto[LessonPlanRewrite],
	},
	KindObservation: {
		maxTokens: 4096,
		schema:    func(f Flags) *llm.Schema { return observationSchema(f.AlignmentMode) },
		decode:    decodeInto[ObservationAnalysis],
	},
	KindGrowthTrend: {
		maxTokens: 2048,
		schema:    func(Flags) *llm.Schema { return growthTrendSchema() },
		decode:    decodeInto[GrowthTrendReport],
	},
	KindExitTickets: {
		maxTokens: 4096,
		schema:    func(Flags) *llm.Schema { return exitTicketSchema() },
		decode:    decodeInto[ExitTicketAnalysis],
	},
	KindReflection: {
		maxTokens: 2048,
		schema:    func(Flags) *llm.Schema { return reflectionSchema() },
		decode:    decodeInto[ReflectionReport],
	},
}

// Gateway sends coaching requests to a provider and decodes the reports.
// It is safe for concurrent use when the provider is.
type Gateway struct {
	provider llm.Provider
	cfg      Config
	logger   *slog.Logger
}

// NewGateway creates a Gateway. A nil logger uses slog.Default.
func NewGateway(p llm.Provider, cfg Config, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{provider: p, cfg: cfg, logger: logger.With("component", "coaching")}
}

// Submit runs one request. Every failure (provider error, timeout, schema
// violation or decode error) yields Failed{Kind: req.Kind}; the cause is
// only logged.
func (g *Gateway) Submit(ctx context.Context, req Request) Report {
	start := time.Now()
	report, err := g.submit(ctx, req)
	if err != nil {
		g.logger.Warn("coaching request failed",
			"kind", req.Kind,
			"attachments", len(req.Attachments),
			"alignment", req.Flags.AlignmentMode,
			"elapsed", time.Since(start),
			"error", err,
		)
		return Failed{Kind: req.Kind}
	}
	g.logger.Info("coaching request completed",
		"kind", req.Kind,
		"elapsed", time.Since(start),
	)
	return report
}

func (g *Gateway) submit(ctx context.Context, req Request) (Report, error) {
	spec, ok := kinds[req.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown report kind %q", req.Kind)
	}
	if g.provider == nil {
		return nil, fmt.Errorf("no model provider configured")
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, string(req.Kind))

	resp, err := g.provider.Generate(ctx, g.buildRequest(spec, req))
	if err != nil {
		return nil, fmt.Errorf("%s generation: %w", req.Kind, err)
	}

	report, err := spec.decode(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s response: %w", req.Kind, err)
	}
	return report, nil
}

func (g *Gateway) buildRequest(spec kindSpec, req Request) llm.Request {
	msg := llm.Message{Role: llm.RoleUser, Content: req.Context}
	for _, a := range req.Attachments {
		msg.Attachments = append(msg.Attachments, a.toLLM())
	}
	return llm.Request{
		System:      systemPrompt(req.Kind, req.Flags),
		Messages:    []llm.Message{msg},
		Schema:      spec.schema(req.Flags),
		MaxTokens:   spec.maxTokens,
		Temperature: g.cfg.Temperature,
	}
}
