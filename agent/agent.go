package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/wikiseek/internal/runner"
	"github.com/petasbytes/wikiseek/internal/telemetry"
	"github.com/petasbytes/wikiseek/memory"
	"github.com/petasbytes/wikiseek/tools"
)

var (
	// ErrEmptyQuery is returned by Run for a blank query.
	ErrEmptyQuery = errors.New("agent: empty query")

	// ErrRoundTripLimit is returned when the model keeps requesting tools
	// past Config.MaxRoundTrips.
	ErrRoundTripLimit = errors.New("agent: round trip limit reached")
)

// Result is the outcome of a finished Run.
type Result struct {
	// Answer is the text of the final assistant message.
	Answer string

	// Conversation is every message of the run, oldest first, as built
	// (before cache shaping).
	Conversation []memory.Message

	// RoundTrips counts model calls.
	RoundTrips int
}

// Agent is safe for concurrent use; each Run owns its conversation.
type Agent struct {
	cfg    Config
	runner *runner.Runner
	logger *slog.Logger
}

// New creates an Agent. cfg is copied; later changes to it have no effect.
func New(client *anthropic.Client, wiki tools.Wiki, cfg Config, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.clone()
	r := runner.New(client, cfg.Tools, wiki, runner.Settings{
		Model:         cfg.Model,
		Temperature:   cfg.Temperature,
		MaxTokens:     cfg.MaxTokens,
		Timeout:       cfg.Timeout,
		StopSequences: cfg.StopSequences,
	}, logger)
	return &Agent{cfg: cfg, runner: r, logger: logger}
}

// Config returns a copy of the agent's configuration.
func (a *Agent) Config() Config { return a.cfg.clone() }

// Invoke runs query and returns the final answer.
func (a *Agent) Invoke(ctx context.Context, query string) (string, error) {
	res, err := a.Run(ctx, query)
	if err != nil {
		return "", err
	}
	return res.Answer, nil
}

// Run drives the conversation for query until the model answers without
// requesting tools. Tool lookups are executed sequentially in request order.
func (a *Agent) Run(ctx context.Context, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	turnID := telemetry.NewTurnID()
	ctx = telemetry.WithTurnID(ctx, turnID)
	log := a.logger.With("turn_id", turnID)

	start := time.Now()
	log.Info("invoke started", "query_runes", utf8.RuneCountInString(query))

	conv := []memory.Message{
		memory.System(a.cfg.SystemPrompt),
		memory.User(query),
	}
	for trip := 1; trip <= a.cfg.MaxRoundTrips; trip++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reply, results, err := a.runner.RunOneStep(ctx, conv)
		if err != nil {
			log.Error("invoke failed", "round_trip", trip, "error", err)
			return nil, fmt.Errorf("agent: round trip %d: %w", trip, err)
		}
		conv = append(conv, reply)

		if len(reply.Content.ToolCalls()) == 0 {
			answer := reply.Content.Text()
			telemetry.EmitInvokeFeatures(ctx, query, answer, trip)
			log.Info("invoke finished",
				"round_trips", trip,
				"messages", len(conv),
				"elapsed", time.Since(start),
			)
			return &Result{Answer: answer, Conversation: conv, RoundTrips: trip}, nil
		}
		log.Debug("tools executed", "round_trip", trip, "results", len(results))
		conv = append(conv, results...)
	}

	log.Warn("round trip limit reached", "limit", a.cfg.MaxRoundTrips)
	return nil, fmt.Errorf("%w (%d)", ErrRoundTripLimit, a.cfg.MaxRoundTrips)
}
