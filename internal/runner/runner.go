package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/petasbytes/wikiseek/internal/provider"
	"github.com/petasbytes/wikiseek/internal/telemetry"
	"github.com/petasbytes/wikiseek/internal/windowing"
	"github.com/petasbytes/wikiseek/memory"
	"github.com/petasbytes/wikiseek/tools"
)

// Settings are the per-call model parameters.
type Settings struct {
	Model         anthropic.Model
	Temperature   float64
	MaxTokens     int64
	Timeout       time.Duration
	StopSequences []string
}

type Runner struct {
	Client     *anthropic.Client
	Tools      []tools.ToolDefinition
	Dispatcher tools.Dispatcher
	Settings   Settings
	Counter    windowing.TokenCounter
	Logger     *slog.Logger
}

func New(client *anthropic.Client, toolDefs []tools.ToolDefinition, wiki tools.Wiki, s Settings, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		Client:     client,
		Tools:      toolDefs,
		Dispatcher: tools.Dispatcher{Wiki: wiki},
		Settings:   s,
		Counter:    windowing.HeuristicCounter{},
		Logger:     logger,
	}
}

func (r *Runner) anthropicTools() []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(r.Tools))
	for _, t := range r.Tools {
		out = append(out, t.Param())
	}
	return out
}

func (r *Runner) params(system []anthropic.TextBlockParam, msgs []anthropic.MessageParam) anthropic.MessageNewParams {
	p := anthropic.MessageNewParams{
		Model:       r.Settings.Model,
		MaxTokens:   r.Settings.MaxTokens,
		Messages:    msgs,
		System:      system,
		Temperature: anthropic.Float(r.Settings.Temperature),
	}
	if len(r.Settings.StopSequences) > 0 {
		p.StopSequences = r.Settings.StopSequences
	}
	if len(r.Tools) > 0 {
		p.Tools = r.anthropicTools()
	}
	return p
}

// RunOneStep shapes conv, sends it to the model and executes any tool calls
// in the reply. It returns the assistant reply and one tool-role message per
// tool call; results is empty when the reply requested no tools.
//
// Malformed tool calls are answered with an is_error result so the model can
// correct itself. A failing lookup aborts the step.
func (r *Runner) RunOneStep(ctx context.Context, conv []memory.Message) (memory.Message, []memory.Message, error) {
	ctx, turnID := telemetry.EnsureTurnID(ctx)

	window, stats := windowing.PrepareSendWindow(conv, r.Counter)
	telemetry.Emit("window_prepared", map[string]any{
		"turn_id":         turnID,
		"model":           string(r.Settings.Model),
		"messages":        stats.Messages,
		"marked":          stats.Marked,
		"marked_index":    stats.MarkedIndex,
		"total_estimated": stats.Total,
	})
	r.Logger.Debug("window prepared",
		"turn_id", turnID,
		"messages", stats.Messages,
		"marked", stats.Marked,
		"marked_index", stats.MarkedIndex,
		"est_total", stats.Total,
	)

	system, msgs, err := provider.ToParams(window)
	if err != nil {
		return memory.Message{}, nil, fmt.Errorf("runner: build request: %w", err)
	}

	var opts []option.RequestOption
	if r.Settings.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(r.Settings.Timeout))
	}

	start := time.Now()
	resp, err := r.Client.Messages.New(ctx, r.params(system, msgs), opts...)
	if err != nil {
		telemetry.Emit("model_call", map[string]any{
			"turn_id":     turnID,
			"duration_ms": time.Since(start).Milliseconds(),
			"error":       "model error",
		})
		return memory.Message{}, nil, fmt.Errorf("runner: model call: %w", err)
	}
	telemetry.Emit("model_call", map[string]any{
		"turn_id":                     turnID,
		"duration_ms":                 time.Since(start).Milliseconds(),
		"stop_reason":                 string(resp.StopReason),
		"input_tokens":                resp.Usage.InputTokens,
		"output_tokens":               resp.Usage.OutputTokens,
		"cache_creation_input_tokens": resp.Usage.CacheCreationInputTokens,
		"cache_read_input_tokens":     resp.Usage.CacheReadInputTokens,
		"error":                       nil,
	})
	r.Logger.Debug("model replied",
		"turn_id", turnID,
		"stop_reason", resp.StopReason,
		"input_tokens", resp.Usage.InputTokens,
		"cache_read_tokens", resp.Usage.CacheReadInputTokens,
		"window", stats.Messages,
	)

	reply := provider.FromResponse(resp)
	calls := reply.Content.ToolCalls()
	results := make([]memory.Message, 0, len(calls))
	for _, call := range calls {
		res, err := r.execTool(ctx, turnID, call)
		if err != nil {
			return reply, results, err
		}
		results = append(results, res)
	}
	return reply, results, nil
}

func (r *Runner) enabled(name string) bool {
	for _, t := range r.Tools {
		if t.Name == name {
			return true
		}
	}
	return false
}

func (r *Runner) execTool(ctx context.Context, turnID string, tc memory.ToolCall) (memory.Message, error) {
	// Helper to emit a tool_exec event
	emit := func(start time.Time, outputSize int, errStr string) {
		fields := map[string]any{
			"tool_name":   tc.Name,
			"duration_ms": time.Since(start).Milliseconds(),
			"input_size":  len(tc.Input),
			"output_size": outputSize,
			"turn_id":     turnID,
		}
		if errStr != "" {
			fields["error"] = errStr
		} else {
			fields["error"] = nil
		}
		telemetry.Emit("tool_exec", fields)
	}

	start := time.Now()
	if !r.enabled(tc.Name) {
		err := fmt.Errorf("%w: %q", tools.ErrUnknownTool, tc.Name)
		emit(start, 0, "tool not found")
		r.Logger.Warn("model requested unknown tool", "turn_id", turnID, "tool", tc.Name)
		return memory.ToolResult(tc.ID, err.Error(), true), nil
	}

	call, err := tools.Decode(tc.Name, tc.Input)
	if err != nil {
		reason := "invalid input"
		if errors.Is(err, tools.ErrUnknownTool) {
			reason = "tool not found"
		}
		emit(start, 0, reason)
		r.Logger.Warn("rejected tool call", "turn_id", turnID, "tool", tc.Name, "error", err)
		return memory.ToolResult(tc.ID, err.Error(), true), nil
	}

	out, err := r.Dispatcher.Execute(ctx, call)
	if err != nil {
		// Raw payloads stay out of telemetry.
		emit(start, 0, "tool error")
		return memory.Message{}, fmt.Errorf("runner: %s: %w", tc.Name, err)
	}
	emit(start, len(out), "")
	r.Logger.Debug("tool executed", "turn_id", turnID, "tool", tc.Name, "output_bytes", len(out))
	return memory.ToolResult(tc.ID, out, false), nil
}
