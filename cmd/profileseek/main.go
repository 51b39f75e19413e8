// profileseek answers profile questions from Japanese Wikipedia.
//
// With --query it prints one Markdown answer to stdout and exits. Without
// it, the single-form web shell is served until SIGINT or SIGTERM.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/petasbytes/wikiseek/agent"
	"github.com/petasbytes/wikiseek/internal/config"
	"github.com/petasbytes/wikiseek/internal/provider"
	"github.com/petasbytes/wikiseek/internal/web"
	"github.com/petasbytes/wikiseek/internal/wikipedia"
	"github.com/petasbytes/wikiseek/memory"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	query      string
	listen     string
	transcript string
	show       string
	logLevel   string
	help       bool
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("profileseek", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to config.yaml (default: search ./, ~/.config/wikiseek, /etc/wikiseek)")
	fs.StringVarP(&opts.query, "query", "q", "", "answer one query and exit")
	fs.StringVar(&opts.listen, "listen", "", "web shell address (overrides listen.address)")
	fs.StringVar(&opts.transcript, "transcript", "", "write the conversation of a --query run to this JSON file")
	fs.StringVar(&opts.show, "show-transcript", "", "print a transcript written by --transcript and exit")
	fs.StringVar(&opts.logLevel, "log-level", "", "trace, debug, info, warn or error (overrides log_level)")
	fs.BoolVarP(&opts.help, "help", "h", false, "show help")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	if opts.help {
		fmt.Fprintln(stderr, "Usage: profileseek [flags]")
		fs.PrintDefaults()
	}
	return opts, nil
}

// loadConfig resolves defaults, the config file, the environment and flags.
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	path, err := config.FindConfig(opts.configPath)
	switch {
	case err == nil:
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	case opts.configPath != "" || !errors.Is(err, config.ErrNoConfig):
		return nil, err
	}

	cfg.ApplyEnv()
	if opts.listen != "" {
		cfg.Listen.Address = opts.listen
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseOptions(args, stderr)
	if err != nil || opts.help {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if opts.show != "" {
		return printTranscript(opts.show, stdout)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := config.NewLogger(stderr, level)
	slog.SetDefault(logger)

	client := provider.NewAnthropicClient(cfg.Anthropic.APIKey)
	wiki := wikipedia.New(append(cfg.WikipediaOptions(), wikipedia.WithLogger(logger))...)
	a := agent.New(client, wiki, cfg.AgentConfig(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.query != "" {
		return answerOnce(ctx, a, opts.query, opts.transcript, stdout, logger)
	}
	return serve(ctx, a, cfg.Listen.Address, logger)
}

func answerOnce(ctx context.Context, a *agent.Agent, query, transcript string, stdout io.Writer, logger *slog.Logger) error {
	res, err := a.Run(ctx, query)
	if err != nil {
		return err
	}
	if transcript != "" {
		if err := memory.SaveTranscript(transcript, res.Conversation); err != nil {
			logger.Warn("failed to save transcript", "path", transcript, "error", err)
		}
	}
	_, err = fmt.Fprintln(stdout, res.Answer)
	return err
}

// printTranscript writes one "role: text" entry per message. Tool calls are
// shown by name and input.
func printTranscript(path string, stdout io.Writer) error {
	msgs, err := memory.LoadTranscript(path)
	if err != nil {
		return fmt.Errorf("load transcript: %w", err)
	}
	for _, m := range msgs {
		role := string(m.Role)
		if m.Role == memory.RoleTool {
			role = fmt.Sprintf("tool[%s]", m.ToolCallID)
			if m.IsError {
				role += " error"
			}
		}
		if text := m.Content.Text(); text != "" {
			fmt.Fprintf(stdout, "%s: %s\n", role, text)
		}
		for _, tc := range m.Content.ToolCalls() {
			var input bytes.Buffer
			if err := json.Compact(&input, tc.Input); err != nil {
				input.Write(tc.Input)
			}
			fmt.Fprintf(stdout, "%s: -> %s %s\n", role, tc.Name, input.String())
		}
	}
	return nil
}

func serve(ctx context.Context, a *agent.Agent, addr string, logger *slog.Logger) error {
	srv := web.NewServer(addr, a, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return err
	}
	return <-errCh
}
