// Command flash-loop is the CLI entrypoint (SPEC_FULL §6, §6.1):
//
//	flash-loop <goal> [-u|--url <url>] [--headless] [-i|--interactive] [--max-steps <n>]
//	flash-loop run <goal> [...]
//	flash-loop runs [--limit N]
//	flash-loop show <run-id>
//	flash-loop logs <run-id>
//	flash-loop repl
//
// Grounded on the teacher's cmd/main.go wiring order (config, logger,
// migrations, database, repository, LLM client, browser, CLI), adapted to
// flash-loop's Cerebras transport and Run Ledger, and to the argv-driven
// one-shot/subcommand surface the teacher's REPL-only main.go never had.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"flashloop/internal/cli"
	"flashloop/internal/config"
	"flashloop/internal/logger"
	"flashloop/internal/platform/cerebras"
	"flashloop/internal/runledger"

	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "flash-loop: config error:", err)
		return 1
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		File:   cfg.Logger.File,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "flash-loop: logger init failed:", err)
		return 1
	}
	defer logger.Sync(log)

	if err := runledger.Migrate(cfg.Database.PostgresURL(), cfg.Migrations.Path); err != nil {
		log.Error("applying run ledger migrations", zap.Error(err))
		return 1
	}

	db, err := runledger.Open(cfg.Database.DSN())
	if err != nil {
		log.Error("connecting to run ledger database", zap.Error(err))
		return 1
	}
	repo := runledger.NewRepository(db)

	llmClient := cerebras.New(cerebras.Config{
		APIKey:            cfg.Cerebras.APIKey,
		Model:             cfg.Cerebras.Model,
		BaseURL:           cfg.Cerebras.BaseURL,
		RequestsPerMinute: cfg.Cerebras.RequestsPerMinute,
		TokensPerHour:     cfg.Cerebras.TokensPerHour,
	})

	console := cli.New(cfg, repo, log, llmClient)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	if len(args) == 0 || args[0] == "repl" {
		console.Run(ctx)
		return 0
	}

	return dispatch(ctx, console, args, log)
}

func dispatch(ctx context.Context, console *cli.CLI, args []string, log *zap.Logger) int {
	switch args[0] {
	case "run":
		return runOneShot(ctx, console, args[1:], log)
	case "runs":
		limit := 20
		if n := flagInt(args[1:], "--limit", 0); n > 0 {
			limit = n
		}
		console.ListRuns(limit)
		return 0
	case "show":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: flash-loop show <run-id>")
			return 1
		}
		console.ShowRun(args[1])
		return 0
	case "logs":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: flash-loop logs <run-id>")
			return 1
		}
		console.ShowLogs(args[1])
		return 0
	default:
		return runOneShot(ctx, console, args, log)
	}
}

// runOneShot implements `flash-loop <goal> [-u|--url <url>] [--headless]
// [-i|--interactive] [--max-steps <n>]` and its explicit `run` alias.
func runOneShot(ctx context.Context, console *cli.CLI, args []string, log *zap.Logger) int {
	goal, opts, err := parseGoalArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "flash-loop:", err)
		return 1
	}

	output, err := console.RunGoal(ctx, goal, opts)
	if err != nil {
		log.Error("run failed", zap.Error(err), zap.String("goal", goal))
		fmt.Fprintln(os.Stderr, "flash-loop: run failed:", err)
		return 1
	}

	fmt.Println(output)
	return 0
}

func parseGoalArgs(args []string) (string, cli.Options, error) {
	opts := cli.Options{MaxSteps: 0}
	var goalParts []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-u", "--url":
			if i+1 >= len(args) {
				return "", opts, fmt.Errorf("%s requires a value", args[i])
			}
			i++
			opts.URL = args[i]
		case "--headless":
			opts.Headless = true
		case "-i", "--interactive":
			opts.Interactive = true
		case "--max-steps":
			if i+1 >= len(args) {
				return "", opts, fmt.Errorf("--max-steps requires a value")
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n <= 0 {
				return "", opts, fmt.Errorf("--max-steps must be a positive integer")
			}
			opts.MaxSteps = n
		default:
			goalParts = append(goalParts, args[i])
		}
	}

	if len(goalParts) == 0 {
		return "", opts, fmt.Errorf("a goal is required")
	}

	goal := goalParts[0]
	for _, part := range goalParts[1:] {
		goal += " " + part
	}
	return goal, opts, nil
}

func flagInt(args []string, name string, def int) int {
	for i, a := range args {
		if a == name && i+1 < len(args) {
			if n, err := strconv.Atoi(args[i+1]); err == nil {
				return n
			}
		}
	}
	return def
}
