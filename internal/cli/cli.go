// Package cli is the flash-loop command surface (SPEC_FULL §6, §6.1): a
// run/runs/show/logs subcommand set plus a readline REPL, grounded on the
// teacher's internal/cli package (CLI struct wiring handler types,
// readline.NewEx with a bufio fallback, handleCommand's prefix-switch
// dispatch), retargeted from Task/browser/test-llm commands to
// flash-loop's goal-driven Loop runs against the Run Ledger.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"flashloop/internal/cli/commands"
	"flashloop/internal/cli/ui"
	"flashloop/internal/config"
	"flashloop/internal/loop"
	"flashloop/internal/planner"
	"flashloop/internal/platform/pw"
	"flashloop/internal/runledger"

	"github.com/chzyer/readline"
	"go.uber.org/zap"
)

// Options configures one goal-driven run, whether launched from argv
// (flash-loop <goal> ...) or from the REPL's `run` command.
type Options struct {
	URL         string
	Headless    bool
	Interactive bool
	MaxSteps    int
}

// CLI wires the Run Ledger, the Planner transport and the owned browser
// launcher behind the run/runs/show/logs subcommands and the REPL.
type CLI struct {
	cfg          *config.Cfg
	repo         *runledger.Repository
	log          *zap.Logger
	llmClient    planner.Client
	rl           *readline.Instance
	runsHandler  *commands.RunsHandler
	showHandler  *commands.ShowHandler
	logsHandler  *commands.LogsHandler
}

// New builds a CLI. llmClient is internal/platform/cerebras.Client (or any
// planner.Client), already configured from cfg.
func New(cfg *config.Cfg, repo *runledger.Repository, log *zap.Logger, llmClient planner.Client) *CLI {
	c := &CLI{
		cfg:       cfg,
		repo:      repo,
		log:       log,
		llmClient: llmClient,
	}

	c.runsHandler = commands.NewRunsHandler(repo, log)
	c.showHandler = commands.NewShowHandler(repo, log)
	c.logsHandler = commands.NewLogsHandler(repo, log)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     ".flash-loop-history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Warn("readline unavailable, falling back to bufio prompt", zap.Error(err))
	} else {
		c.rl = rl
	}

	return c
}

func (c *CLI) readLine() (string, error) {
	if c.rl != nil {
		return c.rl.Readline()
	}
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(ui.ColorCyan + "> " + ui.ColorReset)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *CLI) closeReadline() {
	if c.rl != nil {
		c.rl.Close()
	}
}

// RunGoal launches an owned browser, drives the Loop toward goal, and
// returns the emitted script (a path in file mode, since RunGoal always
// runs in owned mode). This is the primary action behind both
// `flash-loop <goal> ...` and the REPL's `run <goal>` command.
func (c *CLI) RunGoal(ctx context.Context, goal string, opts Options) (string, error) {
	browser, err := pw.Launch(pw.LaunchConfig{
		Headless:    opts.Headless,
		UserDataDir: c.cfg.Browser.UserDataDir,
		Display:     c.cfg.Browser.Display,
	})
	if err != nil {
		return "", fmt.Errorf("cli: launching browser: %w", err)
	}

	var menu loop.Menu
	if opts.Interactive {
		menu = NewReadlineMenu(c.readLine)
	}

	cfg := loop.Config{
		MaxSteps:    opts.MaxSteps,
		Interactive: opts.Interactive,
		Menu:        menu,
		Model:       c.cfg.Cerebras.Model,
	}

	p := planner.New(c.llmClient)
	l, err := loop.Owned(browser, opts.URL, "./scripts", goal, p, c.repo, cfg)
	if err != nil {
		_ = browser.Close()
		return "", fmt.Errorf("cli: constructing loop: %w", err)
	}

	return l.Run(ctx, goal)
}

// Run starts the readline REPL (spec §6.1, bare `flash-loop` or `flash-loop
// repl`).
func (c *CLI) Run(ctx context.Context) {
	ui.PrintWelcome()
	defer c.closeReadline()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\n" + ui.ColorCyan + ui.IconWave + " shutting down..." + ui.ColorReset)
			return
		default:
		}

		line, err := c.readLine()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		c.handleCommand(ctx, line)
	}
}

func (c *CLI) handleCommand(ctx context.Context, line string) {
	switch {
	case line == "exit":
		fmt.Println(ui.ColorCyan + ui.IconWave + " goodbye" + ui.ColorReset)
		os.Exit(0)

	case line == "clear":
		ui.ClearScreen()

	case strings.HasPrefix(line, "run "):
		goal := strings.TrimPrefix(line, "run ")
		fmt.Println(ui.ColorCyan + ui.IconPlay + " running toward: " + goal + ui.ColorReset)
		output, err := c.RunGoal(ctx, goal, Options{Headless: c.cfg.Browser.Headless, MaxSteps: loopDefaultMaxSteps})
		if err != nil {
			fmt.Printf(ui.ColorRed+ui.IconCross+" run failed:"+ui.ColorReset+" %v\n", err)
			return
		}
		fmt.Println(ui.ColorGreen + ui.IconCheckmark + " done, script at: " + output + ui.ColorReset)

	case strings.HasPrefix(line, "runs"):
		limit := 20
		if rest := strings.TrimSpace(strings.TrimPrefix(line, "runs")); rest != "" {
			if n, err := strconv.Atoi(rest); err == nil {
				limit = n
			}
		}
		c.runsHandler.List(limit)

	case strings.HasPrefix(line, "show "):
		c.showHandler.Show(strings.TrimPrefix(line, "show "))

	case strings.HasPrefix(line, "logs "):
		c.logsHandler.Show(strings.TrimPrefix(line, "logs "))

	default:
		ui.PrintHelp()
	}
}

// ListRuns, Show and Logs expose the same subcommands for argv dispatch
// (flash-loop runs/show/logs), bypassing the REPL entirely.
func (c *CLI) ListRuns(limit int)        { c.runsHandler.List(limit) }
func (c *CLI) ShowRun(runID string)      { c.showHandler.Show(runID) }
func (c *CLI) ShowLogs(runID string)     { c.logsHandler.Show(runID) }

const loopDefaultMaxSteps = 20
