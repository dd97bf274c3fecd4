package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/bacongravy/claude-code-statusline/internal/config"
	"github.com/bacongravy/claude-code-statusline/internal/credentials"
	"github.com/bacongravy/claude-code-statusline/internal/gitstate"
	"github.com/bacongravy/claude-code-statusline/internal/logger"
	"github.com/bacongravy/claude-code-statusline/internal/render"
	"github.com/bacongravy/claude-code-statusline/internal/session"
	"github.com/bacongravy/claude-code-statusline/internal/usage"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			// Never crash the host's status area
			_, _ = fmt.Fprintln(os.Stdout)
		}
	}()

	cfg := config.Load(os.Args[1:])
	if cfg.ShowHelp {
		printHelp()
		return
	}

	log := logger.New(cfg.Debug)

	desc, err := session.Parse(os.Stdin)
	if err != nil {
		log.Debug("unusable input", zap.Error(err))
		_ = log.Sync()
		fmt.Fprintln(os.Stdout, "statusline: no data")
		os.Exit(1)
	}

	ctx := context.Background()

	// Git inspection and the credential-plus-usage fetch touch disjoint
	// resources; run them side by side and join before the one render.
	var (
		wg    sync.WaitGroup
		git   gitstate.Status
		cred  credentials.Credential
		quota usage.Windows
	)
	if cfg.ShowGit {
		wg.Add(1)
		go func() {
			defer wg.Done()
			git = gitstate.Detect(desc.ProjectDir)
		}()
	}
	if cfg.ShowUsage {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cred = credentials.Resolve(ctx, log)
			quota = usage.NewClient(cfg.UsageEndpoint, cfg.UsageTimeout, log).Fetch(ctx, cred.AccessToken)
		}()
	}
	wg.Wait()

	log.Debug("collected state",
		zap.String("session_id", desc.SessionID),
		zap.Bool("in_repo", git.InRepo),
		zap.String("credential_source", string(cred.Source)),
		zap.Bool("five_hour", quota.FiveHour.Available),
		zap.Bool("seven_day", quota.SevenDay.Available))

	home, _ := os.UserHomeDir()
	opts := render.Options{
		Palette:     render.NewPalette(cfg.NoColor),
		Home:        home,
		Hyperlinks:  !cfg.NoColor && render.SupportsHyperlinks(os.Getenv),
		BarWidth:    cfg.BarWidth,
		ShowGit:     cfg.ShowGit,
		ShowModel:   cfg.ShowModel,
		ShowContext: cfg.ShowContext,
		ShowUsage:   cfg.ShowUsage,
		HadToken:    cred.Present(),
	}

	fmt.Fprintln(os.Stdout, render.Render(desc, git, quota, opts))
	_ = log.Sync()
}

func printHelp() {
	_, _ = fmt.Fprint(os.Stderr, `Usage: statusline [OPTIONS]
Reads a session descriptor as JSON from stdin and prints one status line.

Options:
  --no-git               Hide the git segment
  --no-model             Hide the model name
  --no-context           Hide the context window bar
  --no-usage             Hide the quota windows
  --no-color             Disable ANSI colors and hyperlinks
  --bar-width N          Progress bar width in cells (default 10)
  --usage-endpoint URL   Usage API endpoint override
  --usage-timeout DUR    Usage fetch timeout (default 5s)
  --debug                Log diagnostics to stderr
  -h, --help             Show this help

Config precedence: CLI args > STATUSLINE_* env vars > ~/.claude/statusline.env > defaults
`)
}
