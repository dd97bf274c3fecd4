// Package config merges settings from defaults, the optional
// ~/.claude/statusline.env file, STATUSLINE_* environment variables,
// and CLI flags, in that order of increasing priority.
package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultBarWidth = 10

// Viper keys double as the environment variable names (upper-cased)
// and the keys accepted in statusline.env.
const (
	keyShowGit       = "statusline_show_git"
	keyShowModel     = "statusline_show_model"
	keyShowContext   = "statusline_show_context"
	keyShowUsage     = "statusline_show_usage"
	keyNoColor       = "statusline_no_color"
	keyDebug         = "statusline_debug"
	keyBarWidth      = "statusline_bar_width"
	keyUsageEndpoint = "statusline_usage_endpoint"
	keyUsageTimeout  = "statusline_usage_timeout"
)

type Config struct {
	ShowGit     bool
	ShowModel   bool
	ShowContext bool
	ShowUsage   bool
	NoColor     bool
	Debug       bool
	ShowHelp    bool

	BarWidth int
	// UsageEndpoint empty means the client's built-in endpoint.
	UsageEndpoint string
	UsageTimeout  time.Duration
}

// Load resolves the configuration. Unknown flags and an absent config
// file are ignored; Load never fails.
func Load(args []string) Config {
	v := viper.New()
	v.SetDefault(keyShowGit, true)
	v.SetDefault(keyShowModel, true)
	v.SetDefault(keyShowContext, true)
	v.SetDefault(keyShowUsage, true)
	v.SetDefault(keyNoColor, false)
	v.SetDefault(keyDebug, false)
	v.SetDefault(keyBarWidth, defaultBarWidth)
	v.SetDefault(keyUsageEndpoint, "")
	v.SetDefault(keyUsageTimeout, 5*time.Second)

	v.AutomaticEnv()

	v.SetConfigFile(filepath.Join(os.Getenv("HOME"), ".claude", "statusline.env"))
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	cfg := Config{
		ShowGit:       v.GetBool(keyShowGit),
		ShowModel:     v.GetBool(keyShowModel),
		ShowContext:   v.GetBool(keyShowContext),
		ShowUsage:     v.GetBool(keyShowUsage),
		NoColor:       v.GetBool(keyNoColor),
		Debug:         v.GetBool(keyDebug),
		BarWidth:      v.GetInt(keyBarWidth),
		UsageEndpoint: v.GetString(keyUsageEndpoint),
		UsageTimeout:  v.GetDuration(keyUsageTimeout),
	}

	fs := pflag.NewFlagSet("statusline", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsWhitelist.UnknownFlags = true

	noGit := fs.Bool("no-git", false, "hide the git segment")
	noModel := fs.Bool("no-model", false, "hide the model segment")
	noContext := fs.Bool("no-context", false, "hide the context segment")
	noUsage := fs.Bool("no-usage", false, "hide the quota segments")
	noColor := fs.Bool("no-color", false, "emit plain text without ANSI sequences")
	debug := fs.Bool("debug", false, "log diagnostics to stderr")
	barWidth := fs.Int("bar-width", 0, "progress bar width in cells")
	usageEndpoint := fs.String("usage-endpoint", "", "usage API endpoint override")
	usageTimeout := fs.Duration("usage-timeout", 0, "usage fetch timeout")
	help := fs.BoolP("help", "h", false, "show usage")

	_ = fs.Parse(args)

	if *noGit {
		cfg.ShowGit = false
	}
	if *noModel {
		cfg.ShowModel = false
	}
	if *noContext {
		cfg.ShowContext = false
	}
	if *noUsage {
		cfg.ShowUsage = false
	}
	if *noColor {
		cfg.NoColor = true
	}
	if *debug {
		cfg.Debug = true
	}
	if *barWidth > 0 {
		cfg.BarWidth = *barWidth
	}
	if *usageEndpoint != "" {
		cfg.UsageEndpoint = *usageEndpoint
	}
	if *usageTimeout > 0 {
		cfg.UsageTimeout = *usageTimeout
	}
	cfg.ShowHelp = *help

	// NO_COLOR is presence-based per the informal standard.
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.NoColor = true
	}

	if cfg.BarWidth <= 0 {
		cfg.BarWidth = defaultBarWidth
	}
	return cfg
}
