// Package credentials resolves the OAuth access token Claude Code
// stores on the local machine: the macOS Keychain on darwin, a fixed
// credentials file elsewhere. A missing token is a normal steady state,
// not an error.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// EnvToken short-circuits the platform stores when set.
const EnvToken = "CLAUDE_CODE_OAUTH_TOKEN"

// SourceKind identifies where a token came from.
type SourceKind string

const (
	SourceKeychain SourceKind = "keychain"
	SourceFile     SourceKind = "file"
	SourceEnv      SourceKind = "env"
	SourceNone     SourceKind = "none"
)

// Credential is a read-only view of the stored token. The zero value
// means "no credential".
type Credential struct {
	AccessToken string
	Source      SourceKind
}

// Present reports whether a usable token was found.
func (c Credential) Present() bool { return c.AccessToken != "" }

// Source retrieves the current access token. Implementations degrade
// silently: any lookup problem yields a credential with Source "none".
type Source interface {
	Resolve(ctx context.Context) Credential
}

// Resolve retrieves the current token, checking the CLAUDE_CODE_OAUTH_TOKEN
// override before the platform store chosen at build time.
func Resolve(ctx context.Context, logger *zap.Logger) Credential {
	if logger == nil {
		logger = zap.NewNop()
	}
	if token := os.Getenv(EnvToken); token != "" {
		return Credential{AccessToken: token, Source: SourceEnv}
	}
	return platformSource(logger).Resolve(ctx)
}

// oauthCredentials mirrors the stored JSON document. Both the Keychain
// entry and the credentials file carry the same shape.
type oauthCredentials struct {
	ClaudeAiOauth struct {
		AccessToken      string `json:"accessToken"`
		SubscriptionType string `json:"subscriptionType"`
	} `json:"claudeAiOauth"`
}

func tokenFromJSON(data []byte) string {
	var creds oauthCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return ""
	}
	return creds.ClaudeAiOauth.AccessToken
}

// commandRunner abstracts subprocess execution so the Keychain lookup
// is testable without a real Keychain.
type commandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}
	return out, nil
}

const (
	keychainService = "Claude Code-credentials"
	keychainTimeout = 2 * time.Second
)

// keychainSource reads the Keychain entry Claude Code maintains, via
// the security CLI. The lookup is bounded: a prompting or wedged
// Keychain must not stall the render.
type keychainSource struct {
	runner commandRunner
	logger *zap.Logger
}

func (s keychainSource) Resolve(ctx context.Context) Credential {
	ctx, cancel := context.WithTimeout(ctx, keychainTimeout)
	defer cancel()

	out, err := s.runner.Output(ctx, "security", "find-generic-password", "-s", keychainService, "-w")
	if err != nil {
		s.logger.Debug("keychain lookup failed", zap.Error(err))
		return Credential{Source: SourceNone}
	}
	token := tokenFromJSON([]byte(strings.TrimSpace(string(out))))
	if token == "" {
		return Credential{Source: SourceNone}
	}
	return Credential{AccessToken: token, Source: SourceKeychain}
}

// fileSource reads the fixed-path credentials file used on platforms
// without a Keychain.
type fileSource struct {
	path   string
	logger *zap.Logger
}

func (s fileSource) Resolve(context.Context) Credential {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Debug("credentials file unreadable", zap.String("path", s.path), zap.Error(err))
		return Credential{Source: SourceNone}
	}
	token := tokenFromJSON(data)
	if token == "" {
		return Credential{Source: SourceNone}
	}
	return Credential{AccessToken: token, Source: SourceFile}
}

func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claude", ".credentials.json")
}

// noneSource is the resolver for platforms with no supported store.
type noneSource struct{}

func (noneSource) Resolve(context.Context) Credential { return Credential{Source: SourceNone} }
