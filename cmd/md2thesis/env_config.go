package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-md2thesis/internal/config"
)

// envPrefix marks the variables this tool reads.
const envPrefix = "MD2THESIS_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MD2THESIS_CONFIG: config file name or path
	Profile    string        // MD2THESIS_PROFILE: formatting profile
	Timeout    time.Duration // MD2THESIS_TIMEOUT: pandoc timeout
	Pandoc     string        // MD2THESIS_PANDOC: pandoc binary
	Workers    int           // MD2THESIS_WORKERS: parallel workers
}

// knownEnvVars lists valid MD2THESIS_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2THESIS_CONFIG":  true,
	"MD2THESIS_PROFILE": true,
	"MD2THESIS_TIMEOUT": true,
	"MD2THESIS_PANDOC":  true,
	"MD2THESIS_WORKERS": true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed timeouts and worker counts are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("MD2THESIS_CONFIG"),
		Profile:    getenv("MD2THESIS_PROFILE"),
		Pandoc:     getenv("MD2THESIS_PANDOC"),
	}

	if timeout := getenv("MD2THESIS_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if workers := getenv("MD2THESIS_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MD2THESIS_* variables.
// Helps catch typos like MD2THESIS_PROFIL.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	var unknown []string
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig applies environment values the config file left unset.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Pandoc != "" && cfg.Pandoc.Binary == "" {
		cfg.Pandoc.Binary = env.Pandoc
	}
	if env.Timeout > 0 && cfg.Pandoc.Timeout == "" {
		cfg.Pandoc.Timeout = env.Timeout.String()
	}
}
