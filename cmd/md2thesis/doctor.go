package main

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	md2thesis "github.com/alnah/go-md2thesis"
	"github.com/alnah/go-md2thesis/internal/config"
)

// doctorTimeout bounds each --version probe.
const doctorTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Pandoc   toolInfo    `json:"pandoc"`
	Filters  []toolInfo  `json:"filters,omitempty"`
	Profile  profileInfo `json:"profile"`
	Files    []fileInfo  `json:"files,omitempty"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// toolInfo holds the detection result for one executable.
type toolInfo struct {
	Name    string `json:"name"`
	Found   bool   `json:"found"`
	Version string `json:"version,omitempty"`
}

// profileInfo describes the resolved profile.
type profileInfo struct {
	Name   string   `json:"name"`
	Passes []string `json:"passes"`
}

// fileInfo holds the check result for a configured file.
type fileInfo struct {
	Role   string `json:"role"`
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	var common commonFlags
	var jsonOutput bool
	fs := newFlagSet("doctor", printDoctorUsage, env.Stderr)
	fs.BoolVar(&jsonOutput, "json", false, "print results as JSON")
	addCommonFlags(fs, &common)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}

	result := runDoctor(ctx, common, env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, common commonFlags, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	cfg, err := loadConfig(common, loadEnvConfig(env.Getenv))
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		// Still probe pandoc with the defaults.
		cfg = config.DefaultConfig()
	} else {
		result.Profile = profileInfo{Name: cfg.Profile, Passes: cfg.Format.Passes}
	}

	checkPandoc(ctx, result, cfg, env.Runner)
	checkFiles(result, cfg)
	checkEnvironment(result, env.Getenv)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkPandoc probes pandoc and every configured filter with --version.
func checkPandoc(ctx context.Context, result *doctorResult, cfg *config.Config, runner md2thesis.CommandRunner) {
	bin := cmp.Or(cfg.Pandoc.Binary, md2thesis.DefaultPandocBinary)
	result.Pandoc = probe(ctx, runner, bin)
	if !result.Pandoc.Found {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s not found. Install pandoc or set MD2THESIS_PANDOC", bin))
	}

	for _, f := range cfg.Pandoc.Filters {
		info := probe(ctx, runner, f)
		result.Filters = append(result.Filters, info)
		if !info.Found {
			result.Errors = append(result.Errors,
				fmt.Sprintf("filter %s not found. Install it or remove it from pandoc.filters", f))
		}
	}
}

// probe runs name --version and keeps the first output line.
func probe(ctx context.Context, runner md2thesis.CommandRunner, name string) toolInfo {
	ctx, cancel := context.WithTimeout(ctx, doctorTimeout)
	defer cancel()

	info := toolInfo{Name: name}
	stdout, _, err := runner.Run(ctx, name, "--version")
	if err != nil {
		return info
	}
	info.Found = true
	line, _, _ := strings.Cut(strings.TrimSpace(stdout), "\n")
	info.Version = strings.TrimSpace(line)
	return info
}

// checkFiles verifies that configured input files exist.
func checkFiles(result *doctorResult, cfg *config.Config) {
	check := func(role, path string) {
		if path == "" {
			return
		}
		_, err := os.Stat(path)
		result.Files = append(result.Files, fileInfo{Role: role, Path: path, Exists: err == nil})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s not found: %s", role, path))
		}
	}

	check("reference document", cfg.Pandoc.ReferenceDoc)
	check("citation style", cfg.Pandoc.CSL)
	for _, b := range cfg.Pandoc.Bibliography {
		check("bibliography", b)
	}

	if cfg.Pandoc.ReferenceDoc == "" && !cfg.Pandoc.PrepareReference {
		result.Warnings = append(result.Warnings,
			"No reference document configured; marker styles fall back to Normal. Run md2thesis prepare-ref")
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.Container, result.Env.ContainerHint = isContainer(getenv)

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	// Docker
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for pandoc output is writable.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	f, err := os.CreateTemp(tmpDir, "md2thesis-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2thesis doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Pandoc")
	printTool(w, r.Pandoc)
	for _, f := range r.Filters {
		printTool(w, f)
	}
	fmt.Fprintln(w)

	if r.Profile.Name != "" {
		fmt.Fprintln(w, "Profile")
		fmt.Fprintf(w, "  [OK] %s: %s\n", r.Profile.Name, strings.Join(r.Profile.Passes, ", "))
		fmt.Fprintln(w)
	}

	if len(r.Files) > 0 {
		fmt.Fprintln(w, "Files")
		for _, f := range r.Files {
			if f.Exists {
				fmt.Fprintf(w, "  [OK] %s: %s\n", f.Role, f.Path)
			} else {
				fmt.Fprintf(w, "  [ERROR] %s: %s (missing)\n", f.Role, f.Path)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printTool(w io.Writer, t toolInfo) {
	switch {
	case !t.Found:
		fmt.Fprintf(w, "  [ERROR] %s: not found\n", t.Name)
	case t.Version != "":
		fmt.Fprintf(w, "  [OK] %s\n", t.Version)
	default:
		fmt.Fprintf(w, "  [OK] %s\n", t.Name)
	}
}
