package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	md2thesis "github.com/alnah/go-md2thesis"
	"github.com/alnah/go-md2thesis/internal/config"
)

// Sentinel errors for the convert command.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// Converter is the part of md2thesis.Converter the batch needs.
type Converter interface {
	Convert(ctx context.Context, in md2thesis.Input) (*md2thesis.Result, error)
}

// Compile-time interface implementation check.
var _ Converter = (*md2thesis.Converter)(nil)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath string
	Result    *md2thesis.Result
	Err       error
	Duration  time.Duration
}

// batchError reports failed conversions and unwraps to the first failure,
// so the exit code reflects its cause.
type batchError struct {
	failed, total int
	first         error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d conversion(s) failed", e.failed, e.total)
}

func (e *batchError) Unwrap() error { return e.first }

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig(env.Getenv)
	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common, envCfg)
	if err != nil {
		return err
	}
	mergeFlags(flags, cfg)

	files, err := discoverFiles(positional, flags.output)
	if err != nil {
		return err
	}

	var opts []md2thesis.Option
	if flags.noVerify {
		opts = append(opts, md2thesis.WithoutVerify())
	}
	conv, err := newConverter(cfg, flags.common, env, opts...)
	if err != nil {
		return err
	}

	for i := range files {
		files[i].Title = flags.title
		files[i].KeepPandocOutput = flags.keepPandocOutput
	}
	if err := planOutputs(ctx, conv, files); err != nil {
		return err
	}
	poolSize := md2thesis.ResolvePoolSize(workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "profile %s, %d file(s), %d worker(s)\n", cfg.Profile, len(files), min(poolSize, len(files)))
	}

	results := convertBatch(ctx, conv, files, poolSize)
	return printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
}

// outputResolver names the file a conversion will write.
type outputResolver interface {
	ResolveOutput(ctx context.Context, in md2thesis.Input) (string, error)
}

// planOutputs fixes the output path of every readable input and rejects
// batches in which two inputs would write the same file.
func planOutputs(ctx context.Context, r outputResolver, files []md2thesis.Input) error {
	seen := make(map[string]string, len(files))
	for i := range files {
		out, err := r.ResolveOutput(ctx, files[i])
		if err != nil {
			// Convert reports it for this input alone.
			continue
		}
		key := filepath.Clean(out)
		if abs, err := filepath.Abs(key); err == nil {
			key = abs
		}
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s and %s both write %s; set distinct titles or an output pattern with {stem}",
				ErrUsage, prev, files[i].Path, out)
		}
		seen[key] = files[i].Path
		files[i].Output = out
		files[i].OutputDir = ""
	}
	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.title != "" {
		cfg.Title = flags.title
	}
	mergePandocFlags(flags.pandoc, cfg)
}

// mergePandocFlags applies pandoc overrides.
func mergePandocFlags(f pandocFlags, cfg *config.Config) {
	if len(f.bibliography) > 0 {
		cfg.Pandoc.Bibliography = f.bibliography
	}
	if f.csl != "" {
		cfg.Pandoc.CSL = f.csl
	}
	if f.referenceDoc != "" {
		cfg.Pandoc.ReferenceDoc = f.referenceDoc
	}
	if f.timeout != "" {
		cfg.Pandoc.Timeout = f.timeout
	}
}

// convertBatch processes files concurrently with a shared converter.
func convertBatch(ctx context.Context, conv Converter, files []md2thesis.Input, workers int) []ConversionResult {
	if len(files) == 0 {
		return nil
	}
	concurrency := min(max(workers, 1), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{InputPath: files[idx].Path, Err: ctx.Err()}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv Converter, in md2thesis.Input) ConversionResult {
	start := time.Now()
	res, err := conv.Convert(ctx, in)
	return ConversionResult{
		InputPath: in.Path,
		Result:    res,
		Err:       err,
		Duration:  time.Since(start),
	}
}

// printResultsWithWriter outputs conversion results and returns a
// batchError when any conversion failed.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) error {
	var failed int
	var first error

	for _, r := range results {
		if r.Err != nil {
			failed++
			if first == nil {
				first = r.Err
			}
			if len(results) > 1 {
				fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			}
			continue
		}

		if !quiet {
			if verbose {
				fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.Result.Output, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(env.Stdout, "Created %s\n", r.Result.Output)
			}
		}
		printReport(env, r.Result, quiet, verbose)
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}

	switch {
	case failed == 0:
		return nil
	case len(results) == 1:
		return first
	default:
		return &batchError{failed: failed, total: len(results), first: first}
	}
}
