package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2thesis "github.com/alnah/go-md2thesis"
)

// discoverFiles expands the positional arguments into Markdown inputs.
// Directories are walked recursively. output is either a .docx file (one
// input only) or a directory mirroring the input tree.
func discoverFiles(args []string, output string) ([]md2thesis.Input, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: usage: md2thesis convert <file.md|dir>...", ErrNoInput)
	}

	var files []md2thesis.Input
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if err := validateMarkdownExtension(arg); err != nil {
				return nil, err
			}
			files = append(files, md2thesis.Input{Path: arg, OutputDir: output})
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || !looksLikeMarkdown(path) {
				return nil
			}
			files = append(files, md2thesis.Input{Path: path, OutputDir: resolveOutputDir(path, output, arg)})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, strings.Join(args, ", "))
	}

	if strings.EqualFold(filepath.Ext(output), ".docx") {
		if len(files) > 1 {
			return nil, fmt.Errorf("%w: --output %s names a file but %d inputs were given", ErrUsage, output, len(files))
		}
		files[0].Output = output
		files[0].OutputDir = ""
	}
	return files, nil
}

// resolveOutputDir mirrors the location of inputPath below baseInputDir
// into outputDir. An empty outputDir keeps outputs beside their inputs.
func resolveOutputDir(inputPath, outputDir, baseInputDir string) string {
	if outputDir == "" {
		return ""
	}
	relPath, err := filepath.Rel(baseInputDir, inputPath)
	if err != nil {
		return outputDir
	}
	return filepath.Join(outputDir, filepath.Dir(relPath))
}

// looksLikeMarkdown reports whether path has a Markdown extension.
func looksLikeMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !looksLikeMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > md2thesis.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, md2thesis.MaxPoolSize)
	}
	return nil
}
