package main

import (
	"io"
	"os"
	"time"

	md2thesis "github.com/alnah/go-md2thesis"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the process environment and the pandoc runner.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string
	Runner  md2thesis.CommandRunner
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		Runner:  &md2thesis.ExecRunner{},
	}
}
