package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	md2thesis "github.com/alnah/go-md2thesis"
)

// runFormat applies the profile's passes to an existing .docx.
func runFormat(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseFormatFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: usage: md2thesis format <in.docx> [-o out.docx]", ErrUsage)
	}
	in := positional[0]
	if !strings.EqualFold(filepath.Ext(in), ".docx") {
		return fmt.Errorf("%w: %s is not a .docx file", ErrUsage, in)
	}

	cfg, err := loadConfig(flags.common, loadEnvConfig(env.Getenv))
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

	res, err := conv.Format(ctx, md2thesis.Input{Path: in, Output: flags.output, Title: flags.title})
	if err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", res.Output)
	}
	printReport(env, res, flags.common.quiet, flags.common.verbose)
	return nil
}

// runPrepareRef adds the profile's marker styles to a reference document.
func runPrepareRef(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePrepareRefFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: usage: md2thesis prepare-ref [reference.docx] [-o out.docx]", ErrUsage)
	}

	cfg, err := loadConfig(flags.common, loadEnvConfig(env.Getenv))
	if err != nil {
		return err
	}
	conv, err := newConverter(cfg, flags.common, env)
	if err != nil {
		return err
	}

	var in string
	if len(positional) == 1 {
		in = positional[0]
	}
	out := flags.output
	if out == "" && in == "" {
		out = "reference.docx"
	}
	created, err := conv.PrepareReference(ctx, in, out)
	if err != nil {
		return err
	}
	if out == "" {
		out = in
	}

	if flags.common.quiet {
		return nil
	}
	if len(created) == 0 {
		fmt.Fprintf(env.Stdout, "%s already defines every marker style\n", out)
		return nil
	}
	fmt.Fprintf(env.Stdout, "Updated %s: added %s\n", out, strings.Join(created, ", "))
	return nil
}
