// Package md2thesis compiles Markdown to Word through pandoc and applies
// thesis formatting conventions to the generated .docx.
//
// # Quick Start
//
// Resolve a profile, create a converter and convert a file:
//
//	cfg, err := md2thesis.DefaultConfig("thesis")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	conv, err := md2thesis.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, md2thesis.Input{Path: "thesis.md"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("wrote", result.Output)
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Markdown metadata (title, citation keys) via Goldmark
//  2. Optional reference document preparation (marker styles)
//  3. pandoc with the configured filters, reference document and citeproc
//  4. Formatting passes over the OOXML tree, in profile order
//  5. Atomic save and verification with an independent .docx reader
//
// # Profiles
//
// A profile is a YAML document naming the passes to run and their
// parameters. Three are embedded: thesis, proposal and generic. A config
// file selects one with "profile:" and overrides any of its fields:
//
//	profile: thesis
//	title: 面向优秀论文标准的研究
//	pandoc:
//	  referenceDoc: template.docx
//	  bibliography: [refs.bib]
//	format:
//	  headers:
//	    footerAlign: right
//
// Load it with LoadConfig. Custom profiles live in the directory named by
// profileDir and shadow embedded ones of the same name.
//
// # Formatting existing documents
//
// Converter.Format runs the passes on a .docx without invoking pandoc,
// and Converter.PrepareReference adds the marker styles the passes rely on
// to a reference document.
//
// # Error Handling
//
// The package exports sentinel errors for classification with errors.Is:
//
//	if errors.Is(err, md2thesis.ErrPandocNotFound) {
//	    // install pandoc
//	}
//	if errors.Is(err, md2thesis.ErrSectionCount) {
//	    // the source has the wrong number of section breaks
//	}
//
// # Parallel Processing
//
// A Converter holds no per-document state, so one instance may serve
// several goroutines. ResolvePoolSize picks a worker count from
// GOMAXPROCS.
package md2thesis
