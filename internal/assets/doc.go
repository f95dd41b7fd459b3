// Package assets provides the formatting profiles bundled with md2thesis.
//
// A profile is a partial configuration document: the pass list and pass
// parameters for one kind of document, plus pandoc and output defaults.
// The config package decodes it under the user's own settings.
//
//	ProfileLoader (interface)
//	    ├── EmbeddedLoader  thesis, proposal, generic
//	    ├── DirLoader       {name}.yaml files in profileDir
//	    └── Resolver        DirLoader first, then EmbeddedLoader
//
// Profile names are bare file stems; DirLoader reads through os.Root so a
// profile directory cannot be escaped with symlinks.
package assets
