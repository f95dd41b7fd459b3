package md2thesis_test

import (
	"fmt"

	md2thesis "github.com/alnah/go-md2thesis"
)

// ExampleOutputPath shows how output patterns expand.
func ExampleOutputPath() {
	fmt.Println(md2thesis.OutputPath("{title}-generated", "面向优秀论文标准的研究", "20260601", "docs/thesis.md"))
	fmt.Println(md2thesis.OutputPath("{stem}-{date}.docx", "", "20260601", "docs/thesis.md"))
	// Output:
	// docs/面向优秀论文标准的研究-generated.docx
	// docs/thesis-20260601.docx
}

// ExampleDefaultConfig lists the passes of the bundled thesis profile.
func ExampleDefaultConfig() {
	cfg, err := md2thesis.DefaultConfig("thesis")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(cfg.Profile, len(cfg.Format.Passes), cfg.Pandoc.PrepareReference)
	// Output: thesis 12 true
}

// ExampleProfileNames lists the bundled profiles.
func ExampleProfileNames() {
	fmt.Println(md2thesis.ProfileNames())
	// Output: [generic proposal thesis]
}
