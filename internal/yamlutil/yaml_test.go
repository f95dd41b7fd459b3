package yamlutil_test

// Notes:
// - Marshal error branch: not tested because yaml.Marshal only fails with
//   unmarshalable types (channels, functions) which are not realistic here.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-md2thesis/internal/yamlutil"
)

type testMeta struct {
	Title  string   `yaml:"title"`
	Author string   `yaml:"author"`
	Tags   []string `yaml:"tags"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Lenient decoding and defaults layering
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "valid YAML",
			data: []byte("title: 基于深度学习的研究\nauthor: 张三"),
			dest: &testMeta{},
			check: func(t *testing.T, v any) {
				m := v.(*testMeta)
				if m.Title != "基于深度学习的研究" || m.Author != "张三" {
					t.Errorf("got %+v", m)
				}
			},
		},
		{
			name: "unknown fields ignored",
			data: []byte("title: x\nbibliography: refs.bib"),
			dest: &testMeta{},
			check: func(t *testing.T, v any) {
				if v.(*testMeta).Title != "x" {
					t.Errorf("Title = %q", v.(*testMeta).Title)
				}
			},
		},
		{
			name: "prefilled fields survive",
			data: []byte("title: override"),
			dest: &testMeta{Author: "default"},
			check: func(t *testing.T, v any) {
				m := v.(*testMeta)
				if m.Title != "override" || m.Author != "default" {
					t.Errorf("got %+v, want title override and author default", m)
				}
			},
		},
		{name: "nil data", data: nil, dest: &testMeta{}, wantErr: yamlutil.ErrNilData},
		{name: "nil destination", data: []byte("title: x"), dest: nil, wantErr: yamlutil.ErrNilDestination},
		{name: "invalid syntax", data: []byte("title: [unclosed"), dest: &testMeta{}, wantErr: errors.New("yamlutil:")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !errors.Is(err, tt.wantErr) && !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Fatalf("error = %q, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, tt.dest)
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Rejects unknown fields
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	var m testMeta
	if err := yamlutil.UnmarshalStrict([]byte("title: ok\ntags: [a, b]"), &m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Tags) != 2 {
		t.Errorf("Tags = %v, want 2 entries", m.Tags)
	}

	err := yamlutil.UnmarshalStrict([]byte("title: ok\ntitel: typo"), &testMeta{})
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "titel") {
		t.Errorf("error = %q, want mention of unknown field", err)
	}
}

// ---------------------------------------------------------------------------
// TestMarshal - Serializes Go structs to YAML
// ---------------------------------------------------------------------------

func TestMarshal(t *testing.T) {
	t.Parallel()

	data, err := yamlutil.Marshal(&testMeta{Title: "论文", Tags: []string{"a"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "title: 论文") {
		t.Errorf("output missing title, got: %s", s)
	}
	if !strings.Contains(s, "- a") {
		t.Errorf("output missing tags, got: %s", s)
	}
}

// ---------------------------------------------------------------------------
// TestSplitFrontMatter - Markdown metadata blocks
// ---------------------------------------------------------------------------

func TestSplitFrontMatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		wantOK   bool
		wantMeta string
		wantBody string
	}{
		{
			name:     "dash fences",
			src:      "---\ntitle: A\n---\n# Intro\n",
			wantOK:   true,
			wantMeta: "title: A\n",
			wantBody: "# Intro\n",
		},
		{
			name:     "dot closing fence",
			src:      "---\ntitle: A\n...\nbody",
			wantOK:   true,
			wantMeta: "title: A\n",
			wantBody: "body",
		},
		{
			name:     "CRLF line endings",
			src:      "---\r\ntitle: A\r\n---\r\nbody",
			wantOK:   true,
			wantMeta: "title: A\r\n",
			wantBody: "body",
		},
		{
			name:     "byte order mark",
			src:      "\xef\xbb\xbf---\ntitle: A\n---\n",
			wantOK:   true,
			wantMeta: "title: A\n",
			wantBody: "",
		},
		{
			name:     "no front matter",
			src:      "# Title\n\ntext",
			wantBody: "# Title\n\ntext",
		},
		{
			name:     "unterminated block",
			src:      "---\ntitle: A\n",
			wantBody: "---\ntitle: A\n",
		},
		{
			name:     "fence must be alone on its line",
			src:      "--- title\n---\n",
			wantBody: "--- title\n---\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			meta, body, ok := yamlutil.SplitFrontMatter([]byte(tt.src))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if string(meta) != tt.wantMeta {
				t.Errorf("meta = %q, want %q", meta, tt.wantMeta)
			}
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestUnmarshalFrontMatter(t *testing.T) {
	t.Parallel()

	t.Run("decodes metadata", func(t *testing.T) {
		t.Parallel()

		var m testMeta
		body, err := yamlutil.UnmarshalFrontMatter([]byte("---\ntitle: 论文\n---\ntext"), &m)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.Title != "论文" {
			t.Errorf("Title = %q", m.Title)
		}
		if string(body) != "text" {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("empty block", func(t *testing.T) {
		t.Parallel()

		m := testMeta{Title: "keep"}
		if _, err := yamlutil.UnmarshalFrontMatter([]byte("---\n---\ntext"), &m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.Title != "keep" {
			t.Errorf("Title = %q, want unchanged", m.Title)
		}
	})

	t.Run("malformed metadata", func(t *testing.T) {
		t.Parallel()

		_, err := yamlutil.UnmarshalFrontMatter([]byte("---\ntitle: [x\n---\n"), &testMeta{})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - Verifies MaxInputSize enforcement
// ---------------------------------------------------------------------------

// Note: This test modifies the global MaxInputSize variable, so it cannot
// run in parallel with other tests to avoid data races.

func TestInputSizeLimit(t *testing.T) {
	originalMax := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = originalMax })

	yamlutil.MaxInputSize = 50
	data := make([]byte, 100)
	copy(data, "title: x")

	err := yamlutil.UnmarshalStrict(data, &testMeta{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Fatalf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
	}
	if !strings.Contains(err.Error(), "100 bytes") || !strings.Contains(err.Error(), "max 50") {
		t.Errorf("error should contain sizes, got: %s", err)
	}
}
