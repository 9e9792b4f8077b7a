//go:build !integration

package frontmatter

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/flowline/examplectl/pkg/testutil"
)

func TestExtractNoHeader(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "plain code",
			content: "import flowline\n\nprint(\"hello\")\n",
		},
		{
			name:    "empty file",
			content: "",
		},
		{
			name:    "delimiter not at start",
			content: "# comment\n---\ndeploy: true\n---\n",
		},
		{
			name:    "dashes inside code",
			content: "x = 1\n# --- section ---\ny = 2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Extract([]byte(tt.content))
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if res.HasHeader {
				t.Error("HasHeader = true, want false")
			}
			if string(res.Body) != tt.content {
				t.Errorf("Body = %q, want input unchanged %q", res.Body, tt.content)
			}
			if res.Metadata == nil {
				t.Fatal("Metadata is nil, want defaults")
			}
			if !res.Metadata.Pytest {
				t.Error("default Pytest = false, want true")
			}
			if res.Metadata.Deploy {
				t.Error("default Deploy = true, want false")
			}
		})
	}
}

func TestExtractHeader(t *testing.T) {
	content := "---\ndeploy: true\npytest: false\n---\nprint(\"hi\")"

	res, err := Extract([]byte(content))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if !res.HasHeader {
		t.Error("HasHeader = false, want true")
	}
	if !res.Metadata.Deploy {
		t.Error("Deploy = false, want true")
	}
	if res.Metadata.Pytest {
		t.Error("Pytest = true, want false")
	}
	if string(res.Body) != `print("hi")` {
		t.Errorf("Body = %q, want %q", res.Body, `print("hi")`)
	}
	if res.BodyLine != 5 {
		t.Errorf("BodyLine = %d, want 5", res.BodyLine)
	}
}

func TestExtractFullHeader(t *testing.T) {
	content := `---
title: Hello World
description: The smallest possible flow.
tags:
  - getting-started
  - basics
cmd: ["flowline", "deploy", "hello.py:main"]
args: ["--pool", "default"]
deps: ["pandas"]
env:
  FLOWLINE_API_URL: http://localhost:4200
---
print("hi")
`

	res, err := Extract([]byte(content))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	m := res.Metadata
	if m.Title != "Hello World" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.Description != "The smallest possible flow." {
		t.Errorf("Description = %q", m.Description)
	}
	if !reflect.DeepEqual(m.Tags, []string{"getting-started", "basics"}) {
		t.Errorf("Tags = %v", m.Tags)
	}
	if !reflect.DeepEqual(m.Cmd, []string{"flowline", "deploy", "hello.py:main"}) {
		t.Errorf("Cmd = %v", m.Cmd)
	}
	if !reflect.DeepEqual(m.Args, []string{"--pool", "default"}) {
		t.Errorf("Args = %v", m.Args)
	}
	if !reflect.DeepEqual(m.Deps, []string{"pandas"}) {
		t.Errorf("Deps = %v", m.Deps)
	}
	if m.Env["FLOWLINE_API_URL"] != "http://localhost:4200" {
		t.Errorf("Env = %v", m.Env)
	}
	// pytest not declared, default applies
	if !m.Pytest {
		t.Error("Pytest = false, want default true")
	}
	// unknown keys are not present but raw mapping carries all declared keys
	if _, ok := res.Raw["title"]; !ok {
		t.Error("Raw missing declared key 'title'")
	}
}

func TestExtractUnknownKeysPreserved(t *testing.T) {
	content := "---\ntitle: X\nowner: data-team\n---\n"

	res, err := Extract([]byte(content))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Raw["owner"] != "data-team" {
		t.Errorf("Raw[owner] = %v, want data-team", res.Raw["owner"])
	}
}

func TestExtractEmptyHeader(t *testing.T) {
	content := "---\n---\nbody\n"

	res, err := Extract([]byte(content))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !res.HasHeader {
		t.Error("HasHeader = false, want true")
	}
	if !res.Metadata.Pytest {
		t.Error("empty header should keep default Pytest = true")
	}
	if string(res.Body) != "body\n" {
		t.Errorf("Body = %q", res.Body)
	}
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string // substring of the parse error
	}{
		{
			name:    "unclosed block",
			content: "---\ndeploy: true\n",
			wantMsg: "unclosed frontmatter",
		},
		{
			name:    "invalid yaml",
			content: "---\ndeploy: [unclosed\n---\n",
			wantMsg: "",
		},
		{
			name:    "deploy must be boolean",
			content: "---\ndeploy: sometimes\n---\n",
			wantMsg: "invalid metadata",
		},
		{
			name:    "cmd must be a list",
			content: "---\ncmd: flowline run\n---\n",
			wantMsg: "invalid metadata",
		},
		{
			name:    "env values must be strings",
			content: "---\nenv:\n  RETRIES: 3\n---\n",
			wantMsg: "invalid metadata",
		},
		{
			name:    "tags must be strings",
			content: "---\ntags: [1, 2]\n---\n",
			wantMsg: "invalid metadata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract([]byte(tt.content))
			if err == nil {
				t.Fatal("Extract() error = nil, want ParseError")
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error type = %T, want *ParseError", err)
			}
			if perr.Line == 0 {
				t.Error("ParseError.Line = 0, want a position")
			}
			if tt.wantMsg != "" && !strings.Contains(perr.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want substring %q", perr.Message, tt.wantMsg)
			}
		})
	}
}

func TestExtractFileAttachesPath(t *testing.T) {
	dir := testutil.TempDir(t, "frontmatter-*")
	path := testutil.WriteFile(t, dir, "bad.py", "---\ndeploy: [oops\n---\n")

	_, err := ExtractFile(path)
	if err == nil {
		t.Fatal("ExtractFile() error = nil, want ParseError")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if perr.File != path {
		t.Errorf("ParseError.File = %q, want %q", perr.File, path)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("Error() = %q, should name the file", err.Error())
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	original := &Metadata{
		Title:       "Round Trip",
		Description: "encode then parse",
		Tags:        []string{"a", "b"},
		Deploy:      true,
		Pytest:      false,
		Cmd:         []string{"flowline", "run", "x.py"},
		Args:        []string{"--fast"},
		Env:         map[string]string{"K": "v"},
	}

	encoded, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	res, err := Extract(append(encoded, []byte("body\n")...))
	if err != nil {
		t.Fatalf("Extract() error = %v\nencoded:\n%s", err, encoded)
	}
	if !reflect.DeepEqual(res.Metadata, original) {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", res.Metadata, original)
	}
	if string(res.Body) != "body\n" {
		t.Errorf("Body = %q", res.Body)
	}
}
