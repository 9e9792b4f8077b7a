// Package frontmatter extracts and validates the YAML header block carried
// at the top of example source files.
//
// A header block is opened by a line containing exactly "---" at the very
// start of the file and closed by the next such line. The enclosed YAML
// carries display and execution metadata (title, tags, run command, env,
// deploy and test flags). Files without an opening delimiter are valid and
// yield all defaults with the body equal to the input.
package frontmatter

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/flowline/examplectl/pkg/logger"
)

var log = logger.New("frontmatter:extract")

// Delimiter is the header block boundary line.
const Delimiter = "---"

// Metadata is the typed view of a header block. Zero values are the
// documented defaults; Pytest defaults to true.
type Metadata struct {
	Title       string            `yaml:"title,omitempty" json:"title,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Tags        []string          `yaml:"tags,omitempty" json:"tags,omitempty"`
	Deploy      bool              `yaml:"deploy,omitempty" json:"deploy"`
	Pytest      bool              `yaml:"pytest" json:"pytest"`
	Cmd         []string          `yaml:"cmd,omitempty" json:"cmd,omitempty"`
	Args        []string          `yaml:"args,omitempty" json:"args,omitempty"`
	Deps        []string          `yaml:"deps,omitempty" json:"deps,omitempty"`
	Env         map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// Result is the outcome of extracting a header block from file content.
type Result struct {
	// Metadata holds the typed header fields, defaults applied. Never nil.
	Metadata *Metadata
	// Raw is the full decoded header mapping including unknown keys,
	// or nil when the file has no header block.
	Raw map[string]any
	// Body is the file content with the header block stripped. For files
	// without a header it is byte-identical to the input.
	Body []byte
	// HasHeader reports whether an opening delimiter was found.
	HasHeader bool
	// BodyLine is the 1-based line in the original file where Body begins.
	BodyLine int
}

// ParseError describes a malformed header block.
type ParseError struct {
	File    string
	Line    int // 1-based position in the original file, 0 when unknown
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		if e.Line > 0 {
			return fmt.Sprintf("frontmatter: line %d: %s", e.Line, e.Message)
		}
		return fmt.Sprintf("frontmatter: %s", e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// Defaults returns the metadata applied to files without a header block.
func Defaults() *Metadata {
	return &Metadata{Pytest: true}
}

// Extract parses the leading header block, if any, out of content.
// A *ParseError is returned for an unclosed delimiter, invalid YAML, or a
// header that fails field validation; the caller owns attaching a file path.
func Extract(content []byte) (*Result, error) {
	text := string(content)
	lines := strings.Split(text, "\n")

	if len(lines) == 0 || !isDelimiter(lines[0]) {
		log.Print("No opening delimiter, using defaults")
		return &Result{
			Metadata:  Defaults(),
			Body:      content,
			HasHeader: false,
			BodyLine:  1,
		}, nil
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			closing = i
			break
		}
	}
	if closing < 0 {
		return nil, &ParseError{Line: 1, Column: 1, Message: "unclosed frontmatter block: missing closing delimiter"}
	}

	yamlText := strings.Join(lines[1:closing], "\n")
	bodyLine := closing + 2 // 1-based line after the closing delimiter
	body := strings.Join(lines[closing+1:], "\n")

	raw := map[string]any{}
	if strings.TrimSpace(yamlText) != "" {
		if err := yaml.Unmarshal([]byte(yamlText), &raw); err != nil {
			line, column, message := ExtractYAMLError(err, 2)
			if line == 0 {
				line, column = 2, 1
			}
			return nil, &ParseError{Line: line, Column: column, Message: message}
		}
	}

	if err := validate(raw); err != nil {
		return nil, &ParseError{Line: 2, Column: 1, Message: err.Error()}
	}

	meta := Defaults()
	if strings.TrimSpace(yamlText) != "" {
		// The schema has already pinned field types, so a decode failure
		// here would be a bug rather than bad input.
		if err := yaml.Unmarshal([]byte(yamlText), meta); err != nil {
			return nil, &ParseError{Line: 2, Column: 1, Message: err.Error()}
		}
	}

	log.Printf("Extracted header with %d keys, body starts at line %d", len(raw), bodyLine)
	return &Result{
		Metadata:  meta,
		Raw:       raw,
		Body:      []byte(body),
		HasHeader: true,
		BodyLine:  bodyLine,
	}, nil
}

// ExtractFile reads path and extracts its header block, attaching the path
// to any parse error.
func ExtractFile(path string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res, err := Extract(content)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.File = path
		}
		return nil, err
	}
	return res, nil
}

// Encode renders metadata back to header-block YAML. Encoding and
// re-extracting yields an equivalent mapping.
func (m *Metadata) Encode() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	var sb strings.Builder
	sb.WriteString(Delimiter + "\n")
	sb.Write(data)
	sb.WriteString(Delimiter + "\n")
	return []byte(sb.String()), nil
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\r") == Delimiter
}
