package frontmatter

import (
	"fmt"
	"strings"

	"github.com/flowline/examplectl/pkg/logger"
)

var yamlErrorLog = logger.New("frontmatter:yaml_error")

// ExtractYAMLError extracts line and column information from YAML parsing errors.
// headerLineOffset is the 1-based line in the source file where the YAML
// content begins, so reported positions land on the original file rather
// than the header block in isolation.
func ExtractYAMLError(err error, headerLineOffset int) (line int, column int, message string) {
	errStr := err.Error()

	// goccy/go-yaml reports positions as "[line:column] message"
	line, column, message = extractFromGoccyFormat(errStr, headerLineOffset)
	if line > 0 || column > 0 {
		yamlErrorLog.Printf("Extracted error location: line=%d, column=%d", line, column)
		return line, column, message
	}

	// Fallback for "yaml: line X: message" style errors from other libraries
	return extractFromLinePrefix(errStr, headerLineOffset)
}

func extractFromGoccyFormat(errStr string, headerLineOffset int) (line int, column int, message string) {
	start := strings.Index(errStr, "[")
	end := strings.Index(errStr, "]")
	if start < 0 || end <= start {
		return 0, 0, ""
	}

	locationPart := errStr[start+1 : end]
	messagePart := strings.TrimSpace(errStr[end+1:])

	parts := strings.Split(locationPart, ":")
	if len(parts) != 2 {
		return 0, 0, ""
	}
	if _, err := fmt.Sscanf(strings.TrimSpace(parts[0]), "%d", &line); err != nil {
		return 0, 0, ""
	}
	if _, err := fmt.Sscanf(strings.TrimSpace(parts[1]), "%d", &column); err != nil {
		return 0, 0, ""
	}

	// YAML error lines are 1-based relative to the YAML content
	if line > 0 {
		line += headerLineOffset - 1
	}
	return line, column, messagePart
}

func extractFromLinePrefix(errStr string, headerLineOffset int) (line int, column int, message string) {
	const prefix = "yaml: line "
	idx := strings.Index(errStr, prefix)
	if idx < 0 {
		return 0, 0, errStr
	}

	lineInfo := errStr[idx+len(prefix):]
	colonIndex := strings.Index(lineInfo, ":")
	if colonIndex <= 0 {
		return 0, 0, errStr
	}

	if _, err := fmt.Sscanf(lineInfo[:colonIndex], "%d", &line); err != nil {
		return 0, 0, errStr
	}
	message = strings.TrimSpace(lineInfo[colonIndex+1:])
	line += headerLineOffset - 1
	return line, 0, message
}
