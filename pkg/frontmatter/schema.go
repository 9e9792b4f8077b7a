package frontmatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// metadataSchema pins the types of the known header fields. Unknown keys are
// allowed and preserved in Result.Raw.
const metadataSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "description": {"type": "string"},
    "tags": {"type": "array", "items": {"type": "string"}},
    "deploy": {"type": "boolean"},
    "pytest": {"type": "boolean"},
    "cmd": {"type": "array", "items": {"type": "string"}, "minItems": 1},
    "args": {"type": "array", "items": {"type": "string"}},
    "deps": {"type": "array", "items": {"type": "string"}},
    "env": {"type": "object", "additionalProperties": {"type": "string"}}
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(metadataSchema))
		if err != nil {
			schemaErr = fmt.Errorf("failed to load metadata schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("metadata.json", doc); err != nil {
			schemaErr = fmt.Errorf("failed to register metadata schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("metadata.json")
	})
	return schema, schemaErr
}

// validate checks the decoded header mapping against the metadata schema.
func validate(raw map[string]any) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}

	// Round-trip through JSON so YAML-decoded values carry the types the
	// schema validator expects.
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("invalid metadata values: %w", err)
	}
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid metadata values: %w", err)
	}

	if err := sch.Validate(value); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			// Report the first concrete leaf rather than the whole tree.
			leaf := verr
			for len(leaf.Causes) > 0 {
				leaf = leaf.Causes[0]
			}
			return fmt.Errorf("invalid metadata: %s", leaf.Error())
		}
		return fmt.Errorf("invalid metadata: %w", err)
	}
	return nil
}
