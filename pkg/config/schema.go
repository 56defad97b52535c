package config

import (
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// configSchema constrains the types and ranges of every recognized option.
// Severity thresholds are numeric by contract; nothing in the gate ever
// classifies by string matching.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "shingle_size": {"type": "integer", "minimum": 2},
    "min_tokens_per_region": {"type": "integer", "minimum": 1},
    "jaccard_warn": {"type": "number", "minimum": 0},
    "jaccard_block": {"type": "number", "minimum": 0},
    "same_file_line_gap": {"type": "integer", "minimum": 0},
    "cluster_size_warn": {"type": "integer", "minimum": 1},
    "cluster_size_block": {"type": "integer", "minimum": 1},
    "package_markers": {"type": "array", "items": {"type": "string"}},
    "consider_test_files": {"type": "boolean"},
    "workers": {"type": "integer", "minimum": 1},
    "name_duplication": {
      "type": "object",
      "properties": {
        "type_like_baseline": {"type": "integer", "minimum": 0},
        "function_like_baseline": {"type": "integer", "minimum": 0},
        "interface_like_baseline": {"type": "integer", "minimum": 0}
      }
    },
    "cache": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "path": {"type": "string"},
        "ttl_hours": {"type": "integer", "minimum": 1}
      }
    },
    "exclude": {
      "type": "object",
      "properties": {
        "patterns": {"type": "array", "items": {"type": "string"}},
        "dirs": {"type": "array", "items": {"type": "string"}}
      }
    },
    "waiver_file": {"type": "string"}
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(configSchema))
		if err != nil {
			schemaErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("config.schema.json", doc); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("config.schema.json")
	})
	return schema, schemaErr
}

func validateSchema(r io.Reader) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(r)
	if err != nil {
		return err
	}
	return sch.Validate(inst)
}
