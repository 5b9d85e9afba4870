package config

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// configSchema constrains the shape of a loaded config file. Unknown keys are
// rejected so typos surface at load time instead of silently using defaults.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "analysis": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "max_file_size": {"type": "integer", "minimum": 0},
        "workers": {"type": "integer", "minimum": 0},
        "metrics": {"type": "boolean"}
      }
    },
    "deadcode": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "entry_patterns": {"type": "array", "items": {"type": "string"}},
        "plugin_patterns": {"type": "array", "items": {"type": "string"}},
        "skipped_dirs": {"type": "array", "items": {"type": "string"}},
        "min_confidence": {"type": "string", "enum": ["low", "medium", "high"]}
      }
    },
    "exclude": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "patterns": {"type": "array", "items": {"type": "string"}},
        "dirs": {"type": "array", "items": {"type": "string"}},
        "gitignore": {"type": "boolean"}
      }
    },
    "output": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "format": {"type": "string", "enum": ["text", "json", "markdown", "toon", "yaml"]},
        "color": {"type": "boolean"}
      }
    }
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(configSchema))
	if err != nil {
		panic(err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("vestige-config.json", doc); err != nil {
		panic(err)
	}
	s, err := c.Compile("vestige-config.json")
	if err != nil {
		panic(err)
	}
	return s
}

// ValidateRaw checks a decoded config map against the schema.
func ValidateRaw(raw map[string]any) error {
	return compiledSchema.Validate(normalize(raw))
}

// normalize rewrites decoder-specific numeric types (int64 from the TOML
// decoder, int from defaults) into the json-style float64 the schema
// validator compares against. Whole-valued floats still satisfy the
// schema's integer constraints.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}
