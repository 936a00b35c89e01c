package dashboard

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PageValidator validates page config documents beyond their structural
// Validate method, for tooling that wants schema-grade errors.
type PageValidator interface {
	ValidatePageConfig(doc *PageConfigDocument) error
}

// pageConfigSchema is the canonical JSON schema for page configs. check-config
// and Bootstrap run documents through it so config mistakes fail with a
// pointer to the offending field rather than a decode panic downstream.
const pageConfigSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "version": {"type": "string"},
    "page": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "title": {"type": "string"},
        "lang": {"type": "string"}
      }
    },
    "elements": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "trend_chart": {"type": "string"},
        "top_chart": {"type": "string"},
        "table": {"type": "string"},
        "summary": {"type": "string"},
        "date_from": {"type": "string"},
        "date_to": {"type": "string"},
        "code": {"type": "string"},
        "load": {"type": "string"},
        "reset": {"type": "string"}
      }
    },
    "stats": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["key"],
        "properties": {
          "key": {
            "type": "string",
            "enum": [
              "total_amount",
              "total_volume",
              "unique_codes",
              "unique_plans",
              "avg_daily_amount",
              "latest_date",
              "summary_text"
            ]
          },
          "label": {"type": "string"},
          "element": {"type": "string"}
        }
      }
    },
    "quick_ranges": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["days"],
        "properties": {
          "label": {"type": "string"},
          "days": {"type": "integer", "minimum": 1}
        }
      }
    },
    "defaults": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "range_days": {"type": "integer", "minimum": 1},
        "limit": {"type": "integer", "minimum": 1, "maximum": 5000}
      }
    },
    "assets": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "poll_ms": {"type": "integer", "minimum": 0},
        "charts_budget_ms": {"type": "integer", "minimum": 0},
        "table_budget_ms": {"type": "integer", "minimum": 0}
      }
    },
    "theme": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "name": {"type": "string"},
        "tokens": {
          "type": "object",
          "additionalProperties": {"type": "string"}
        }
      }
    }
  }
}`

// SchemaValidator validates page configs against the canonical schema. The
// schema compiles once and is reused.
type SchemaValidator struct {
	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// NewSchemaValidator builds a validator backed by jsonschema v5.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{}
}

// ValidatePageConfig ensures the document satisfies the page config schema.
func (v *SchemaValidator) ValidatePageConfig(doc *PageConfigDocument) error {
	if doc == nil {
		return fmt.Errorf("dashboard: page config document is nil")
	}
	schema, err := v.schema()
	if err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("dashboard: marshal page config: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("dashboard: normalize page config: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("dashboard: page config failed validation: %w", err)
	}
	return nil
}

func (v *SchemaValidator) schema() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		name := "page_config.json"
		if err := compiler.AddResource(name, strings.NewReader(pageConfigSchema)); err != nil {
			v.err = fmt.Errorf("dashboard: load page config schema: %w", err)
			return
		}
		compiled, err := compiler.Compile(name)
		if err != nil {
			v.err = fmt.Errorf("dashboard: compile page config schema: %w", err)
			return
		}
		v.compiled = compiled
	})
	return v.compiled, v.err
}

type noopPageValidator struct{}

func (noopPageValidator) ValidatePageConfig(*PageConfigDocument) error { return nil }
