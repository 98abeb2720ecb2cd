package config

//go:generate go run ../tools/schema-generator ../schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	compiler "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaResource = "meetwatch.schema.json"

// GenerateSchema generates the JSON Schema for meetwatch.yml. Known sections
// are closed; unknown top-level keys are allowed because they carry
// extension sections such as logging and tui.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		Anonymous:                 true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "Meetwatch Configuration"
	schema.Description = "Schema for meetwatch.yml and meetwatch.toml."
	schema.AdditionalProperties = jsonschema.TrueSchema

	return json.MarshalIndent(schema, "", "  ")
}

var (
	compileOnce    sync.Once
	compiledSchema *compiler.Schema
	compileErr     error
)

// SchemaValidator validates configuration documents against the generated
// JSON Schema.
type SchemaValidator struct {
	schema *compiler.Schema
}

// NewSchemaValidator compiles the generated schema. Compilation happens once
// per process.
func NewSchemaValidator() (*SchemaValidator, error) {
	compileOnce.Do(func() {
		data, err := GenerateSchema()
		if err != nil {
			compileErr = fmt.Errorf("failed to generate schema: %w", err)
			return
		}

		c := compiler.NewCompiler()
		if err := c.AddResource(schemaResource, bytes.NewReader(data)); err != nil {
			compileErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaResource)
	})
	if compileErr != nil {
		return nil, compileErr
	}
	return &SchemaValidator{schema: compiledSchema}, nil
}

// Validate validates configuration data against the schema. Any value that
// marshals to JSON is accepted.
func (v *SchemaValidator) Validate(configData interface{}) error {
	doc, err := toJSONDocument(configData)
	if err != nil {
		return fmt.Errorf("failed to convert config for validation: %w", err)
	}

	if err := v.schema.Validate(doc); err != nil {
		if validationErr, ok := err.(*compiler.ValidationError); ok {
			var messages []string
			collectErrors(validationErr, &messages)
			if len(messages) > 0 {
				return fmt.Errorf("schema validation failed:\n%s", strings.Join(messages, "\n"))
			}
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}

// collectErrors recursively collects all validation errors into a slice
func collectErrors(err *compiler.ValidationError, messages *[]string) {
	if err.InstanceLocation != "" || len(err.Causes) == 0 {
		*messages = append(*messages, fmt.Sprintf("- %s: %s", err.InstanceLocation, err.Message))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}
