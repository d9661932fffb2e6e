package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schema describes Config as a JSON schema, for editor completion and for
// validating configuration files outside the binary.
func Schema() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	s := r.Reflect(new(Config))
	s.Title = "tileworld configuration"
	s.Description = "Runtime settings of the tileworld simulation"
	return s
}

// SchemaJSON renders Schema indented.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
