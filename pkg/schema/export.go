package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateJSONSchema produces a JSON Schema Draft 2020-12 document from
// the Go Config struct using invopop/jsonschema.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&Config{})
	s.ID = "https://github.com/wandcli/wand/schemas/config-v0.json"
	s.Title = "Wand Wizard Config v0"
	s.Description = "Schema for wand wizard config documents (Draft 2020-12)"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
