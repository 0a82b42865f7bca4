package roster

import (
	"github.com/invopop/jsonschema"

	"petsim/internal/pet"
)

// ExportVersion is the payload version this build writes and the newest it reads.
const ExportVersion = 1

// Payload is the portable shape of one exported pet.
type Payload struct {
	Version int        `json:"version" jsonschema:"minimum=1"`
	Pet     *pet.State `json:"pet"`
}

// Validate checks the envelope. The pet itself is repaired on import, never rejected.
func (p Payload) Validate() error {
	if p.Pet == nil {
		return ErrEmptyPayload
	}
	if p.Version > ExportVersion {
		return ErrUnsupportedVersion
	}
	return nil
}

// ExportSchema describes Payload as JSON schema.
func ExportSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(Payload))
	schema.Title = "petsim export"
	schema.Description = "A single pet exported from petsim"
	return schema
}
