// Package requirements turns natural-language app descriptions into a
// structured specification the generation pipeline can work from.
package requirements

import (
	"fmt"

	"github.com/SchmitzHorst/ai-agent-service/utils"
)

// AppRequirements is the structured specification of an application to
// generate.
type AppRequirements struct {
	AppName     string       `json:"appName"`
	Description string       `json:"description"`
	Entities    []EntitySpec `json:"entities"`
}

// EntitySpec describes one domain entity of the requested application.
type EntitySpec struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Fields      []FieldSpec `json:"fields"`
}

// FieldSpec describes one field of an entity.
type FieldSpec struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// Validate checks that the requirements are complete enough to generate from.
func (r *AppRequirements) Validate() error {
	if r.AppName == "" {
		return fmt.Errorf("app name is required")
	}
	if !utils.IsValidAppName(r.AppName) {
		return fmt.Errorf("invalid app name: %s", r.AppName)
	}
	if len(r.Entities) == 0 {
		return fmt.Errorf("at least one entity is required")
	}
	for _, e := range r.Entities {
		if e.Name == "" {
			return fmt.Errorf("entity name is required")
		}
	}
	return nil
}
