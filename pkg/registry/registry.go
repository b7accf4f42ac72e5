// Package registry describes the dialogue worker activities: task
// types, input/output schemas and operational metadata. The registry
// file is the source of truth for which activities a deployment runs.
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// Validate checks registry-wide invariants: unique non-empty IDs,
// required descriptive fields, and that every embedded input/output
// schema compiles as a JSON Schema.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	for _, activity := range r.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: id")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: displayName", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: taskType", activity.ID)
		}
		if activity.Category == "" {
			return fmt.Errorf("activity %s missing required field: category", activity.ID)
		}

		if err := compileSchema(activity.InputSchema); err != nil {
			return fmt.Errorf("activity %s: input schema: %w", activity.ID, err)
		}
		if err := compileSchema(activity.OutputSchema); err != nil {
			return fmt.Errorf("activity %s: output schema: %w", activity.ID, err)
		}
	}
	return nil
}

func compileSchema(schema map[string]interface{}) error {
	if len(schema) == 0 {
		return nil
	}
	_, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	return err
}
