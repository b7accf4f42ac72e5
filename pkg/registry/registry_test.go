// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validActivity(id string) Activity {
	return Activity{
		ID:          id,
		DisplayName: "Validate Slots",
		Description: "Checks user slots against dependency rules",
		Category:    "dialogue",
		TaskType:    id,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"domain": map[string]interface{}{"type": "string"},
			},
		},
	}
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "activity-registry.json")
	content := `{
		"version": "1.0.0",
		"activities": [
			{"id": "validate-slots", "displayName": "Validate Slots", "category": "dialogue", "taskType": "validate-slots"}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	reg, err := LoadRegistry(path)

	require.NoError(t, err)
	require.Len(t, reg.Activities, 1)
	assert.Equal(t, "validate-slots", reg.Activities[0].ID)
}

func TestRegistry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		reg     ActivityRegistry
		wantErr string
	}{
		{
			name:    "valid",
			reg:     ActivityRegistry{Activities: []Activity{validActivity("validate-slots")}},
			wantErr: "",
		},
		{
			name:    "empty registry",
			reg:     ActivityRegistry{},
			wantErr: "no activities",
		},
		{
			name: "duplicate id",
			reg: ActivityRegistry{Activities: []Activity{
				validActivity("validate-slots"),
				validActivity("validate-slots"),
			}},
			wantErr: "duplicate activity ID",
		},
		{
			name: "missing task type",
			reg: ActivityRegistry{Activities: []Activity{
				{ID: "x", DisplayName: "X", Category: "dialogue"},
			}},
			wantErr: "taskType",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRegistry_Validate_BadSchema(t *testing.T) {
	a := validActivity("validate-slots")
	a.InputSchema = map[string]interface{}{"type": 42}
	reg := ActivityRegistry{Activities: []Activity{a}}

	err := reg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "input schema")
}
