// internal/server/schemas.go
package server

import "github.com/xeipuuv/gojsonschema"

// Request schemas check shape and types only. Domain and intent stay
// optional so the validator's own precondition messages surface instead
// of a generic schema error.
const validateSlotsSchema = `{
  "type": "object",
  "properties": {
    "domain": {"type": "string"},
    "intent": {"type": "string"},
    "slots": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    }
  },
  "additionalProperties": false
}`

const slotContextSchema = `{
  "type": "object",
  "properties": {
    "domain": {"type": "string"},
    "intent": {"type": "string"},
    "slots": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    }
  }
}`

const matchTemplateSchema = `{
  "type": "object",
  "properties": {
    "origin_slot": ` + slotContextSchema + `,
    "last_slot": ` + slotContextSchema + `
  }
}`

type schemas struct {
	validateSlots *gojsonschema.Schema
	matchTemplate *gojsonschema.Schema
}

func compileSchemas() (*schemas, error) {
	vs, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(validateSlotsSchema))
	if err != nil {
		return nil, err
	}
	mt, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(matchTemplateSchema))
	if err != nil {
		return nil, err
	}
	return &schemas{validateSlots: vs, matchTemplate: mt}, nil
}

// validate runs the body through a compiled schema and returns the
// first violation message, or "" when the body passes.
func validateBody(schema *gojsonschema.Schema, body []byte) string {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return err.Error()
	}
	if result.Valid() {
		return ""
	}
	return result.Errors()[0].String()
}
