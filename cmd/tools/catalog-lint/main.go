// cmd/tools/catalog-lint/main.go
//
// catalog-lint validates the dialogue catalog documents before deploy:
// dependency rules, response templates and the activity registry. Shape
// is checked with JSON Schemas, then a few semantic rules the schemas
// cannot express (duplicate template names, placeholder syntax).
package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"

	"github.com/xeipuuv/gojsonschema"

	"dialogue-workers/internal/catalog"
	"dialogue-workers/pkg/registry"
)

const rulesSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["domain", "intent", "slots"],
    "properties": {
      "domain": {"type": "string", "minLength": 1},
      "intent": {"type": "string", "minLength": 1},
      "slots": {
        "type": "object",
        "additionalProperties": {
          "type": "array",
          "items": {"type": "string"}
        }
      }
    }
  }
}`

const templatesSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name", "priority", "content"],
    "properties": {
      "name": {"type": "string", "minLength": 1},
      "priority": {"type": "integer"},
      "content": {"type": "string"},
      "conditions": {
        "type": "object",
        "properties": {
          "origin_slot": {"$ref": "#/definitions/condition"},
          "last_slot": {"$ref": "#/definitions/condition"}
        }
      }
    }
  },
  "definitions": {
    "condition": {
      "type": "object",
      "properties": {
        "domain": {"type": "array", "items": {"type": "string"}},
        "intent": {"type": "array", "items": {"type": "string"}},
        "slots": {
          "type": "array",
          "items": {
            "type": "object",
            "additionalProperties": {"type": "string"}
          }
        }
      }
    }
  }
}`

var placeholderPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)
var danglingBrace = regexp.MustCompile(`\{\{[^}]*$|^[^{]*\}\}`)

func main() {
	rulesPath := flag.String("rules", "configs/dependency.json", "Path to dependency rules file")
	templatesPath := flag.String("templates", "configs/templates.json", "Path to templates file")
	registryPath := flag.String("registry", "", "Optional path to activity registry file")
	flag.Parse()

	failed := false

	if err := lintDocument(*rulesPath, rulesSchema); err != nil {
		fmt.Printf("FAIL %s: %v\n", *rulesPath, err)
		failed = true
	} else if rules, err := catalog.LoadRules(*rulesPath); err != nil {
		fmt.Printf("FAIL %s: %v\n", *rulesPath, err)
		failed = true
	} else {
		fmt.Printf("OK   %s: %d rules\n", *rulesPath, len(rules))
	}

	if err := lintDocument(*templatesPath, templatesSchema); err != nil {
		fmt.Printf("FAIL %s: %v\n", *templatesPath, err)
		failed = true
	} else if templates, err := catalog.LoadTemplates(*templatesPath); err != nil {
		fmt.Printf("FAIL %s: %v\n", *templatesPath, err)
		failed = true
	} else if errs := lintTemplates(templates); len(errs) > 0 {
		for _, e := range errs {
			fmt.Printf("FAIL %s: %v\n", *templatesPath, e)
		}
		failed = true
	} else {
		fmt.Printf("OK   %s: %d templates\n", *templatesPath, len(templates))
	}

	if *registryPath != "" {
		reg, err := registry.LoadRegistry(*registryPath)
		if err == nil {
			err = reg.Validate()
		}
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", *registryPath, err)
			failed = true
		} else {
			fmt.Printf("OK   %s: %d activities\n", *registryPath, len(reg.Activities))
		}
	}

	if failed {
		os.Exit(1)
	}
}

func lintDocument(path, schema string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return err
	}
	if !result.Valid() {
		return fmt.Errorf("%s", result.Errors()[0].String())
	}
	return nil
}

// lintTemplates flags the problems a schema cannot see.
func lintTemplates(templates []catalog.Template) []error {
	var errs []error
	names := make(map[string]bool)
	for _, tpl := range templates {
		if names[tpl.Name] {
			errs = append(errs, fmt.Errorf("duplicate template name: %s", tpl.Name))
		}
		names[tpl.Name] = true

		// A content with unbalanced braces renders literally; almost
		// always an authoring mistake.
		stripped := placeholderPattern.ReplaceAllString(tpl.Content, "")
		if danglingBrace.MatchString(stripped) {
			errs = append(errs, fmt.Errorf("template %s: unbalanced placeholder braces", tpl.Name))
		}
	}
	return errs
}
