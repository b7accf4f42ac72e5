// internal/catalog/loader.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	commonerrors "dialogue-workers/internal/common/errors"
	"dialogue-workers/internal/common/logger"
)

// LoadRules parses a dependency-rule JSON document (one array of rule
// objects).
func LoadRules(path string) ([]DependencyRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	var rules []DependencyRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	return rules, nil
}

// LoadTemplates parses a template JSON document (one array of template
// objects).
func LoadTemplates(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	var templates []Template
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return templates, nil
}

// LoadFiles builds a catalog snapshot from the two JSON documents. A
// missing or malformed document degrades to its empty half with a
// logged warning; the service stays up and every request over the
// missing half reports no-matching-rule / no-template-match.
func LoadFiles(rulesPath, templatesPath string, log logger.Logger) *Catalog {
	rules, err := LoadRules(rulesPath)
	if err != nil {
		loadErr := commonerrors.NewCatalogLoadFailedError(rulesPath, err)
		log.Warn("dependency rules unavailable, serving empty rule set", map[string]interface{}{
			"code":  string(loadErr.Code),
			"error": loadErr.Details,
		})
		rules = nil
	}

	templates, err := LoadTemplates(templatesPath)
	if err != nil {
		loadErr := commonerrors.NewCatalogLoadFailedError(templatesPath, err)
		log.Warn("templates unavailable, serving empty template set", map[string]interface{}{
			"code":  string(loadErr.Code),
			"error": loadErr.Details,
		})
		templates = nil
	}

	cat := New(rules, templates)
	log.Info("catalog loaded", map[string]interface{}{
		"rules":     cat.RuleCount(),
		"templates": cat.TemplateCount(),
	})
	return cat
}
