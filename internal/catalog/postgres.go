// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	commonerrors "dialogue-workers/internal/common/errors"
)

// LoadPostgres reads the catalog from the dependency_rules and
// response_templates tables. Both tables carry an explicit position
// column because catalog order is part of the contract (first perfect
// match wins, priority ties keep catalog order).
func LoadPostgres(ctx context.Context, db *sql.DB) (*Catalog, error) {
	rules, err := loadRuleRows(ctx, db)
	if err != nil {
		return nil, commonerrors.NewCatalogQueryFailedError(err)
	}

	templates, err := loadTemplateRows(ctx, db)
	if err != nil {
		return nil, commonerrors.NewCatalogQueryFailedError(err)
	}

	return New(rules, templates), nil
}

func loadRuleRows(ctx context.Context, db *sql.DB) ([]DependencyRule, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT domain, intent, slots FROM dependency_rules ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query dependency_rules: %w", err)
	}
	defer rows.Close()

	var rules []DependencyRule
	for rows.Next() {
		var (
			rule      DependencyRule
			slotsJSON []byte
		)
		if err := rows.Scan(&rule.Domain, &rule.Intent, &slotsJSON); err != nil {
			return nil, fmt.Errorf("scan dependency_rules: %w", err)
		}
		if err := json.Unmarshal(slotsJSON, &rule.Slots); err != nil {
			return nil, fmt.Errorf("parse slots for %s/%s: %w", rule.Domain, rule.Intent, err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func loadTemplateRows(ctx context.Context, db *sql.DB) ([]Template, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name, priority, conditions, content FROM response_templates ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query response_templates: %w", err)
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		var (
			tpl            Template
			conditionsJSON []byte
		)
		if err := rows.Scan(&tpl.Name, &tpl.Priority, &conditionsJSON, &tpl.Content); err != nil {
			return nil, fmt.Errorf("scan response_templates: %w", err)
		}
		if err := json.Unmarshal(conditionsJSON, &tpl.Conditions); err != nil {
			return nil, fmt.Errorf("parse conditions for %s: %w", tpl.Name, err)
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}
