// internal/catalog/catalog.go
package catalog

// Catalog is an immutable snapshot of dependency rules and templates.
// It is fully constructed before serving and never mutated afterward,
// so concurrent readers need no locking. Hot reload replaces the whole
// snapshot through Store.
type Catalog struct {
	rules     []DependencyRule
	templates []Template
	ruleIndex map[ruleKey][]int
}

type ruleKey struct {
	domain string
	intent string
}

// New builds a catalog snapshot and its domain/intent index. The given
// slices are owned by the catalog afterwards.
func New(rules []DependencyRule, templates []Template) *Catalog {
	idx := make(map[ruleKey][]int, len(rules))
	for i, r := range rules {
		k := ruleKey{domain: r.Domain, intent: r.Intent}
		idx[k] = append(idx[k], i)
	}
	return &Catalog{
		rules:     rules,
		templates: templates,
		ruleIndex: idx,
	}
}

// Empty returns a catalog with no rules and no templates. Used when
// loading fails and the service degrades instead of refusing to start.
func Empty() *Catalog {
	return New(nil, nil)
}

// RulesFor returns all dependency rules matching the exact domain and
// intent, in catalog order. The returned slice must not be modified.
func (c *Catalog) RulesFor(domain, intent string) []DependencyRule {
	positions := c.ruleIndex[ruleKey{domain: domain, intent: intent}]
	if len(positions) == 0 {
		return nil
	}
	out := make([]DependencyRule, 0, len(positions))
	for _, i := range positions {
		out = append(out, c.rules[i])
	}
	return out
}

// Templates returns every template in catalog order. The returned slice
// must not be modified.
func (c *Catalog) Templates() []Template {
	return c.templates
}

// RuleCount reports how many dependency rules the snapshot holds.
func (c *Catalog) RuleCount() int {
	return len(c.rules)
}

// TemplateCount reports how many templates the snapshot holds.
func (c *Catalog) TemplateCount() int {
	return len(c.templates)
}
