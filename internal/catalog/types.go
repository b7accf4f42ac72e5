// Package catalog holds the load-once, read-only rule catalog: the
// dependency rules consumed by slot validation and the conditional
// response templates consumed by template matching.
package catalog

// DependencyRule is one acceptable (domain, intent, slot-constraint)
// combination. Several rules may share a domain/intent pair; each then
// describes an alternative valid slot configuration. Rules have no id,
// they are identified by position in the catalog.
type DependencyRule struct {
	Domain string              `json:"domain"`
	Intent string              `json:"intent"`
	Slots  map[string][]string `json:"slots"`
}

// SlotCondition constrains one frame (origin_slot or last_slot) of the
// user context. Domain and Intent are value lists where "*" matches any
// non-empty user value. Slots is an ordered list of single-pair
// constraints; a declared value of "*" matches any user value.
type SlotCondition struct {
	Domain []string            `json:"domain"`
	Intent []string            `json:"intent"`
	Slots  []map[string]string `json:"slots"`
}

// TemplateConditions groups the per-frame conditions of a template.
// A nil frame means the template does not constrain that frame.
type TemplateConditions struct {
	OriginSlot *SlotCondition `json:"origin_slot,omitempty"`
	LastSlot   *SlotCondition `json:"last_slot,omitempty"`
}

// Template is a conditionally selected response text. Lower Priority
// wins. Content may embed {{dot.path}} placeholders resolved against
// the user context at render time.
type Template struct {
	Name       string             `json:"name"`
	Priority   int                `json:"priority"`
	Examples   []string           `json:"examples,omitempty"`
	Conditions TemplateConditions `json:"conditions"`
	Content    string             `json:"content"`
}
