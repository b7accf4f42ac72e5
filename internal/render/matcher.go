// Package render selects the best conditional response template for a
// dialogue context and substitutes its placeholders.
package render

import (
	"sort"

	"dialogue-workers/internal/catalog"
)

// NoMatchContent is returned when no template's conditions pass.
const NoMatchContent = "no match found"

// wildcard matches any non-empty value in template conditions.
const wildcard = "*"

// SlotContext is one half of the dialogue context a template is
// evaluated against.
type SlotContext struct {
	Domain string            `json:"domain"`
	Intent string            `json:"intent"`
	Slots  map[string]string `json:"slots"`
}

// Context carries the slot state of the current and previous dialogue
// turn. Either half may be absent.
type Context struct {
	OriginSlot *SlotContext `json:"origin_slot,omitempty"`
	LastSlot   *SlotContext `json:"last_slot,omitempty"`
}

// Result is the matcher's verdict. Template is nil when nothing
// matched, in which case Content carries the fixed no-match string.
type Result struct {
	Template *catalog.Template `json:"template"`
	Content  string            `json:"content"`
}

// Match evaluates every template's conditions against ctx and returns
// the passing template with the lowest priority number, its content
// rendered against the raw request tree. Priority ties keep catalog
// order.
func Match(templates []catalog.Template, ctx Context, data map[string]interface{}) Result {
	ordered := make([]catalog.Template, len(templates))
	copy(ordered, templates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	for i := range ordered {
		if !conditionsMatch(ordered[i].Conditions, ctx) {
			continue
		}
		tpl := ordered[i]
		return Result{Template: &tpl, Content: Render(tpl.Content, data)}
	}

	return Result{Content: NoMatchContent}
}

// conditionsMatch checks the origin_slot and last_slot blocks. A block
// is only enforced when both the template declares it and the context
// supplies the corresponding half; absence of either passes the block.
func conditionsMatch(cond catalog.TemplateConditions, ctx Context) bool {
	if cond.OriginSlot != nil && ctx.OriginSlot != nil {
		if !blockMatches(cond.OriginSlot, ctx.OriginSlot) {
			return false
		}
	}
	if cond.LastSlot != nil && ctx.LastSlot != nil {
		if !blockMatches(cond.LastSlot, ctx.LastSlot) {
			return false
		}
	}
	return true
}

func blockMatches(cond *catalog.SlotCondition, sc *SlotContext) bool {
	if !valueInSet(cond.Domain, sc.Domain) {
		return false
	}
	if !valueInSet(cond.Intent, sc.Intent) {
		return false
	}
	for _, required := range cond.Slots {
		for name, want := range required {
			got, ok := sc.Slots[name]
			if !ok {
				return false
			}
			if want != wildcard && want != got {
				return false
			}
		}
	}
	return true
}

// valueInSet is the template condition predicate for domain and intent:
// an empty declared set passes, an empty user value never matches a
// non-empty set, and the wildcard matches any non-empty value. This is
// deliberately distinct from the validator's list-membership check.
func valueInSet(declared []string, value string) bool {
	if len(declared) == 0 {
		return true
	}
	if value == "" {
		return false
	}
	for _, d := range declared {
		if d == wildcard || d == value {
			return true
		}
	}
	return false
}
