// internal/slotcheck/validator.go
package slotcheck

import (
	"fmt"

	"dialogue-workers/internal/catalog"
)

// Validation messages, kept byte-identical to the original service.
const (
	MsgSuccess        = "验证成功"
	MsgMissingDomain  = "缺少domain信息"
	MsgMissingIntent  = "缺少intent信息"
	MsgNoMatchingRule = "未找到匹配的domain(%s)和intent(%s)组合"
	MsgFailed         = "验证失败"
)

// Validate checks the user slot set against every dependency rule of
// its domain/intent pair. Rules are evaluated in catalog order and the
// first fully satisfied rule wins immediately; otherwise the failed
// diagnoses are reduced to the single most informative one.
func Validate(cat *catalog.Catalog, domain, intent string, userSlots map[string]string) Result {
	if domain == "" {
		return Result{Code: 1, Kind: FailMissingDomain, Message: MsgMissingDomain}
	}
	if intent == "" {
		return Result{Code: 1, Kind: FailMissingIntent, Message: MsgMissingIntent}
	}

	rules := cat.RulesFor(domain, intent)
	if len(rules) == 0 {
		return Result{
			Code:    1,
			Kind:    FailNoMatchingRule,
			Message: fmt.Sprintf(MsgNoMatchingRule, domain, intent),
		}
	}

	var failed []Diagnosis
	for _, rule := range rules {
		diag := diagnose(rule, userSlots)
		if diag.Satisfied() {
			// First perfect match in catalog order wins; later rules are
			// not scored.
			return Result{
				Code:    0,
				Message: MsgSuccess,
				Data:    &ClassifiedError{Diagnosis: diag},
			}
		}
		failed = append(failed, diag)
	}

	if best := Classify(failed); best != nil {
		return Result{
			Code:    1,
			Kind:    FailValidationFailed,
			Message: fmt.Sprintf("%s: %s", MsgFailed, best.Category),
			Data:    best,
		}
	}

	return Result{Code: 1, Kind: FailValidationFailed, Message: MsgFailed}
}

// diagnose grades a single rule. Exempt slots are skipped entirely; a
// required slot that is absent lands in Missing, one present with a
// value outside the rule's allowed list lands in Invalid.
func diagnose(rule catalog.DependencyRule, userSlots map[string]string) Diagnosis {
	diag := Diagnosis{
		Missing: map[string][]string{},
		Invalid: map[string][]string{},
		Score:   baseScore,
	}

	for slotName, allowed := range rule.Slots {
		if _, exempt := exemptSlots[slotName]; exempt {
			continue
		}

		value, present := userSlots[slotName]
		if !present {
			diag.Score -= missingPenalty
			diag.Missing[slotName] = allowed
			continue
		}
		if !containsValue(allowed, value) {
			diag.Score -= invalidPenalty
			diag.Invalid[slotName] = allowed
		}
	}

	return diag
}

// containsValue is the validator's slot predicate: list membership.
// Template conditions deliberately use a different predicate
// (single value or wildcard); the two must not be unified.
func containsValue(allowed []string, value string) bool {
	for _, v := range allowed {
		if v == value {
			return true
		}
	}
	return false
}
