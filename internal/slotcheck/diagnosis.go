// Package slotcheck validates a user slot set against the dependency
// rules of its domain/intent pair and grades the failure when no rule
// is satisfied.
package slotcheck

// Category labels the shape of a failed diagnosis. Values are the wire
// strings of the original service.
type Category string

const (
	CategoryMissing Category = "lost_slots"
	CategoryInvalid Category = "value_errors"
	CategoryBoth    Category = "both_error"
)

// scoring: each rule starts at 100; a required slot that is absent
// costs 10, one present with an unsupported value costs 5. No floor,
// scores may go negative on large rules.
const (
	baseScore      = 100
	missingPenalty = 10
	invalidPenalty = 5
)

// exemptSlots are never evaluated against a rule.
var exemptSlots = map[string]struct{}{
	"time":   {},
	"org":    {},
	"option": {},
}

// Diagnosis grades one candidate rule against the user's slots. Both
// maps carry the rule's allowed values for the offending slot so the
// caller can tell the user what would have been accepted. A diagnosis
// with both maps empty is a fully satisfied rule.
type Diagnosis struct {
	Missing map[string][]string `json:"lost_slots"`
	Invalid map[string][]string `json:"value_errors"`
	Score   int                 `json:"score"`
}

// Satisfied reports whether the rule behind this diagnosis is fully met.
func (d Diagnosis) Satisfied() bool {
	return len(d.Missing) == 0 && len(d.Invalid) == 0
}

// ClassifiedError is the single diagnosis chosen among all failed
// candidate rules, tagged with its category. Marshals flat:
// {lost_slots, value_errors, score, error_type}.
type ClassifiedError struct {
	Diagnosis
	Category Category `json:"error_type,omitempty"`
}

// FailureKind distinguishes the request-scoped failure modes of
// validation. Empty on success.
type FailureKind string

const (
	FailMissingDomain    FailureKind = "MISSING_DOMAIN"
	FailMissingIntent    FailureKind = "MISSING_INTENT"
	FailNoMatchingRule   FailureKind = "NO_MATCHING_RULE"
	FailValidationFailed FailureKind = "VALIDATION_FAILED"
)

// Result is the validator's verdict. Code follows the consumer contract:
// 0 is success, anything else is a request-scoped failure. Data is the
// satisfied diagnosis on success and the classified error on
// VALIDATION_FAILED; nil for precondition and lookup failures.
type Result struct {
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Kind    FailureKind      `json:"-"`
	Data    *ClassifiedError `json:"data,omitempty"`
}
