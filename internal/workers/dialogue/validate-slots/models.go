// internal/workers/dialogue/validate-slots/models.go
package validateslots

import "dialogue-workers/internal/slotcheck"

type Input struct {
	Domain string            `json:"domain"`
	Intent string            `json:"intent"`
	Slots  map[string]string `json:"slots"`
}

// Output is the consumer contract: code 0 on success, non-zero on any
// validation failure, with the classified diagnosis in data.
type Output struct {
	Code    int                        `json:"code"`
	Message string                     `json:"message"`
	Data    *slotcheck.ClassifiedError `json:"data,omitempty"`
}
