// internal/workers/dialogue/process-template/models.go
package processtemplate

type Input struct {
	Domain string            `json:"domain"`
	Intent string            `json:"intent"`
	Slots  map[string]string `json:"slots"`
}

type Output struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Data    *ContentData `json:"data,omitempty"`
}

// ContentData carries the composed explanation text.
type ContentData struct {
	Content string `json:"content"`
}
