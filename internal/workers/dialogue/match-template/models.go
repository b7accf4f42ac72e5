// internal/workers/dialogue/match-template/models.go
package matchtemplate

import "dialogue-workers/internal/render"

// Input is the typed view of the dialogue context. The raw variable
// tree is decoded separately for placeholder resolution.
type Input struct {
	render.Context
}

type Output struct {
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    *MatchData `json:"data,omitempty"`
}

type MatchData struct {
	TemplateName string `json:"template_name,omitempty"`
	Content      string `json:"content"`
}
