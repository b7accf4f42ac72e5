// internal/server/handlers.go
package server

import (
	"encoding/json"
	"io"
	"net/http"

	"dialogue-workers/internal/render"
	"dialogue-workers/internal/slotcheck"
)

const maxBodyBytes = 1 << 20

type slotRequest struct {
	Domain string            `json:"domain"`
	Intent string            `json:"intent"`
	Slots  map[string]string `json:"slots"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cat := s.store.Get()
	s.writeJSON(w, http.StatusOK, response{
		Code:    0,
		Success: true,
		Message: "dialogue api running",
		Data: map[string]interface{}{
			"rules":     cat.RuleCount(),
			"templates": cat.TemplateCount(),
		},
	})
}

func (s *Server) handleValidateSlots(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readSlotRequest(w, r)
	if !ok {
		return
	}

	res := slotcheck.Validate(s.store.Get(), req.Domain, req.Intent, req.Slots)
	s.writeJSON(w, http.StatusOK, response{
		Code:    res.Code,
		Success: res.Code == 0,
		Message: res.Message,
		Data:    res.Data,
	})
}

func (s *Server) handleProcessTemplate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readSlotRequest(w, r)
	if !ok {
		return
	}

	res := slotcheck.Validate(s.store.Get(), req.Domain, req.Intent, req.Slots)
	s.writeJSON(w, http.StatusOK, response{
		Code:    res.Code,
		Success: res.Code == 0,
		Message: res.Message,
		Data: map[string]interface{}{
			"content": slotcheck.Compose(res),
		},
	})
}

func (s *Server) handleMatchTemplate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.badRequest(w, "read body: "+err.Error())
		return
	}
	if msg := validateBody(s.schemas.matchTemplate, body); msg != "" {
		s.badRequest(w, msg)
		return
	}

	var ctx render.Context
	if err := json.Unmarshal(body, &ctx); err != nil {
		s.badRequest(w, "parse body: "+err.Error())
		return
	}
	var tree map[string]interface{}
	if err := json.Unmarshal(body, &tree); err != nil {
		s.badRequest(w, "parse body: "+err.Error())
		return
	}

	res := render.Match(s.store.Get().Templates(), ctx, tree)
	if res.Template == nil {
		s.writeJSON(w, http.StatusOK, response{
			Code:    1,
			Success: false,
			Message: "no template matched",
			Data:    map[string]interface{}{"content": res.Content},
		})
		return
	}

	s.writeJSON(w, http.StatusOK, response{
		Code:    0,
		Success: true,
		Message: "匹配成功",
		Data: map[string]interface{}{
			"template_name": res.Template.Name,
			"content":       res.Content,
		},
	})
}

func (s *Server) readSlotRequest(w http.ResponseWriter, r *http.Request) (*slotRequest, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.badRequest(w, "read body: "+err.Error())
		return nil, false
	}
	if msg := validateBody(s.schemas.validateSlots, body); msg != "" {
		s.badRequest(w, msg)
		return nil, false
	}

	var req slotRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.badRequest(w, "parse body: "+err.Error())
		return nil, false
	}
	return &req, true
}
