// internal/server/server_test.go
package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dialogue-workers/internal/catalog"
	"dialogue-workers/internal/common/logger"
)

func testServer(t *testing.T) *Server {
	rules := []catalog.DependencyRule{
		{
			Domain: "weather",
			Intent: "query",
			Slots: map[string][]string{
				"city": {"北京", "上海"},
			},
		},
	}
	templates := []catalog.Template{
		{
			Name:     "weather-answer",
			Priority: 1,
			Conditions: catalog.TemplateConditions{
				OriginSlot: &catalog.SlotCondition{
					Domain: []string{"weather"},
					Intent: []string{"*"},
				},
			},
			Content: "{{origin_slot.slots.city}}的天气",
		},
	}
	store := catalog.NewStore(catalog.New(rules, templates))

	s, err := New(store, logger.NewTestLogger(t))
	require.NoError(t, err)
	return s
}

func doRequest(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, response) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestServer_Status(t *testing.T) {
	s := testServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, resp.Code)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["rules"])
	assert.Equal(t, float64(1), data["templates"])
}

func TestServer_ValidateSlots(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{
			name:     "success",
			body:     `{"domain":"weather","intent":"query","slots":{"city":"北京"}}`,
			wantCode: 0,
			wantMsg:  "验证成功",
		},
		{
			name:     "missing domain",
			body:     `{"intent":"query"}`,
			wantCode: 1,
			wantMsg:  "缺少domain信息",
		},
		{
			name:     "missing slot",
			body:     `{"domain":"weather","intent":"query","slots":{}}`,
			wantCode: 1,
			wantMsg:  "验证失败: lost_slots",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testServer(t)

			rec, resp := doRequest(t, s, http.MethodPost, "/validate_slots", tt.body)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}

func TestServer_ValidateSlots_SchemaViolation(t *testing.T) {
	s := testServer(t)

	rec, resp := doRequest(t, s, http.MethodPost, "/validate_slots",
		`{"domain":123}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, resp.Code)
	assert.False(t, resp.Success)
}

func TestServer_ProcessTemplate(t *testing.T) {
	s := testServer(t)

	rec, resp := doRequest(t, s, http.MethodPost, "/process_template",
		`{"domain":"weather","intent":"query","slots":{"city":"广州"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, resp.Code)

	data := resp.Data.(map[string]interface{})
	content := data["content"].(string)
	assert.Contains(t, content, "不好意思，此次查询由于以下槽位数据暂时不支持查找而导致无法得出结果")
	assert.Contains(t, content, "city：北京、上海")
}

// /parse_template accepts the full user-data body of the original
// service, auxiliary keys included, and answers with the matcher's
// template_name/content pair.
func TestServer_ParseTemplate_FullUserData(t *testing.T) {
	s := testServer(t)

	rec, resp := doRequest(t, s, http.MethodPost, "/parse_template",
		`{
			"org": "某某公司",
			"time": "2026-08-20",
			"origin_slot": {"domain": "weather", "intent": "query", "slots": {"city": "北京"}},
			"last_slot": {"domain": "", "intent": "", "slots": {}},
			"result": {},
			"order": "",
			"cur_domain": "",
			"lead_add": [],
			"last_option": []
		}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "weather-answer", data["template_name"])
	assert.Equal(t, "北京的天气", data["content"])
}

func TestServer_MatchTemplate(t *testing.T) {
	s := testServer(t)

	rec, resp := doRequest(t, s, http.MethodPost, "/match_template",
		`{"origin_slot":{"domain":"weather","intent":"query","slots":{"city":"北京"}}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "weather-answer", data["template_name"])
	assert.Equal(t, "北京的天气", data["content"])
}

func TestServer_MatchTemplate_NoMatch(t *testing.T) {
	s := testServer(t)

	rec, resp := doRequest(t, s, http.MethodPost, "/match_template",
		`{"origin_slot":{"domain":"music","intent":"play"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "no match found", data["content"])
}
