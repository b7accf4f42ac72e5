// internal/workers/dialogue/validate-slots/handler_test.go
package validateslots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dialogue-workers/internal/catalog"
	"dialogue-workers/internal/slotcheck"
)

func TestLoadConfig_Defaults(t *testing.T) {
	conf := LoadConfig()

	assert.Equal(t, 10*time.Second, conf.Timeout)
}

// TestLogger implements the Logger interface for testing
type TestLogger struct {
	t      *testing.T
	fields map[string]interface{}
}

func NewTestLogger(t *testing.T) *TestLogger {
	return &TestLogger{
		t:      t,
		fields: make(map[string]interface{}),
	}
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v", msg, fields)
}

func (l *TestLogger) Warn(msg string, fields map[string]interface{}) {
	l.t.Logf("WARN: %s %v", msg, fields)
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v", msg, fields)
}

func (l *TestLogger) With(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &TestLogger{t: l.t, fields: merged}
}

func testStore() *catalog.Store {
	rules := []catalog.DependencyRule{
		{
			Domain: "weather",
			Intent: "query",
			Slots: map[string][]string{
				"city": {"北京", "上海"},
			},
		},
	}
	return catalog.NewStore(catalog.New(rules, nil))
}

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), testStore(), NewTestLogger(t))
}

func TestHandler_Execute_Success(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{
		Domain: "weather",
		Intent: "query",
		Slots:  map[string]string{"city": "北京"},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, out.Code)
	assert.Equal(t, "验证成功", out.Message)
}

func TestHandler_Execute_ValidationFailureCompletes(t *testing.T) {
	tests := []struct {
		name    string
		input   *Input
		message string
	}{
		{
			name:    "missing domain",
			input:   &Input{Intent: "query"},
			message: "缺少domain信息",
		},
		{
			name:    "unknown pair",
			input:   &Input{Domain: "music", Intent: "play"},
			message: "未找到匹配的domain(music)和intent(play)组合",
		},
		{
			name:    "missing slot",
			input:   &Input{Domain: "weather", Intent: "query"},
			message: "验证失败: lost_slots",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)

			out, err := h.Execute(context.Background(), tt.input)

			// Validation failures are outcomes, not job errors.
			require.NoError(t, err)
			assert.Equal(t, 1, out.Code)
			assert.Equal(t, tt.message, out.Message)
		})
	}
}

func TestHandler_Execute_DiagnosisOnOutput(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{
		Domain: "weather",
		Intent: "query",
		Slots:  map[string]string{"city": "广州"},
	})

	require.NoError(t, err)
	require.NotNil(t, out.Data)
	assert.Equal(t, slotcheck.CategoryInvalid, out.Data.Category)
	assert.Equal(t, 95, out.Data.Score)
	assert.Equal(t, map[string][]string{"city": {"北京", "上海"}}, out.Data.Invalid)
}
