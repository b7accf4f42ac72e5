// internal/workers/dialogue/match-template/handler.go
package matchtemplate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"dialogue-workers/internal/catalog"
	commonerrors "dialogue-workers/internal/common/errors"
	"dialogue-workers/internal/common/logger"
	"dialogue-workers/internal/common/metrics"
	"dialogue-workers/internal/render"
)

const (
	TaskType = "match-template"
)

const msgNoTemplateMatch = "未找到匹配的模板"

type Handler struct {
	config *Config
	store  *catalog.Store
	logger logger.Logger
	errors *commonerrors.ErrorHandler
}

func NewHandler(config *Config, store *catalog.Store, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  store,
		logger: scoped,
		errors: commonerrors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	defer func() {
		metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	}()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, fmt.Errorf("parse input: %w", err))
		return
	}

	// Placeholders resolve over the raw variable tree, not the typed
	// view, so any variable a template references is reachable.
	var tree map[string]interface{}
	if err := json.Unmarshal([]byte(job.Variables), &tree); err != nil {
		h.failJob(client, job, fmt.Errorf("parse variables: %w", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input, tree)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input, tree map[string]interface{}) (*Output, error) {
	res := render.Match(h.store.Get().Templates(), input.Context, tree)

	if res.Template == nil {
		metrics.TemplateMatches.WithLabelValues("no_match").Inc()
		return &Output{
			Code:    1,
			Message: msgNoTemplateMatch,
			Data:    &MatchData{Content: res.Content},
		}, nil
	}

	metrics.TemplateMatches.WithLabelValues("matched").Inc()
	h.logger.Info("template matched", map[string]interface{}{
		"template": res.Template.Name,
		"priority": res.Template.Priority,
	})

	return &Output{
		Code:    0,
		Message: "匹配成功",
		Data: &MatchData{
			TemplateName: res.Template.Name,
			Content:      res.Content,
		},
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, "INVALID_INPUT").Inc()
	h.errors.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input, tree map[string]interface{}) (*Output, error) {
	return h.execute(ctx, input, tree)
}
