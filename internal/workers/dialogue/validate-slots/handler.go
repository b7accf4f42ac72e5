package validateslots

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"dialogue-workers/internal/catalog"
	"dialogue-workers/internal/common/metrics"
	"dialogue-workers/internal/slotcheck"
)

const (
	TaskType = "validate-slots"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config *Config
	store  *catalog.Store
	logger Logger
}

func NewHandler(config *Config, store *catalog.Store, log Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

// execute runs the validator over the current catalog snapshot. A
// failed validation is a normal outcome and completes the job with a
// non-zero code; the process decides what to do with it.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	res := slotcheck.Validate(h.store.Get(), input.Domain, input.Intent, input.Slots)

	errorType := "ok"
	if res.Code != 0 {
		errorType = string(res.Kind)
		if res.Data != nil && res.Data.Category != "" {
			errorType = string(res.Data.Category)
		}
	}
	metrics.ValidationResults.WithLabelValues(errorType).Inc()

	h.logger.Info("slots validated", map[string]interface{}{
		"domain": input.Domain,
		"intent": input.Intent,
		"code":   res.Code,
		"result": errorType,
	})

	return &Output{Code: res.Code, Message: res.Message, Data: res.Data}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)

	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey": job.Key,
		"error":  err.Error(),
	})
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, "INVALID_INPUT").Inc()

	_, _ = client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(0).
		ErrorMessage(err.Error()).
		Send(context.Background())
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
