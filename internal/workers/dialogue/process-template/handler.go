// internal/workers/dialogue/process-template/handler.go
package processtemplate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"dialogue-workers/internal/catalog"
	commonerrors "dialogue-workers/internal/common/errors"
	"dialogue-workers/internal/common/logger"
	"dialogue-workers/internal/common/metrics"
	"dialogue-workers/internal/slotcheck"
)

const (
	TaskType = "process-template"
)

type Handler struct {
	config *Config
	store  *catalog.Store
	redis  *redis.Client
	logger logger.Logger
	errors *commonerrors.ErrorHandler
}

// NewHandler builds the full-pipeline handler. redis may be nil, in
// which case every request runs the pipeline directly.
func NewHandler(config *Config, store *catalog.Store, redis *redis.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  store,
		redis:  redis,
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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

// execute runs validate → classify → compose and caches the composed
// response. The pipeline is a pure function of the catalog snapshot and
// the input, so a request-shaped cache key is safe.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	cacheKey := h.cacheKey(input)
	if h.redis != nil {
		val, err := h.redis.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			var cached Output
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return &cached, nil
			}
		case err != redis.Nil:
			// The cache is an optimization; a dead Redis degrades to
			// running the pipeline on every request.
			cacheErr := commonerrors.NewCacheUnavailableError(err)
			h.logger.Warn("response cache unavailable", map[string]interface{}{
				"code":  string(cacheErr.Code),
				"error": cacheErr.Details,
			})
		}
	}

	res := slotcheck.Validate(h.store.Get(), input.Domain, input.Intent, input.Slots)
	content := slotcheck.Compose(res)

	output := &Output{
		Code:    res.Code,
		Message: res.Message,
		Data:    &ContentData{Content: content},
	}

	if h.redis != nil {
		if data, err := json.Marshal(output); err == nil {
			h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)
		}
	}

	h.logger.Info("template processed", map[string]interface{}{
		"domain": input.Domain,
		"intent": input.Intent,
		"code":   res.Code,
	})

	return output, nil
}

// cacheKey hashes the request so arbitrary slot values never end up in
// the key space verbatim.
func (h *Handler) cacheKey(input *Input) string {
	data, _ := json.Marshal(input)
	sum := sha256.Sum256(data)
	return "tpl:" + hex.EncodeToString(sum[:])
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
