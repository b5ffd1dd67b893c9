package phrases

import (
	"context"

	"go.uber.org/zap"

	"github.com/jamespheffernan/words-on-phone-server/internal/models"
	"github.com/jamespheffernan/words-on-phone-server/internal/pkg/taskqueue"
)

const TaskTypeGenerate = "phrases_generate"

// TaskService is the slice of the task queue the orchestrator uses.
type TaskService interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}, dedupKey string) (*taskqueue.Task, bool, error)
	UpdateStatus(ctx context.Context, id string, status taskqueue.TaskStatus, result interface{}, errMsg string) error
	GetByID(ctx context.Context, id string) (*taskqueue.Task, error)
}

// GeneratePayload is the persisted task payload for a generation run.
type GeneratePayload struct {
	RequestID   string `json:"request_id"`
	TargetCount int    `json:"target_count"`
}

type generateResult struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	TopScore int    `json:"top_score"`
}

// EnqueueGenerate queues a generation run for a confirmed category request.
// A run already in flight for the same request is returned instead of queued
// twice.
func (o *Orchestrator) EnqueueGenerate(ctx context.Context, requestID string, targetCount int) (*taskqueue.Task, error) {
	if _, err := o.store.GetRequest(requestID); err != nil {
		return nil, err
	}
	payload := GeneratePayload{RequestID: requestID, TargetCount: targetCount}
	task, created, err := o.tasks.Enqueue(ctx, TaskTypeGenerate, payload, requestID)
	if err != nil {
		return nil, err
	}
	if created {
		go o.executeGenerate(context.Background(), task.ID, payload)
	}
	return task, nil
}

func (o *Orchestrator) executeGenerate(ctx context.Context, taskID string, payload GeneratePayload) {
	if err := o.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskRunning, nil, ""); err != nil {
		o.log.Warn("failed to mark task running", zap.String("task", taskID), zap.Error(err))
	}

	phrases, err := o.Generate(ctx, payload.RequestID, payload.TargetCount)
	if err != nil {
		if uerr := o.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskFailed, nil, err.Error()); uerr != nil {
			o.log.Warn("failed to mark task failed", zap.String("task", taskID), zap.Error(uerr))
		}
		return
	}

	result := generateResult{Count: len(phrases)}
	if len(phrases) > 0 {
		result.Category = phrases[0].Category
		result.TopScore = phrases[0].Score
	}
	if err := o.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskCompleted, result, ""); err != nil {
		o.log.Warn("failed to mark task completed", zap.String("task", taskID), zap.Error(err))
	}
}

// Task returns the queued task by id. A missing or expired record yields
// ErrTaskNotFound.
func (o *Orchestrator) Task(ctx context.Context, id string) (*taskqueue.Task, error) {
	task, err := o.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// ResolveRequest accepts either a request id or a category name/slug.
func (o *Orchestrator) ResolveRequest(ref string) (*models.CategoryRequestModel, error) {
	req, err := o.store.GetRequest(ref)
	if err == nil {
		return req, nil
	}
	return o.store.GetRequestBySlug(Slugify(ref))
}
