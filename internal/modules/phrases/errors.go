package phrases

import "errors"

var (
	// ErrQuotaExceeded means the admission check failed before any network
	// call; recoverable once the daily counter rolls over.
	ErrQuotaExceeded = errors.New("daily generation quota exceeded")

	// ErrAllBatchesFailed is the fatal orchestration outcome: not a single
	// batch call succeeded.
	ErrAllBatchesFailed = errors.New("all batch requests failed")

	// ErrInsufficientSampleWords means the preview phase produced fewer than
	// two usable sample words.
	ErrInsufficientSampleWords = errors.New("provider returned fewer than 2 sample words")

	// ErrEmptyAfterDedup means every candidate across all batches was a
	// duplicate of existing content.
	ErrEmptyAfterDedup = errors.New("all generated phrases were duplicates, try a different category name")

	// ErrRequestNotFound means no category request exists for the given id.
	ErrRequestNotFound = errors.New("category request not found")

	// ErrTaskNotFound means no task record exists for the given id, either
	// because it never did or because its retention TTL expired.
	ErrTaskNotFound = errors.New("task not found")
)
