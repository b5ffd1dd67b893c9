package phrases

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jamespheffernan/words-on-phone-server/internal/config"
	"github.com/jamespheffernan/words-on-phone-server/internal/models"
	"github.com/jamespheffernan/words-on-phone-server/internal/modules/dedupe"
	"github.com/jamespheffernan/words-on-phone-server/internal/modules/generation"
	"github.com/jamespheffernan/words-on-phone-server/internal/modules/quota"
	"github.com/jamespheffernan/words-on-phone-server/internal/modules/scoring"
)

const (
	// Nested quality retries for prompt-only providers.
	nestedRetryMaxAttempts = 2
	nestedRetryBudget      = 8 * time.Second
	minHighQualityRatio    = 0.5

	minSampleWords = 2
)

// ClientFactory resolves the active generation client. The orchestrator calls
// it once per orchestration, never per batch.
type ClientFactory func(ctx context.Context) (generation.Client, error)

// Orchestrator drives the full custom-category pipeline: quota admission,
// parallel batch generation, scoring, deduplication and persistence.
type Orchestrator struct {
	newClient ClientFactory
	scorer    *scoring.Scorer
	ledger    *quota.Ledger
	store     *Store
	tasks     TaskService
	cfg       config.GenerationConfig
	log       *zap.Logger
}

func NewOrchestrator(newClient ClientFactory, scorer *scoring.Scorer, ledger *quota.Ledger, store *Store, tasks TaskService, cfg config.GenerationConfig, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		newClient: newClient,
		scorer:    scorer,
		ledger:    ledger,
		store:     store,
		tasks:     tasks,
		cfg:       cfg,
		log:       log.Named("orchestrator"),
	}
}

type scoredItem struct {
	item  generation.Item
	score scoring.Result
}

// Preview creates (or revisits) the category request and fetches a small
// sample batch so the user can judge the category before committing a full
// generation run. Sample words are fetched once per request record.
func (o *Orchestrator) Preview(ctx context.Context, name, description string, tags []string) (*models.CategoryRequestModel, error) {
	req, err := o.store.EnsureRequest(name, description, tags)
	if err != nil {
		return nil, err
	}
	if len(req.SampleWords) > 0 {
		return req, nil
	}

	if allowed, _ := o.ledger.CanMakeRequest(); !allowed {
		return nil, ErrQuotaExceeded
	}
	client, err := o.newClient(ctx)
	if err != nil {
		return nil, err
	}

	items, err := o.callProvider(ctx, client, req.Name, o.cfg.SampleSize)
	if err != nil {
		req.Error = err.Error()
		_ = o.store.SaveRequest(req)
		return nil, err
	}
	unique := dedupe.Dedupe(items, nil)
	if len(unique) < minSampleWords {
		req.Error = ErrInsufficientSampleWords.Error()
		_ = o.store.SaveRequest(req)
		return nil, ErrInsufficientSampleWords
	}

	words := make([]string, 0, len(unique))
	for _, it := range unique {
		words = append(words, it.Text)
	}
	req.SampleWords = words
	req.Error = ""
	if err := o.store.SaveRequest(req); err != nil {
		return nil, err
	}
	o.log.Info("category preview ready",
		zap.String("category", req.Name),
		zap.Int("samples", len(words)))
	return req, nil
}

// Generate runs the full pipeline for a previewed category and returns the
// accepted phrases ranked best first.
func (o *Orchestrator) Generate(ctx context.Context, requestID string, targetCount int) ([]models.GeneratedPhraseModel, error) {
	req, err := o.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}
	if targetCount <= 0 {
		targetCount = o.cfg.TargetCount
	}

	// Calling generate is the confirmation step.
	if req.Status == models.RequestStatusPending {
		if err := o.store.Transition(req, models.RequestStatusConfirmed, ""); err != nil {
			return nil, err
		}
	}
	if req.Status != models.RequestStatusConfirmed && req.Status != models.RequestStatusGenerated {
		return nil, fmt.Errorf("request %s has status %s and cannot be generated", req.ID, req.Status)
	}

	if allowed, _ := o.ledger.CanMakeRequest(); !allowed {
		// Recoverable once the quota day rolls over, so the request stays
		// in its current state.
		return nil, ErrQuotaExceeded
	}

	client, err := o.newClient(ctx)
	if err != nil {
		o.fail(req, err.Error())
		return nil, err
	}
	corpus, err := o.corpusSet()
	if err != nil {
		return nil, err
	}

	// Fan out. Every batch settles on its own; failures are tolerated as
	// long as at least one batch delivers.
	type batchResult struct {
		items []scoredItem
		err   error
	}
	results := make([]batchResult, o.cfg.BatchCount)
	var wg sync.WaitGroup
	for i := 0; i < o.cfg.BatchCount; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if allowed, _ := o.ledger.CanMakeRequest(); !allowed {
				results[i] = batchResult{err: ErrQuotaExceeded}
				return
			}
			items, err := o.runBatch(ctx, client, req.Name)
			results[i] = batchResult{items: items, err: err}
		}(i)
	}
	wg.Wait()

	attempts := 0
	succeeded := 0
	var union []scoredItem
	for i, res := range results {
		attempts++
		if res.err != nil {
			o.log.Warn("batch failed",
				zap.Int("batch", i),
				zap.String("category", req.Name),
				zap.Error(res.err))
			continue
		}
		succeeded++
		union = append(union, res.items...)
	}
	if succeeded == 0 {
		o.fail(req, ErrAllBatchesFailed.Error())
		return nil, ErrAllBatchesFailed
	}

	// Cross-batch dedupe first, then the persisted corpus.
	accepted := dedupeScored(dedupeScored(union, nil), corpus)

	// At most one sequential top-up batch when the yield falls short.
	if len(accepted) < targetCount && attempts < o.cfg.MaxAttempts {
		if allowed, _ := o.ledger.CanMakeRequest(); allowed {
			attempts++
			extra, err := o.runBatch(ctx, client, req.Name)
			if err != nil {
				o.log.Warn("top-up batch failed",
					zap.String("category", req.Name),
					zap.Error(err))
			} else {
				merged := make(map[string]struct{}, len(corpus)+len(accepted))
				for k := range corpus {
					merged[k] = struct{}{}
				}
				for _, it := range accepted {
					merged[dedupe.Normalize(it.item.Text)] = struct{}{}
				}
				accepted = append(accepted, dedupeScored(extra, merged)...)
			}
		}
	}

	if len(accepted) == 0 {
		o.fail(req, ErrEmptyAfterDedup.Error())
		return nil, ErrEmptyAfterDedup
	}

	if o.cfg.UseBoosters {
		for i := range accepted {
			accepted[i].score = o.scorer.Score(ctx, accepted[i].item.Text, req.Name, true)
		}
	}

	sort.SliceStable(accepted, func(a, b int) bool {
		return accepted[a].score.Total > accepted[b].score.Total
	})

	phrases := make([]models.GeneratedPhraseModel, 0, len(accepted))
	for _, it := range accepted {
		phrases = append(phrases, models.GeneratedPhraseModel{
			Base:       models.Base{ID: it.item.ID},
			Text:       it.item.Text,
			Category:   req.Name,
			Source:     client.Name(),
			Score:      it.score.Total,
			Breakdown:  it.score.Breakdown,
			Difficulty: it.item.Difficulty,
		})
	}
	inserted, err := o.store.SavePhrases(phrases)
	if err != nil {
		o.fail(req, err.Error())
		return nil, err
	}

	req.GeneratedCount += inserted
	if len(req.SampleWords) == 0 {
		n := o.cfg.SampleSize
		if n > len(phrases) {
			n = len(phrases)
		}
		for _, p := range phrases[:n] {
			req.SampleWords = append(req.SampleWords, p.Text)
		}
	}
	if req.Status == models.RequestStatusConfirmed {
		if err := o.store.Transition(req, models.RequestStatusGenerated, ""); err != nil {
			return nil, err
		}
	}
	if err := o.store.SaveRequest(req); err != nil {
		return nil, err
	}

	o.log.Info("generation complete",
		zap.String("category", req.Name),
		zap.String("provider", client.Name()),
		zap.Int("attempts", attempts),
		zap.Int("accepted", len(accepted)),
		zap.Int("inserted", inserted))
	return phrases, nil
}

// runBatch issues one provider call and scores the result locally. Providers
// without structured output get a bounded quality retry: when fewer than half
// the phrases score as high quality, the call is repeated and the best
// attempt kept.
func (o *Orchestrator) runBatch(ctx context.Context, client generation.Client, topic string) ([]scoredItem, error) {
	items, err := o.callProvider(ctx, client, topic, o.cfg.BatchSize)
	if err != nil {
		return nil, err
	}
	best := o.scoreItems(ctx, items, topic)
	if client.Structured() {
		return best, nil
	}

	deadline := time.Now().Add(nestedRetryBudget)
	for extra := 0; extra < nestedRetryMaxAttempts; extra++ {
		if highQualityRatio(best) >= minHighQualityRatio {
			break
		}
		if time.Now().After(deadline) {
			o.log.Debug("quality retry budget exhausted", zap.String("category", topic))
			break
		}
		if allowed, _ := o.ledger.CanMakeRequest(); !allowed {
			break
		}
		items, err := o.callProvider(ctx, client, topic, o.cfg.BatchSize)
		if err != nil {
			break
		}
		scored := o.scoreItems(ctx, items, topic)
		if highQualityRatio(scored) > highQualityRatio(best) {
			best = scored
		}
	}
	return best, nil
}

// callProvider wraps a single provider attempt with the per-call timeout and
// records the quota spend whether or not the call succeeds.
func (o *Orchestrator) callProvider(ctx context.Context, client generation.Client, topic string, size int) ([]generation.Item, error) {
	callCtx, cancel := context.WithTimeout(ctx, time.Duration(o.cfg.RequestTimeoutSeconds)*time.Second)
	defer cancel()
	defer func() {
		if err := o.ledger.RecordAttempt(); err != nil {
			o.log.Warn("failed to record quota attempt", zap.Error(err))
		}
	}()

	ids := make([]string, size)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	return client.Generate(callCtx, generation.Request{
		Topic:     topic,
		BatchSize: size,
		ItemIDs:   ids,
	})
}

func (o *Orchestrator) scoreItems(ctx context.Context, items []generation.Item, category string) []scoredItem {
	out := make([]scoredItem, 0, len(items))
	for _, it := range items {
		out = append(out, scoredItem{item: it, score: o.scorer.Score(ctx, it.Text, category, false)})
	}
	return out
}

func (o *Orchestrator) corpusSet() (map[string]struct{}, error) {
	texts, err := o.store.CorpusTexts()
	if err != nil {
		return nil, fmt.Errorf("load dedup corpus: %w", err)
	}
	set := dedupe.CorpusSet(staticCatalog)
	for k := range dedupe.CorpusSet(texts) {
		set[k] = struct{}{}
	}
	return set, nil
}

// fail marks the request failed where the state machine allows it and always
// records the error message.
func (o *Orchestrator) fail(req *models.CategoryRequestModel, msg string) {
	if req.Status.CanTransition(models.RequestStatusFailed) {
		if err := o.store.Transition(req, models.RequestStatusFailed, msg); err != nil {
			o.log.Warn("failed to mark request failed", zap.String("request", req.ID), zap.Error(err))
		}
		return
	}
	req.Error = msg
	if err := o.store.SaveRequest(req); err != nil {
		o.log.Warn("failed to record request error", zap.String("request", req.ID), zap.Error(err))
	}
}

func dedupeScored(items []scoredItem, corpus map[string]struct{}) []scoredItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]scoredItem, 0, len(items))
	for _, it := range items {
		key := dedupe.Normalize(it.item.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		if corpus != nil {
			if _, dup := corpus[key]; dup {
				continue
			}
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

func highQualityRatio(items []scoredItem) float64 {
	if len(items) == 0 {
		return 0
	}
	high := 0
	for _, it := range items {
		if it.score.Total >= scoring.HighQualityThreshold {
			high++
		}
	}
	return float64(high) / float64(len(items))
}
