package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/curatorhq/curator-cli/internal/collectors"
	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driven"
	"github.com/curatorhq/curator-cli/internal/core/ports/driving"
	"github.com/curatorhq/curator-cli/internal/logger"
)

// Ensure CollectionRunner implements the interface.
var _ driving.CollectionRunner = (*CollectionRunner)(nil)

// CollectionRunner coordinates collection runs: it builds the
// collector, expands search parameters into combinations, drives each
// combination through search, metadata merge and persistence, and
// tracks live run state for polling.
type CollectionRunner struct {
	factory  driven.CollectorFactory
	writer   driven.ResultWriter
	creds    driven.CredentialStore
	history  driven.RunHistoryStore
	reporter driven.ProgressReporter

	// Status tracking
	mu         sync.RWMutex
	activeRuns map[string]*activeRun
}

// activeRun pairs a run's mutable state with its cancel handle.
type activeRun struct {
	state  domain.RunState
	cancel context.CancelFunc
}

// NewCollectionRunner creates a collection runner. The credential
// store, history store and progress reporter are optional; nil
// disables the corresponding behaviour.
func NewCollectionRunner(
	factory driven.CollectorFactory,
	writer driven.ResultWriter,
	creds driven.CredentialStore,
	history driven.RunHistoryStore,
	reporter driven.ProgressReporter,
) *CollectionRunner {
	return &CollectionRunner{
		factory:    factory,
		writer:     writer,
		creds:      creds,
		history:    history,
		reporter:   reporter,
		activeRuns: make(map[string]*activeRun),
	}
}

// Run executes a collection synchronously. Start failures (unknown
// repository, invalid parameters, missing credentials) return an
// error; once combinations begin, failures are isolated per
// combination and the run always settles in a terminal state. The one
// mid-run exception is a credential rejection (401/403), which fails
// the whole run at the first hit.
func (r *CollectionRunner) Run(ctx context.Context, req driving.RunRequest) (state domain.RunState, err error) {
	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	caps, err := r.factory.Describe(req.Repository)
	if err != nil {
		return domain.RunState{RunID: runID, Status: domain.RunFailed}, err
	}

	credentials, err := r.loadCredentials(req.Repository)
	if err != nil {
		return domain.RunState{RunID: runID, Status: domain.RunFailed}, err
	}
	if caps.RequiresAuth && credentials.Empty() {
		return domain.RunState{RunID: runID, Status: domain.RunFailed},
			fmt.Errorf("%w: %s needs credentials, none configured", domain.ErrAuthRequired, req.Repository)
	}

	collector, err := r.factory.Create(ctx, req.Repository, driven.CollectorOptions{
		Credentials: credentials,
		MaxRetries:  req.MaxRetries,
		OnStatus:    func(text string) { r.setMessage(runID, text) },
		OnPage:      func() { r.pageTick() },
	})
	if err != nil {
		return domain.RunState{RunID: runID, Status: domain.RunFailed}, err
	}

	if err := collector.Validate(req.Params); err != nil {
		return domain.RunState{RunID: runID, Status: domain.RunFailed}, err
	}
	params := collectors.NormalizeParams(caps, req.Params)
	queries := domain.BuildQueries(params)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := r.registerRun(runID, req.Repository, cancel); err != nil {
		return domain.RunState{RunID: runID, Status: domain.RunFailed}, err
	}
	defer r.unregisterRun(runID)

	// Mid-run failures never escape the boundary, including panics
	// from a misbehaving collector.
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("Run %s panicked: %v", runID, rec)
			state = r.settleRun(runID, domain.RunFailed, fmt.Sprintf("Run failed: %v", rec))
			err = nil
		}
	}()

	logger.Info("Starting collection run %s for %s (%d combinations)", runID, req.Repository, len(queries))

	for i, query := range queries {
		if runCtx.Err() != nil {
			state = r.settleRun(runID, domain.RunCompleted, "Run terminated.")
			r.saveHistory(ctx, state, params)
			return state, nil
		}

		r.setProgress(runID, float64(i)/float64(len(queries)))
		r.setMessage(runID, fmt.Sprintf("Searching %s for %s...", req.Repository, query))

		outcome, fatal := r.runCombination(runCtx, runID, collector, caps, query, req.Flatten)
		terminated := runCtx.Err() != nil && outcome.Failed()
		if terminated {
			// Drop the partial combination from the outcome list
			// unless its records were persisted.
			if !caps.SavePartialOnCancel {
				outcome.Records = 0
			}
		}
		r.appendOutcome(runID, outcome)
		r.setProgress(runID, float64(i+1)/float64(len(queries)))

		if fatal != nil {
			// Rejected credentials doom every remaining combination;
			// stop issuing requests and fail the run.
			logger.Warn("Run %s aborted: %v", runID, fatal)
			state = r.settleRun(runID, domain.RunFailed, fatal.Error())
			r.saveHistory(ctx, state, params)
			return state, nil
		}

		if terminated {
			state = r.settleRun(runID, domain.RunCompleted, "Run terminated.")
			r.saveHistory(ctx, state, params)
			return state, nil
		}
	}

	state = r.settleRun(runID, domain.RunCompleted, "Collection complete.")
	logger.Info("Run %s complete: %d records, %d failed combinations",
		runID, state.RecordsCollected(), state.FailureCount())
	r.saveHistory(ctx, state, params)
	return state, nil
}

// runCombination drives one (term, type) combination: search, optional
// metadata merge, then persistence. Errors are folded into the
// returned outcome, except rejected credentials, which come back as a
// fatal error because no sibling combination can succeed either.
func (r *CollectionRunner) runCombination(
	ctx context.Context,
	runID string,
	collector driven.Collector,
	caps driven.CollectorCapabilities,
	query domain.Query,
	flatten bool,
) (domain.CombinationOutcome, error) {
	outcome := domain.CombinationOutcome{Query: query}

	result, err := collector.Search(ctx, query)
	if err != nil {
		outcome.Err = err.Error()
		if ctx.Err() != nil {
			// Terminated mid-search. Persist what was gathered when
			// the collector allows partial output.
			if caps.SavePartialOnCancel && !result.Empty() {
				outcome.Records = len(result.Records)
				r.persist(context.WithoutCancel(ctx), collector.Repository(), query, result.Records, flatten)
			}
			return outcome, nil
		}
		if collectors.IsUnauthorized(err) {
			return outcome, fmt.Errorf("%w: %s rejected the configured credentials: %v",
				domain.ErrAuthInvalid, collector.Repository(), err)
		}
		logger.Warn("Search %s failed: %v", query, err)
		return outcome, nil
	}

	records := result.Records

	if provider, ok := collector.(driven.MetadataProvider); ok && caps.SupportsMetadata && !result.Empty() {
		if key := provider.MergeKey(query); key != "" {
			r.setMessage(runID, fmt.Sprintf("Collecting %s metadata...", query))
			metadata, err := provider.Metadata(ctx, result)
			if err != nil {
				if ctx.Err() != nil {
					outcome.Err = err.Error()
					if caps.SavePartialOnCancel {
						outcome.Records = len(records)
						r.persist(context.WithoutCancel(ctx), collector.Repository(), query, records, flatten)
					}
					return outcome, nil
				}
				if collectors.IsUnauthorized(err) {
					outcome.Err = err.Error()
					return outcome, fmt.Errorf("%w: %s rejected the configured credentials: %v",
						domain.ErrAuthInvalid, collector.Repository(), err)
				}
				// Metadata is an enrichment; its failure leaves the
				// search output standing.
				logger.Warn("Metadata for %s failed, keeping unmerged search output: %v", query, err)
			}
			records = domain.MergeRecords(records, metadata, key)
		}
	}

	outcome.Records = len(records)
	if err := r.persist(ctx, collector.Repository(), query, records, flatten); err != nil {
		outcome.Err = err.Error()
	}
	return outcome, nil
}

// persist flattens (when requested) and writes one combination's
// records.
func (r *CollectionRunner) persist(ctx context.Context, repository string, query domain.Query, records []domain.Record, flatten bool) error {
	if len(records) == 0 {
		return nil
	}
	if flatten {
		flat := make([]domain.Record, len(records))
		for i, record := range records {
			flat[i] = domain.Flatten(record)
		}
		records = flat
	}
	if err := r.writer.Write(ctx, repository, query, records); err != nil {
		logger.Warn("Write %s/%s failed: %v", repository, query.Key(), err)
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// Terminate requests cooperative cancellation of an active run.
func (r *CollectionRunner) Terminate(runID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.activeRuns[runID]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrRunNotFound, runID)
	}
	run.state.Status = domain.RunCancelling
	run.state.LastMessage = "Terminating run..."
	run.cancel()
	return nil
}

// Status returns a snapshot of an active run's state.
func (r *CollectionRunner) Status(runID string) (domain.RunState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.activeRuns[runID]
	if !ok {
		return domain.RunState{}, fmt.Errorf("%w: %q", domain.ErrRunNotFound, runID)
	}
	return snapshot(&run.state), nil
}

// Active returns snapshots of all currently active runs.
func (r *CollectionRunner) Active() []domain.RunState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := make([]domain.RunState, 0, len(r.activeRuns))
	for _, run := range r.activeRuns {
		states = append(states, snapshot(&run.state))
	}
	return states
}

// snapshot copies a run state so polling never observes mutation.
func snapshot(state *domain.RunState) domain.RunState {
	out := *state
	out.Outcomes = append([]domain.CombinationOutcome(nil), state.Outcomes...)
	return out
}

// registerRun adds a run to the active set.
func (r *CollectionRunner) registerRun(runID, repository string, cancel context.CancelFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.activeRuns[runID]; exists {
		return fmt.Errorf("%w: %q", domain.ErrRunInProgress, runID)
	}
	r.activeRuns[runID] = &activeRun{
		state: domain.RunState{
			RunID:      runID,
			Repository: repository,
			Status:     domain.RunRunning,
			Progress:   domain.Progress{Determinate: true},
			StartedAt:  time.Now(),
		},
		cancel: cancel,
	}
	return nil
}

// unregisterRun removes a run from the active set.
func (r *CollectionRunner) unregisterRun(runID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.activeRuns, runID)
}

// settleRun moves a run to a terminal status and returns the final
// snapshot.
func (r *CollectionRunner) settleRun(runID string, status domain.RunStatus, message string) domain.RunState {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.activeRuns[runID]
	if !ok {
		return domain.RunState{RunID: runID, Status: status, LastMessage: message}
	}
	run.state.Status = status
	run.state.LastMessage = message
	run.state.Progress = domain.Progress{Determinate: true, Fraction: 1}
	run.state.EndedAt = time.Now()
	if r.reporter != nil {
		r.reporter.Message(message)
	}
	return snapshot(&run.state)
}

// setMessage updates a run's status message and forwards it to the
// progress reporter.
func (r *CollectionRunner) setMessage(runID, text string) {
	if text == "" {
		return
	}
	r.mu.Lock()
	if run, ok := r.activeRuns[runID]; ok {
		run.state.LastMessage = text
	}
	r.mu.Unlock()

	if r.reporter != nil {
		r.reporter.Message(text)
	}
}

// setProgress updates a run's determinate fraction.
func (r *CollectionRunner) setProgress(runID string, fraction float64) {
	r.mu.Lock()
	if run, ok := r.activeRuns[runID]; ok {
		run.state.Progress = domain.Progress{Determinate: true, Fraction: fraction}
	}
	r.mu.Unlock()

	if r.reporter != nil {
		r.reporter.Determinate(fraction)
	}
}

// pageTick signals page-by-page activity within a combination, where
// no total is known.
func (r *CollectionRunner) pageTick() {
	if r.reporter != nil {
		r.reporter.Indeterminate()
	}
}

// appendOutcome records one finished combination.
func (r *CollectionRunner) appendOutcome(runID string, outcome domain.CombinationOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run, ok := r.activeRuns[runID]; ok {
		run.state.Outcomes = append(run.state.Outcomes, outcome)
	}
}

// loadCredentials fetches a repository's credentials, tolerating a
// missing store.
func (r *CollectionRunner) loadCredentials(repository string) (domain.Credentials, error) {
	if r.creds == nil {
		return domain.Credentials{}, nil
	}
	credentials, err := r.creds.Get(repository)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Credentials{}, nil
		}
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	return credentials, nil
}

// saveHistory persists the finished run's summary.
func (r *CollectionRunner) saveHistory(ctx context.Context, state domain.RunState, params domain.SearchParameters) {
	if r.history == nil {
		return
	}
	record := &domain.RunRecord{
		ID:         state.RunID,
		Repository: state.Repository,
		Terms:      params.Terms,
		Types:      params.Types,
		Status:     state.Status,
		Records:    state.RecordsCollected(),
		Failures:   state.FailureCount(),
		Message:    state.LastMessage,
		StartedAt:  state.StartedAt,
		EndedAt:    state.EndedAt,
	}
	if err := r.history.Save(context.WithoutCancel(ctx), record); err != nil {
		logger.Warn("Failed to record run %s in history: %v", state.RunID, err)
	}
}
