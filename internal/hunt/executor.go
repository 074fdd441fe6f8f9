package hunt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DerithAI/WOLF-AI/models"
	"github.com/DerithAI/WOLF-AI/store"
	"github.com/DerithAI/WOLF-AI/types"
)

// eventDetailLimit caps the result/error excerpt carried by an event.
const eventDetailLimit = 200

// Event describes one hunt status transition.
type Event struct {
	HuntID   string
	Assignee string
	From     models.HuntStatus
	To       models.HuntStatus
	Detail   string
	At       time.Time
}

// AuditLog receives one event per hunt transition. Append is
// fire-and-forget: the executor never checks whether an event landed,
// so implementations must not block and must swallow their own errors.
type AuditLog interface {
	Append(Event)
}

// Executor runs a single hunt through the status state machine:
//
//	pending -> active -> completed            (success)
//	active  -> pending, retry_count+1         (failure below the limit)
//	active  -> failed                         (failure at the limit)
//
// Cancellation is a store-level transition; when it wins a race with the
// executor, the executor yields and reports the cancelled record.
type Executor struct {
	store store.HuntStore
	audit AuditLog
}

// NewExecutor creates an executor. audit may be nil.
func NewExecutor(st store.HuntStore, audit AuditLog) *Executor {
	return &Executor{store: st, audit: audit}
}

// Run drives one execution attempt for h: activation, dispatch under the
// per-attempt timeout, then the retry or terminal decision. Execution
// failures are recorded on the hunt and never returned; the returned
// error reports store failures only.
func (e *Executor) Run(ctx context.Context, h models.Hunt) (models.Hunt, error) {
	active, err := e.store.Update(h.ID, func(cur *models.Hunt) error {
		if cur.Status.IsTerminal() {
			return fmt.Errorf("hunt %s is %s: %w", cur.ID, cur.Status, store.ErrAlreadyTerminal)
		}
		if cur.Status != models.StatusPending {
			return fmt.Errorf("hunt %s is already %s", cur.ID, cur.Status)
		}
		cur.Status = models.StatusActive
		if cur.StartedAt == nil {
			now := time.Now().UTC()
			cur.StartedAt = &now
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyTerminal) {
			// Cancelled (or otherwise settled) underneath us.
			return e.store.Get(h.ID)
		}
		return models.Hunt{}, err
	}
	e.emit(active, models.StatusPending, models.StatusActive, active.Directive.String())

	result, runErr := e.dispatch(ctx, active)
	return e.settle(active, result, runErr)
}

// dispatch executes the hunt's directive with the per-attempt timeout
// applied uniformly across kinds.
func (e *Executor) dispatch(ctx context.Context, h models.Hunt) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, h.TimeoutDuration())
	defer cancel()

	switch h.Directive.Kind {
	case models.DirectiveShell:
		return runShell(attemptCtx, h.Directive.Payload)
	case models.DirectiveCode:
		return runCode(attemptCtx, h.Directive.Payload)
	case models.DirectiveFile:
		return runFileQuery(h.Directive.Payload)
	case models.DirectiveNote:
		// Registering an intent always succeeds; the payload is the result.
		return h.Directive.Payload, nil
	}
	return "", &types.ExecutionError{Kind: string(h.Directive.Kind), Detail: "no handler for directive kind"}
}

// settle is the single decision point every dispatch outcome funnels
// through, so the retry policy is identical for all directive kinds.
func (e *Executor) settle(h models.Hunt, result string, runErr error) (models.Hunt, error) {
	now := time.Now().UTC()

	if runErr == nil {
		done, err := e.store.Update(h.ID, func(cur *models.Hunt) error {
			cur.Status = models.StatusCompleted
			cur.Result = result
			cur.CompletedAt = &now
			return nil
		})
		if err != nil {
			if errors.Is(err, store.ErrAlreadyTerminal) {
				return e.store.Get(h.ID)
			}
			return models.Hunt{}, err
		}
		e.emit(done, models.StatusActive, models.StatusCompleted, result)
		return done, nil
	}

	failure := e.describeFailure(h, runErr)
	settled, err := e.store.Update(h.ID, func(cur *models.Hunt) error {
		if cur.RetryCount < cur.RetryLimit {
			cur.RetryCount++
		}
		cur.Error = failure
		if cur.RetryCount >= cur.RetryLimit {
			cur.Status = models.StatusFailed
			cur.CompletedAt = &now
		} else {
			cur.Status = models.StatusPending
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyTerminal) {
			return e.store.Get(h.ID)
		}
		return models.Hunt{}, err
	}
	e.emit(settled, models.StatusActive, settled.Status, failure)
	return settled, nil
}

// describeFailure renders runErr into the message recorded on the hunt.
// Deadline hits become a TimeoutError naming the configured limit.
func (e *Executor) describeFailure(h models.Hunt, runErr error) string {
	if errors.Is(runErr, context.DeadlineExceeded) {
		te := &types.TimeoutError{Kind: string(h.Directive.Kind), Limit: h.TimeoutDuration()}
		return te.Error()
	}
	return runErr.Error()
}

// emit sends one event to the audit log. A misbehaving sink must not
// take a transition down with it.
func (e *Executor) emit(h models.Hunt, from, to models.HuntStatus, detail string) {
	if e.audit == nil {
		return
	}
	defer func() { _ = recover() }()

	e.audit.Append(Event{
		HuntID:   h.ID,
		Assignee: h.Assignee,
		From:     from,
		To:       to,
		Detail:   clip(detail, eventDetailLimit),
		At:       time.Now().UTC(),
	})
}
