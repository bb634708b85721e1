package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/issuebot/internal/domain"
)

// Triage places issues on the project board in the background. A nil
// *Triage is valid and does nothing, which is how a disabled board is
// represented.
type Triage struct {
	tracker domain.Tracker
	logger  domain.Logger
	wg      sync.WaitGroup
	timeout time.Duration
}

// NewTriage creates a new Triage side effect.
func NewTriage(tracker domain.Tracker, logger domain.Logger, timeout time.Duration) *Triage {
	return &Triage{
		tracker: tracker,
		logger:  logger,
		timeout: timeout,
	}
}

// Fire starts the board placement and returns immediately. The request is
// detached from ctx cancellation; its failure is logged and never reported
// to the caller.
func (t *Triage) Fire(ctx context.Context, chatID int64, issueID string) {
	if t == nil || issueID == "" {
		return
	}
	detached := context.WithoutCancel(ctx)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(detached, t.timeout)
		defer cancel()

		if err := t.tracker.AddToTriageBoard(ctx, issueID); err != nil {
			t.logger.Warn(chatID, "triage", fmt.Sprintf("add %s to board: %v", issueID, err))
			return
		}
		t.logger.Info(chatID, "triage", fmt.Sprintf("added %s to board", issueID))
	}()
}

// Wait blocks until every fired placement has finished.
func (t *Triage) Wait() {
	if t == nil {
		return
	}
	t.wg.Wait()
}
