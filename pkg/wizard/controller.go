package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"p9e.in/washreport/models"
	"p9e.in/washreport/pkg/trello"
)

// Step is the screen the wizard is on.
type Step string

const (
	StepEditing   Step = "editing"
	StepReviewing Step = "reviewing"
	StepDone      Step = "done"
)

var (
	ErrInvalidTransition = errors.New("wizard: operation not allowed in current step")
	ErrNotSubmittable    = errors.New("wizard: report is not complete")
	ErrSubmissionPending = errors.New("wizard: submission already in progress")
)

// Submitter sends a confirmed report to the kanban board.
type Submitter interface {
	SubmitReport(ctx context.Context, r models.Report) (*trello.CardRecord, error)
}

// State is a consistent snapshot of a Controller.
type State struct {
	Step    Step
	Report  models.Report
	Pending bool
	Card    *trello.CardRecord
}

// Controller drives one user's report through edit, review and done. It
// is safe for concurrent use; the lock is not held during submission.
type Controller struct {
	mu        sync.Mutex
	step      Step
	report    models.Report
	pending   bool
	card      *trello.CardRecord
	submitter Submitter
	now       func() time.Time
}

// NewController starts in the editing step with an empty report dated
// today according to now.
func NewController(s Submitter, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{
		step:      StepEditing,
		report:    models.NewReport(now()),
		submitter: s,
		now:       now,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Step: c.step, Report: c.report, Pending: c.pending, Card: c.card}
}

func (c *Controller) Step() Step {
	return c.State().Step
}

func (c *Controller) Report() models.Report {
	return c.State().Report
}

// Update replaces the draft while editing.
func (c *Controller) Update(r models.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepEditing {
		return ErrInvalidTransition
	}
	c.report = r
	return nil
}

// SubmitForReview stores r and moves to review when r is submittable.
// An incomplete report is still kept as the draft.
func (c *Controller) SubmitForReview(r models.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepEditing {
		return ErrInvalidTransition
	}
	c.report = r
	if !models.IsSubmittable(r) {
		return ErrNotSubmittable
	}
	c.step = StepReviewing
	return nil
}

// Edit returns from review to editing with the draft unchanged.
func (c *Controller) Edit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepReviewing {
		return ErrInvalidTransition
	}
	if c.pending {
		return ErrSubmissionPending
	}
	c.step = StepEditing
	return nil
}

// Confirm submits the reviewed report. On failure the wizard stays in
// review with the draft unchanged and the submitter's error is returned.
func (c *Controller) Confirm(ctx context.Context) (*trello.CardRecord, error) {
	c.mu.Lock()
	if c.step != StepReviewing {
		c.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	if c.pending {
		c.mu.Unlock()
		return nil, ErrSubmissionPending
	}
	c.pending = true
	report := c.report
	c.mu.Unlock()

	card, err := c.submitter.SubmitReport(ctx, report)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false
	if err != nil {
		return nil, err
	}
	c.step = StepDone
	c.card = card
	c.report = models.NewReport(c.now())
	return card, nil
}

// Reset starts a new report after a successful submission.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepDone {
		return ErrInvalidTransition
	}
	c.step = StepEditing
	c.card = nil
	c.report = models.NewReport(c.now())
	return nil
}
