// Package printjob models the jobs submitted to a print backend for order items.
package printjob

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

type Status int

const (
	Unknown Status = iota
	Queued
	Printing
	Completed
	Failed
)

func (s Status) String() string {
	switch s {
	case Queued:
		return "queued"
	case Printing:
		return "printing"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func ParseStatus(s string) (Status, error) {
	for _, st := range []Status{Queued, Printing, Completed, Failed} {
		if st.String() == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("print job status", fmt.Errorf("%q is not a valid status", s))
}

// Submission is what a print backend returns for an accepted document.
// Instant backends have already finished printing when they return.
type Submission struct {
	Handle  string
	Backend string
	Instant bool
}

// BackendState is the spooler's view of a previously submitted job.
type BackendState int

const (
	BackendUnknown BackendState = iota
	BackendQueued
	BackendDone
)

var (
	ErrPrintJobIsNotConstructed = errors.New("PrintJob must be created via NewPrintJob constructor")

	// ErrNoPrintableArtifact is returned when an item has no rendered document
	// or the document is missing from storage.
	ErrNoPrintableArtifact = errs.NewConflictError("order item", "has no printable document")
)

// PrintJob records one accepted submission of an order item. It exists only
// for submissions the backend accepted; rejected submissions leave no row.
type PrintJob struct {
	id           kernel.UUID
	orderID      kernel.UUID
	orderItemID  kernel.UUID
	handle       string
	backend      string
	copies       int
	status       Status
	startedAt    time.Time
	completedAt  *time.Time
	errorMessage *string

	isConstructed bool
}

// NewPrintJob creates the job for an accepted submission: completed straight
// away for an instant backend, printing otherwise.
func NewPrintJob(
	id kernel.UUID,
	orderID kernel.UUID,
	orderItemID kernel.UUID,
	submission Submission,
	copies int,
	now time.Time,
) (*PrintJob, error) {
	var handleErr, copiesErr error
	if strings.TrimSpace(submission.Handle) == "" {
		handleErr = errs.NewValueIsRequiredError("job handle")
	}
	if copies <= 0 {
		copiesErr = errs.NewValueIsInvalidErrorWithCause("copies", fmt.Errorf("%d is not greater than 0", copies))
	}
	if err := errors.Join(id.Validate(), orderID.Validate(), orderItemID.Validate(), handleErr, copiesErr); err != nil {
		return nil, err
	}

	j := &PrintJob{
		id:            id,
		orderID:       orderID,
		orderItemID:   orderItemID,
		handle:        submission.Handle,
		backend:       submission.Backend,
		copies:        copies,
		status:        Printing,
		startedAt:     now.UTC(),
		isConstructed: true,
	}
	if submission.Instant {
		j.Complete(now)
	}
	return j, nil
}

// State is the persisted shape of a print job.
type State struct {
	ID           kernel.UUID
	OrderID      kernel.UUID
	OrderItemID  kernel.UUID
	Handle       string
	Backend      string
	Copies       int
	Status       Status
	StartedAt    time.Time
	CompletedAt  *time.Time
	ErrorMessage *string
}

func RestorePrintJob(s State) (*PrintJob, error) {
	j, err := NewPrintJob(s.ID, s.OrderID, s.OrderItemID, Submission{Handle: s.Handle, Backend: s.Backend}, s.Copies, s.StartedAt)
	if err != nil {
		return nil, err
	}
	if s.Status == Unknown {
		return nil, errs.NewValueIsInvalidError("print job status")
	}
	j.status = s.Status
	j.completedAt = s.CompletedAt
	j.errorMessage = s.ErrorMessage
	return j, nil
}

func (j *PrintJob) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrPrintJobIsNotConstructed
	}
	return nil
}

func (j *PrintJob) ID() kernel.UUID          { return j.id }
func (j *PrintJob) OrderID() kernel.UUID     { return j.orderID }
func (j *PrintJob) OrderItemID() kernel.UUID { return j.orderItemID }
func (j *PrintJob) Handle() string           { return j.handle }
func (j *PrintJob) Backend() string          { return j.backend }
func (j *PrintJob) Copies() int              { return j.copies }
func (j *PrintJob) Status() Status           { return j.status }
func (j *PrintJob) StartedAt() time.Time     { return j.startedAt }
func (j *PrintJob) CompletedAt() *time.Time  { return j.completedAt }
func (j *PrintJob) ErrorMessage() *string    { return j.errorMessage }

// Complete marks the job finished. It returns false if the job was already
// completed or failed.
func (j *PrintJob) Complete(now time.Time) bool {
	if j.status == Completed || j.status == Failed {
		return false
	}
	j.status = Completed
	t := now.UTC()
	j.completedAt = &t
	return true
}

// Fail marks an unfinished job failed with the spooler's message.
func (j *PrintJob) Fail(message string, now time.Time) bool {
	if j.status == Completed || j.status == Failed {
		return false
	}
	j.status = Failed
	j.errorMessage = &message
	t := now.UTC()
	j.completedAt = &t
	return true
}
