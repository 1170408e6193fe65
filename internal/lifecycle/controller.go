// Package lifecycle applies user intents to the task store and reports a
// distinct outcome for each one.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"studymate/internal/notify"
	"studymate/internal/task"
	"studymate/internal/timeutil"
	"studymate/internal/view"
)

var (
	ErrInvalidTask = errors.New("invalid task")
	ErrNotFound    = errors.New("task not found")
	// ErrNotSaved wraps persistence failures. The in-memory change stands.
	ErrNotSaved = errors.New("changes not saved")
)

type Kind int

const (
	IntentSubmit Kind = iota
	IntentEditRequest
	IntentCancelEdit
	IntentToggleComplete
	IntentDelete
	IntentSetSearch
	IntentSetFilter
)

func (k Kind) String() string {
	switch k {
	case IntentSubmit:
		return "submit"
	case IntentEditRequest:
		return "edit"
	case IntentCancelEdit:
		return "cancel-edit"
	case IntentToggleComplete:
		return "toggle"
	case IntentDelete:
		return "delete"
	case IntentSetSearch:
		return "search"
	case IntentSetFilter:
		return "filter"
	default:
		return fmt.Sprintf("intent(%d)", int(k))
	}
}

// Form carries the raw field values of the task form.
type Form struct {
	Title    string
	Date     string
	Time     string
	Priority string
	Category string
}

func FormFromTask(t task.Task) Form {
	return Form{
		Title:    t.Title,
		Date:     t.Date,
		Time:     t.Time,
		Priority: string(t.Priority),
		Category: t.Category,
	}
}

type Intent struct {
	Kind   Kind
	ID     string
	Form   Form
	Query  string
	Filter view.StatusFilter
}

func Submit(f Form) Intent { return Intent{Kind: IntentSubmit, Form: f} }
func EditRequest(id string) Intent { return Intent{Kind: IntentEditRequest, ID: id} }
func CancelEdit() Intent { return Intent{Kind: IntentCancelEdit} }
func ToggleComplete(id string) Intent { return Intent{Kind: IntentToggleComplete, ID: id} }
func Delete(id string) Intent { return Intent{Kind: IntentDelete, ID: id} }
func SetSearch(q string) Intent { return Intent{Kind: IntentSetSearch, Query: q} }
func SetFilter(f view.StatusFilter) Intent { return Intent{Kind: IntentSetFilter, Filter: f} }

type Status int

const (
	StatusCreated Status = iota
	StatusUpdated
	StatusEditStarted
	StatusEditCancelled
	StatusToggled
	StatusDeleted
	StatusQueryChanged
	StatusInvalid
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusUpdated:
		return "updated"
	case StatusEditStarted:
		return "edit-started"
	case StatusEditCancelled:
		return "edit-cancelled"
	case StatusToggled:
		return "toggled"
	case StatusDeleted:
		return "deleted"
	case StatusQueryChanged:
		return "query-changed"
	case StatusInvalid:
		return "invalid"
	case StatusNotFound:
		return "not-found"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome reports what an intent did. Task holds the affected record when
// there is one. Notices are in display order; a failed save adds a warning
// after the success notice.
type Outcome struct {
	Status  Status
	Task    task.Task
	Notices []notify.Notification
	Err     error
}

// Mutated reports whether the store changed.
func (o Outcome) Mutated() bool {
	switch o.Status {
	case StatusCreated, StatusUpdated, StatusToggled, StatusDeleted:
		return true
	}
	return false
}

type Controller struct {
	store   *task.Store
	oracle  timeutil.Oracle
	engine  view.Engine
	newID   func() string
	editing string
	query   string
	filter  view.StatusFilter
}

type Option func(*Controller)

func WithIDGenerator(gen func() string) Option {
	return func(c *Controller) { c.newID = gen }
}

func WithFilter(f view.StatusFilter) Option {
	return func(c *Controller) { c.filter = f }
}

func New(store *task.Store, oracle timeutil.Oracle, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		oracle: oracle,
		engine: view.Engine{Oracle: oracle},
		newID:  NewID,
		filter: view.FilterAll,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewID returns an opaque, time-ordered task id.
func NewID() string {
	return "task_" + uuid.Must(uuid.NewV7()).String()
}

// Editing returns the id held in the edit buffer, if any.
func (c *Controller) Editing() (string, bool) {
	return c.editing, c.editing != ""
}

func (c *Controller) Query() string { return c.query }
func (c *Controller) Filter() view.StatusFilter { return c.filter }

func (c *Controller) Views() view.Snapshot {
	return c.engine.Snapshot(c.store.All(), c.query, c.filter)
}

func (c *Controller) Dispatch(in Intent) Outcome {
	switch in.Kind {
	case IntentSubmit:
		return c.submit(in.Form)
	case IntentEditRequest:
		return c.editRequest(in.ID)
	case IntentCancelEdit:
		c.editing = ""
		return Outcome{Status: StatusEditCancelled}
	case IntentToggleComplete:
		return c.toggle(in.ID)
	case IntentDelete:
		return c.delete(in.ID)
	case IntentSetSearch:
		c.query = in.Query
		return Outcome{Status: StatusQueryChanged}
	case IntentSetFilter:
		f, err := view.ParseStatusFilter(string(in.Filter))
		if err != nil {
			return Outcome{Status: StatusInvalid, Err: fmt.Errorf("%w: %w", ErrInvalidTask, err)}
		}
		c.filter = f
		return Outcome{Status: StatusQueryChanged}
	default:
		return Outcome{Status: StatusInvalid, Err: fmt.Errorf("%w: unknown intent %s", ErrInvalidTask, in.Kind)}
	}
}

func validate(f Form) error {
	if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.Date) == "" {
		return fmt.Errorf("%w: title and date are required", ErrInvalidTask)
	}
	if _, err := timeutil.ParseDate(f.Date, time.UTC); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidTask)
	}
	if strings.TrimSpace(f.Time) != "" {
		if _, err := timeutil.ParseClock(f.Time); err != nil {
			return fmt.Errorf("%w: time must be HH:MM", ErrInvalidTask)
		}
	}
	return nil
}

func (c *Controller) submit(f Form) Outcome {
	if err := validate(f); err != nil {
		return Outcome{
			Status:  StatusInvalid,
			Err:     err,
			Notices: []notify.Notification{notify.New(notify.Error, "Please fill in all required fields!")},
		}
	}
	now := c.oracle.Now()
	title := strings.TrimSpace(f.Title)
	date := strings.TrimSpace(f.Date)
	clock := strings.TrimSpace(f.Time)
	priority := task.ParsePriority(f.Priority)
	category := strings.TrimSpace(f.Category)

	if id, ok := c.Editing(); ok {
		c.editing = ""
		existing, found := c.store.FindByID(id)
		if !found {
			return Outcome{Status: StatusNotFound, Err: fmt.Errorf("%w: %s", ErrNotFound, id)}
		}
		existing.Title = title
		existing.Date = date
		existing.Time = clock
		existing.Priority = priority
		existing.Category = category
		existing.LastModified = now
		existing.Version = task.RecordVersion
		c.store.Replace(id, existing)
		return c.persist(Outcome{
			Status:  StatusUpdated,
			Task:    existing,
			Notices: []notify.Notification{notify.New(notify.Success, "Task updated successfully!")},
		})
	}

	t := task.Task{
		ID:           c.newID(),
		Title:        title,
		Date:         date,
		Time:         clock,
		Priority:     priority,
		Category:     category,
		CreatedAt:    now,
		LastModified: now,
		Version:      task.RecordVersion,
	}
	if err := c.store.Add(t); err != nil {
		return Outcome{Status: StatusInvalid, Err: fmt.Errorf("%w: %v", ErrInvalidTask, err)}
	}
	return c.persist(Outcome{
		Status:  StatusCreated,
		Task:    t,
		Notices: []notify.Notification{notify.New(notify.Success, "New task added to your study queue!")},
	})
}

func (c *Controller) editRequest(id string) Outcome {
	t, ok := c.store.FindByID(id)
	if !ok {
		return Outcome{Status: StatusNotFound, Err: fmt.Errorf("%w: %s", ErrNotFound, id)}
	}
	c.editing = id
	return Outcome{
		Status:  StatusEditStarted,
		Task:    t,
		Notices: []notify.Notification{notify.New(notify.Info, "Task ready for editing!")},
	}
}

func (c *Controller) toggle(id string) Outcome {
	t, ok := c.store.FindByID(id)
	if !ok {
		return Outcome{Status: StatusNotFound, Err: fmt.Errorf("%w: %s", ErrNotFound, id)}
	}
	t.Completed = !t.Completed
	msg := notify.New(notify.Success, "Task marked as pending")
	if t.Completed {
		at := c.oracle.Now()
		t.CompletedAt = &at
		msg = notify.New(notify.Success, "Great job! Task completed!")
	} else {
		t.CompletedAt = nil
	}
	c.store.Replace(id, t)
	return c.persist(Outcome{Status: StatusToggled, Task: t, Notices: []notify.Notification{msg}})
}

// delete assumes the caller has already confirmed with the user.
func (c *Controller) delete(id string) Outcome {
	t, ok := c.store.FindByID(id)
	if !ok {
		return Outcome{Status: StatusNotFound, Err: fmt.Errorf("%w: %s", ErrNotFound, id)}
	}
	c.store.Remove(id)
	if c.editing == id {
		c.editing = ""
	}
	return c.persist(Outcome{
		Status:  StatusDeleted,
		Task:    t,
		Notices: []notify.Notification{notify.New(notify.Success, "Task removed from your study queue!")},
	})
}

func (c *Controller) persist(o Outcome) Outcome {
	if err := c.store.Save(); err != nil {
		o.Err = fmt.Errorf("%w: %w", ErrNotSaved, err)
		o.Notices = append(o.Notices, notify.New(notify.Warning, "Could not save your tasks: %v", err))
	}
	return o
}
